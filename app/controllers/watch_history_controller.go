package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

// HandleMyWatchHistory lists the viewer's watch history, newest first.
func HandleMyWatchHistory(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)
	userID := usercontext.GetUserID(c)

	repos := repository.GetGlobalRepositories()
	entries, err := repos.WatchHistory.GetByUser(userID, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	total, err := repos.WatchHistory.CountByUser(userID)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}

	return response.OKPaginated(c, fiber.StatusOK, "History loaded", entries,
		response.NewPagination(page, perPage, total))
}

// HandleAddWatchEntry records a viewing session explicitly, for clients that
// track playback themselves.
func HandleAddWatchEntry(c *fiber.Ctx) error {
	var req struct {
		ChannelID       uint   `json:"channel_id"`
		DurationSeconds int64  `json:"duration_seconds"`
		SessionID       string `json:"session_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ChannelID == 0 {
		return response.Fail(c, fiber.StatusBadRequest, "channel_id is required")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Channel.GetActiveByID(req.ChannelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to record session")
	}

	meta := clientMeta(c)
	entry := &models.WatchHistory{
		UserID:          usercontext.GetUserID(c),
		ChannelID:       req.ChannelID,
		WatchedAt:       time.Now(),
		DurationSeconds: req.DurationSeconds,
		IPAddress:       meta.IPAddress,
		UserAgent:       meta.UserAgent,
		DeviceType:      models.DetectDeviceType(meta.UserAgent),
		SessionID:       req.SessionID,
	}
	if entry.SessionID == "" {
		entry.SessionID = meta.SessionID
	}
	if err := repos.WatchHistory.Create(entry); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to record session")
	}

	return response.OK(c, fiber.StatusCreated, "Session recorded", entry)
}

// HandleUpdateWatchDuration accumulates watched seconds on an entry.
func HandleUpdateWatchDuration(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	var req struct {
		Seconds int64 `json:"seconds"`
	}
	if err := c.BodyParser(&req); err != nil || req.Seconds <= 0 {
		return response.Fail(c, fiber.StatusBadRequest, "seconds must be positive")
	}

	repos := repository.GetGlobalRepositories()
	entry, err := repos.WatchHistory.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Entry not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load entry")
	}
	if entry.UserID != usercontext.GetUserID(c) {
		return response.Fail(c, fiber.StatusNotFound, "Entry not found")
	}

	entry.AddDuration(req.Seconds)
	if err := repos.WatchHistory.Update(entry); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update entry")
	}

	return response.OK(c, fiber.StatusOK, "Duration updated", entry)
}

// HandleDeleteWatchEntry removes one of the viewer's history entries.
func HandleDeleteWatchEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	repos := repository.GetGlobalRepositories()
	entry, err := repos.WatchHistory.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Entry not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load entry")
	}
	if entry.UserID != usercontext.GetUserID(c) {
		return response.Fail(c, fiber.StatusNotFound, "Entry not found")
	}
	if err := repos.WatchHistory.Delete(id); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete entry")
	}

	return response.OK(c, fiber.StatusOK, "Entry deleted", nil)
}

// HandleClearWatchHistory wipes the viewer's entire history.
func HandleClearWatchHistory(c *fiber.Ctx) error {
	if err := repository.GetGlobalRepositories().WatchHistory.DeleteByUser(usercontext.GetUserID(c)); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to clear history")
	}
	return response.OK(c, fiber.StatusOK, "History cleared", nil)
}

// HandleMyWatchStats returns viewing aggregates for the viewer.
func HandleMyWatchStats(c *fiber.Ctx) error {
	stats, err := repository.GetGlobalRepositories().WatchHistory.UserStats(usercontext.GetUserID(c))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load statistics")
	}
	return response.OK(c, fiber.StatusOK, "Statistics loaded", stats)
}

// HandleAdminListWatchHistory lists all watch history rows.
func HandleAdminListWatchHistory(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)

	repos := repository.GetGlobalRepositories()
	entries, err := repos.WatchHistory.List(offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	total, err := repos.WatchHistory.Count()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load history")
	}

	return response.OKPaginated(c, fiber.StatusOK, "History loaded", entries,
		response.NewPagination(page, perPage, total))
}
