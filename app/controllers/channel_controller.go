package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/accessgate"
	"github.com/monowartv/iptv-backend/internal/pkg/entitlements"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
	"github.com/monowartv/iptv-backend/internal/pkg/usercontext"
)

var streamGate *accessgate.Gate

// SetStreamGate wires the access gate used by the stream endpoints. Called
// once during startup.
func SetStreamGate(g *accessgate.Gate) {
	streamGate = g
}

// gateError maps access gate failures onto HTTP statuses.
func gateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, accessgate.ErrChannelNotFound):
		return response.Fail(c, fiber.StatusNotFound, "Channel not accessible")
	case errors.Is(err, accessgate.ErrTierRequired):
		return response.Fail(c, fiber.StatusForbidden, "Subscription upgrade required")
	case errors.Is(err, accessgate.ErrInvalidToken):
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid or expired stream token")
	case errors.Is(err, accessgate.ErrUpstream):
		return response.Fail(c, fiber.StatusServiceUnavailable, "Service temporarily unavailable")
	default:
		return response.Fail(c, fiber.StatusInternalServerError, "Stream request failed")
	}
}

// HandleListChannels returns the active catalog, paginated and filterable by
// category, quality, language and premium flag.
func HandleListChannels(c *fiber.Ctx) error {
	page, perPage, offset := parsePagination(c)

	filter := repository.ChannelFilter{
		Quality:  c.Query("quality"),
		Language: c.Query("language"),
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.CategoryID = uint(id)
		}
	}
	if v := c.Query("premium"); v != "" {
		premium := v == "true" || v == "1"
		filter.PremiumOnly = &premium
	}

	repos := repository.GetGlobalRepositories()
	channels, err := repos.Channel.List(filter, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}
	total, err := repos.Channel.CountFiltered(filter)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Channels loaded", channels,
		response.NewPagination(page, perPage, total))
}

// HandleFreeChannels returns all free active channels.
func HandleFreeChannels(c *fiber.Ctx) error {
	channels, err := repository.GetGlobalRepositories().Channel.GetFree()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}
	return response.OK(c, fiber.StatusOK, "Free channels loaded", channels)
}

// HandleSearchChannels searches active channels by name or description.
func HandleSearchChannels(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return response.Fail(c, fiber.StatusBadRequest, "Search query is required")
	}
	page, perPage, offset := parsePagination(c)

	repos := repository.GetGlobalRepositories()
	channels, err := repos.Channel.Search(query, offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Search failed")
	}
	total, err := repos.Channel.CountSearch(query)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Search failed")
	}

	return response.OKPaginated(c, fiber.StatusOK, "Channels found", channels,
		response.NewPagination(page, perPage, total))
}

// HandleChannelsByCategory returns the active channels of one category.
func HandleChannelsByCategory(c *fiber.Ctx) error {
	categoryID, err := parseIDParam(c, "categoryId")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category id")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Category.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}

	channels, err := repos.Channel.GetByCategory(categoryID, true)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}
	return response.OK(c, fiber.StatusOK, "Channels loaded", channels)
}

// HandleGetChannel returns one active channel with an accessibility hint for
// the current viewer.
func HandleGetChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	repos := repository.GetGlobalRepositories()
	channel, err := repos.Channel.GetActiveByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}

	sub, err := repos.Subscription.GetCurrentByUser(usercontext.GetUserID(c))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.Fail(c, fiber.StatusServiceUnavailable, "Service temporarily unavailable")
	}

	return response.OK(c, fiber.StatusOK, "Channel loaded", fiber.Map{
		"channel":       channel,
		"is_accessible": entitlements.Allows(sub, channel, time.Now()),
	})
}

// HandleStreamChannel authorizes playback and returns a tokenized stream
// grant. The real stream URL is never part of the answer.
func HandleStreamChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	grant, err := streamGate.RequestStream(usercontext.GetUserID(c), id, clientMeta(c))
	if err != nil {
		return gateError(c, err)
	}

	return response.OK(c, fiber.StatusOK, "Stream authorized", grant)
}

// HandlePlayChannel verifies a playback token and answers with the playable
// source URL. Players call this without an Authorization header, so the
// viewer id travels in the query string and is bound into the token.
func HandlePlayChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}
	uid, err := strconv.ParseUint(c.Query("uid"), 10, 32)
	if err != nil || uid == 0 {
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid or expired stream token")
	}
	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid or expired stream token")
	}
	token := c.Query("token")

	url, err := streamGate.VerifyStream(uint(uid), id, expires, token)
	if err != nil {
		return gateError(c, err)
	}

	return response.OK(c, fiber.StatusOK, "Token verified", fiber.Map{
		"stream_url": url,
	})
}

// HandleAdminCreateChannel creates a channel.
func HandleAdminCreateChannel(c *fiber.Ctx) error {
	var channel models.Channel
	if err := c.BodyParser(&channel); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if channel.Quality == "" {
		channel.Quality = "HD"
	}
	if channel.Status == "" {
		channel.Status = models.CHANNEL_STATUS_ACTIVE
	}
	if err := channel.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel data: "+err.Error())
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Category.GetByID(channel.CategoryID); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Category does not exist")
	}
	exists, err := repos.Channel.NameExistsExceptID(channel.Name, 0)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create channel")
	}
	if exists {
		return response.Fail(c, fiber.StatusConflict, "Channel name already exists")
	}
	if err := repos.Channel.Create(&channel); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create channel")
	}

	return response.OK(c, fiber.StatusCreated, "Channel created", channel)
}

// HandleAdminGetChannel returns one channel including non-active ones.
func HandleAdminGetChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}
	channel, err := repository.GetGlobalRepositories().Channel.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}
	return response.OK(c, fiber.StatusOK, "Channel loaded", channel)
}

// HandleAdminUpdateChannel updates channel fields.
func HandleAdminUpdateChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	repos := repository.GetGlobalRepositories()
	channel, err := repos.Channel.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		CategoryID  *uint  `json:"category_id"`
		StreamURL   string `json:"stream_url"`
		Thumbnail   string `json:"thumbnail"`
		Logo        string `json:"logo"`
		IsPremium   *bool  `json:"is_premium"`
		SortOrder   *int   `json:"sort_order"`
		Quality     string `json:"quality"`
		Language    string `json:"language"`
		Country     string `json:"country"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != "" && req.Name != channel.Name {
		exists, err := repos.Channel.NameExistsExceptID(req.Name, channel.ID)
		if err != nil {
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to update channel")
		}
		if exists {
			return response.Fail(c, fiber.StatusConflict, "Channel name already exists")
		}
		channel.Name = req.Name
	}
	if req.Description != "" {
		channel.Description = req.Description
	}
	if req.CategoryID != nil {
		if _, err := repos.Category.GetByID(*req.CategoryID); err != nil {
			return response.Fail(c, fiber.StatusBadRequest, "Category does not exist")
		}
		channel.CategoryID = *req.CategoryID
	}
	if req.StreamURL != "" {
		channel.StreamURL = req.StreamURL
	}
	if req.Thumbnail != "" {
		channel.Thumbnail = req.Thumbnail
	}
	if req.Logo != "" {
		channel.Logo = req.Logo
	}
	if req.IsPremium != nil {
		channel.IsPremium = *req.IsPremium
	}
	if req.SortOrder != nil {
		channel.SortOrder = *req.SortOrder
	}
	if req.Quality != "" {
		channel.Quality = req.Quality
	}
	if req.Language != "" {
		channel.Language = req.Language
	}
	if req.Country != "" {
		channel.Country = req.Country
	}
	if err := channel.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel data: "+err.Error())
	}
	if err := repos.Channel.Update(channel); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update channel")
	}

	return response.OK(c, fiber.StatusOK, "Channel updated", channel)
}

// HandleAdminUpdateChannelStatus flips the catalog status.
func HandleAdminUpdateChannelStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	switch req.Status {
	case models.CHANNEL_STATUS_ACTIVE, models.CHANNEL_STATUS_INACTIVE, models.CHANNEL_STATUS_MAINTENANCE:
	default:
		return response.Fail(c, fiber.StatusBadRequest, "Invalid status")
	}

	repos := repository.GetGlobalRepositories()
	channel, err := repos.Channel.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}

	channel.Status = req.Status
	if err := repos.Channel.Update(channel); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update channel")
	}

	return response.OK(c, fiber.StatusOK, "Channel status updated", channel)
}

// HandleAdminUpdateChannelOnline flips the broadcast flag.
func HandleAdminUpdateChannelOnline(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	var req struct {
		IsOnline *bool `json:"is_online"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsOnline == nil {
		return response.Fail(c, fiber.StatusBadRequest, "is_online is required")
	}

	repos := repository.GetGlobalRepositories()
	channel, err := repos.Channel.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}

	channel.IsOnline = *req.IsOnline
	if err := repos.Channel.Update(channel); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update channel")
	}

	return response.OK(c, fiber.StatusOK, "Channel online status updated", channel)
}

// HandleAdminDeleteChannel removes a channel from the catalog.
func HandleAdminDeleteChannel(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Channel.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}
	if err := repos.Channel.Delete(id); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete channel")
	}

	return response.OK(c, fiber.StatusOK, "Channel deleted", nil)
}

// HandleAdminChannelAnalytics returns viewing aggregates for a channel.
func HandleAdminChannelAnalytics(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid channel id")
	}

	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 {
		days = 30
	}

	repos := repository.GetGlobalRepositories()
	channel, err := repos.Channel.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Channel not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channel")
	}

	analytics, err := repos.WatchHistory.AnalyticsByChannel(id, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load analytics")
	}

	return response.OK(c, fiber.StatusOK, "Analytics loaded", fiber.Map{
		"channel":   channel.Summary(),
		"days":      days,
		"analytics": analytics,
	})
}
