package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/monowartv/iptv-backend/internal/pkg/accessgate"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// parsePagination reads page/limit query params and returns page, perPage and
// the database offset.
func parsePagination(c *fiber.Ctx) (int, int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, (page - 1) * perPage
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// parseQueryUint reads a numeric query parameter.
func parseQueryUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || v == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(v), nil
}

// clientMeta extracts request metadata for watch history rows.
func clientMeta(c *fiber.Ctx) accessgate.ClientMeta {
	return accessgate.ClientMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		SessionID: c.Get("X-Session-ID"),
	}
}
