package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
)

// HandleAdminListUsers returns a paginated user list, optionally filtered by
// a search query.
func HandleAdminListUsers(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	if q := c.Query("q"); q != "" {
		users, err := repos.User.Search(q)
		if err != nil {
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to search users")
		}
		return response.OK(c, fiber.StatusOK, "Users found", users)
	}

	page, perPage, offset := parsePagination(c)
	users, err := repos.User.List(offset, perPage)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load users")
	}
	total, err := repos.User.Count()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load users")
	}
	return response.OKPaginated(c, fiber.StatusOK, "Users loaded", users,
		response.NewPagination(page, perPage, total))
}

// HandleAdminGetUser returns one user with subscription and watch stats.
func HandleAdminGetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	sub, err := repos.Subscription.GetCurrentByUser(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load subscription")
	}
	stats, err := repos.WatchHistory.UserStats(id)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load statistics")
	}

	return response.OK(c, fiber.StatusOK, "User loaded", fiber.Map{
		"user":         user,
		"subscription": sub,
		"watch_stats":  stats,
	})
}

// HandleAdminUserStats returns viewing aggregates for one user.
func HandleAdminUserStats(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.User.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	stats, err := repos.WatchHistory.UserStats(id)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load statistics")
	}

	return response.OK(c, fiber.StatusOK, "Statistics loaded", stats)
}

// HandleAdminUpdateUser changes role, status or profile fields of a user.
func HandleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req struct {
		Name   string `json:"name"`
		Phone  string `json:"phone"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if err := user.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid user data: "+err.Error())
	}
	if err := repos.User.Update(user); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update user")
	}

	return response.OK(c, fiber.StatusOK, "User updated", user)
}

// HandleAdminDeleteUser soft-deletes a user account.
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid user id")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.User.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	if err := repos.User.Delete(id); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete user")
	}

	return response.OK(c, fiber.StatusOK, "User deleted", nil)
}
