package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
	"github.com/monowartv/iptv-backend/internal/pkg/response"
)

// HandleListCategories returns all active categories with channel counts.
func HandleListCategories(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	categories, err := repos.Category.GetActive()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load categories")
	}

	type categoryWithCount struct {
		models.Category
		ChannelCount int64 `json:"channel_count"`
	}
	out := make([]categoryWithCount, 0, len(categories))
	for _, cat := range categories {
		count, err := repos.Category.CountChannels(cat.ID)
		if err != nil {
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to load categories")
		}
		out = append(out, categoryWithCount{Category: cat, ChannelCount: count})
	}

	return response.OK(c, fiber.StatusOK, "Categories loaded", out)
}

// HandleGetCategory returns one active category by id or slug, with its
// channels.
func HandleGetCategory(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	var category *models.Category
	id, err := parseIDParam(c, "id")
	if err == nil {
		category, err = repos.Category.GetByID(id)
	} else {
		category, err = repos.Category.GetBySlug(c.Params("id"))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load category")
	}
	if !category.IsActive() {
		return response.Fail(c, fiber.StatusNotFound, "Category not found")
	}

	channels, err := repos.Channel.GetByCategory(category.ID, true)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}

	return response.OK(c, fiber.StatusOK, "Category loaded", fiber.Map{
		"category": category,
		"channels": channels,
	})
}

// HandleGetCategoryBySlug returns one active category by its slug.
func HandleGetCategoryBySlug(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	category, err := repos.Category.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load category")
	}
	if !category.IsActive() {
		return response.Fail(c, fiber.StatusNotFound, "Category not found")
	}

	channels, err := repos.Channel.GetByCategory(category.ID, true)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load channels")
	}

	return response.OK(c, fiber.StatusOK, "Category loaded", fiber.Map{
		"category": category,
		"channels": channels,
	})
}

// HandleAdminListCategories returns every category regardless of status.
func HandleAdminListCategories(c *fiber.Ctx) error {
	categories, err := repository.GetGlobalRepositories().Category.GetAll()
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load categories")
	}
	return response.OK(c, fiber.StatusOK, "Categories loaded", categories)
}

// HandleAdminCreateCategory creates a category.
func HandleAdminCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := category.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category data: "+err.Error())
	}

	repos := repository.GetGlobalRepositories()
	exists, err := repos.Category.NameExistsExceptID(category.Name, 0)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create category")
	}
	if exists {
		return response.Fail(c, fiber.StatusConflict, "Category name already exists")
	}
	if err := repos.Category.Create(&category); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to create category")
	}

	return response.OK(c, fiber.StatusCreated, "Category created", category)
}

// HandleAdminUpdateCategory updates a category.
func HandleAdminUpdateCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category id")
	}

	repos := repository.GetGlobalRepositories()
	category, err := repos.Category.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load category")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		SortOrder   *int   `json:"sort_order"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != "" && req.Name != category.Name {
		exists, err := repos.Category.NameExistsExceptID(req.Name, category.ID)
		if err != nil {
			return response.Fail(c, fiber.StatusInternalServerError, "Failed to update category")
		}
		if exists {
			return response.Fail(c, fiber.StatusConflict, "Category name already exists")
		}
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.Status != "" {
		category.Status = req.Status
	}
	if err := category.Validate(); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category data: "+err.Error())
	}
	if err := repos.Category.Update(category); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update category")
	}

	return response.OK(c, fiber.StatusOK, "Category updated", category)
}

// HandleAdminUpdateCategoryStatus flips a category's visibility.
func HandleAdminUpdateCategoryStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Status != models.CATEGORY_STATUS_ACTIVE && req.Status != models.CATEGORY_STATUS_INACTIVE {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid status")
	}

	repos := repository.GetGlobalRepositories()
	category, err := repos.Category.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load category")
	}

	category.Status = req.Status
	if err := repos.Category.Update(category); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to update category")
	}

	return response.OK(c, fiber.StatusOK, "Category status updated", category)
}

// HandleAdminDeleteCategory deletes a category without channels.
func HandleAdminDeleteCategory(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "Invalid category id")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Category.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Fail(c, fiber.StatusNotFound, "Category not found")
		}
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to load category")
	}

	count, err := repos.Category.CountChannels(id)
	if err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete category")
	}
	if count > 0 {
		return response.Fail(c, fiber.StatusConflict, "Category still has channels")
	}
	if err := repos.Category.Delete(id); err != nil {
		return response.Fail(c, fiber.StatusInternalServerError, "Failed to delete category")
	}

	return response.OK(c, fiber.StatusOK, "Category deleted", nil)
}
