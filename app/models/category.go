package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CATEGORY_STATUS_ACTIVE   = "active"
	CATEGORY_STATUS_INACTIVE = "inactive"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug        string    `gorm:"uniqueIndex;type:varchar(160)" json:"slug"`
	Description string    `gorm:"type:text" json:"description" validate:"max=1000"`
	Icon        string    `gorm:"type:varchar(255);default:null" json:"icon" validate:"max=255"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	Status      string    `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active inactive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Category) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeSave keeps the slug in sync with the name.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Name != "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

// IsActive reports whether the category is visible in the catalog.
func (c *Category) IsActive() bool {
	return c.Status == CATEGORY_STATUS_ACTIVE
}
