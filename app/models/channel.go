package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	CHANNEL_STATUS_ACTIVE      = "active"
	CHANNEL_STATUS_INACTIVE    = "inactive"
	CHANNEL_STATUS_MAINTENANCE = "maintenance"
)

// Channel is a catalog entry. StreamURL is the secret playable URL: it is
// never serialized and only leaves the server through the token-verification
// path.
type Channel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Slug        string    `gorm:"uniqueIndex;type:varchar(160)" json:"slug"`
	Description string    `gorm:"type:text" json:"description" validate:"max=1000"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id" validate:"required"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	StreamURL   string    `gorm:"type:varchar(500);not null" json:"-" validate:"required,url"`
	Thumbnail   string    `gorm:"type:varchar(255);default:null" json:"thumbnail"`
	Logo        string    `gorm:"type:varchar(255);default:null" json:"logo"`
	IsPremium   bool      `gorm:"default:false;index" json:"is_premium"`
	IsOnline    bool      `gorm:"default:true" json:"is_online"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	ViewerCount int64     `gorm:"default:0" json:"viewer_count"`
	Quality     string    `gorm:"type:varchar(10);default:'HD'" json:"quality" validate:"oneof=SD HD FHD 4K"`
	Language    string    `gorm:"type:varchar(30);default:'Bangla'" json:"language"`
	Country     string    `gorm:"type:varchar(60);default:'Bangladesh'" json:"country"`
	Status      string    `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active inactive maintenance"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ch *Channel) Validate() error {
	v := validator.New()

	return v.Struct(ch)
}

// BeforeSave keeps the slug in sync with the name.
func (ch *Channel) BeforeSave(tx *gorm.DB) error {
	if ch.Name != "" {
		ch.Slug = Slugify(ch.Name)
	}
	return nil
}

// IsServable reports whether the channel may currently be streamed.
func (ch *Channel) IsServable() bool {
	return ch.Status == CHANNEL_STATUS_ACTIVE && ch.IsOnline
}

// Summary is the compact channel shape embedded in stream grants.
type ChannelSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Logo    string `json:"logo"`
	Quality string `json:"quality"`
}

// Summary returns the compact representation for stream responses.
func (ch *Channel) Summary() ChannelSummary {
	return ChannelSummary{ID: ch.ID, Name: ch.Name, Logo: ch.Logo, Quality: ch.Quality}
}
