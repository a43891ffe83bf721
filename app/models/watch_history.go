package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	DEVICE_MOBILE  = "mobile"
	DEVICE_TABLET  = "tablet"
	DEVICE_TV      = "tv"
	DEVICE_DESKTOP = "desktop"
	DEVICE_UNKNOWN = "unknown"
)

type WatchHistory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index:idx_watch_user_time,priority:1" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChannelID       uint      `gorm:"not null;index" json:"channel_id"`
	Channel         *Channel  `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	WatchedAt       time.Time `gorm:"not null;index:idx_watch_user_time,priority:2" json:"watched_at"`
	DurationSeconds int64     `gorm:"default:0" json:"duration_seconds"`
	IPAddress       string    `gorm:"type:varchar(45);default:null" json:"-"`
	UserAgent       string    `gorm:"type:varchar(255);default:null" json:"-"`
	DeviceType      string    `gorm:"type:varchar(20);default:'unknown'" json:"device_type"`
	SessionID       string    `gorm:"type:varchar(100);default:null" json:"session_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AddDuration accumulates watched seconds on an existing session row.
func (w *WatchHistory) AddDuration(seconds int64) {
	if seconds > 0 {
		w.DurationSeconds += seconds
	}
}

// FormattedDuration renders the duration as h/m/s for display.
func (w *WatchHistory) FormattedDuration() string {
	d := time.Duration(w.DurationSeconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// DetectDeviceType classifies a user agent into a coarse device bucket.
func DetectDeviceType(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return DEVICE_UNKNOWN
	case strings.Contains(ua, "smart-tv"), strings.Contains(ua, "smarttv"),
		strings.Contains(ua, "appletv"), strings.Contains(ua, "roku"),
		strings.Contains(ua, "tizen"), strings.Contains(ua, "webos"):
		return DEVICE_TV
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return DEVICE_TABLET
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"),
		strings.Contains(ua, "iphone"):
		return DEVICE_MOBILE
	default:
		return DEVICE_DESKTOP
	}
}
