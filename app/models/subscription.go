package models

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TIER_FREE    = "free"
	TIER_BASIC   = "basic"
	TIER_PREMIUM = "premium"
	TIER_VIP     = "vip"

	SUB_STATUS_ACTIVE    = "active"
	SUB_STATUS_EXPIRED   = "expired"
	SUB_STATUS_CANCELLED = "cancelled"
	SUB_STATUS_SUSPENDED = "suspended"
)

// Subscription is a user's entitlement row. A free subscription has no end
// date; paid tiers are valid only while active and unexpired.
type Subscription struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index:idx_subscriptions_user_status,priority:1" json:"user_id" validate:"required"`
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tier           string     `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_type" validate:"oneof=free basic premium vip"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `gorm:"index;default:null" json:"end_date"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active';index:idx_subscriptions_user_status,priority:2" json:"status" validate:"oneof=active expired cancelled suspended"`
	AutoRenewal    bool       `gorm:"default:false" json:"auto_renewal"`
	GracePeriodEnd *time.Time `gorm:"default:null" json:"grace_period_end"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// IsValidAt reports whether the subscription entitles access at the given
// time: free tiers while active, paid tiers while active and unexpired.
func (s *Subscription) IsValidAt(now time.Time) bool {
	if s.Status != SUB_STATUS_ACTIVE {
		return false
	}
	if s.Tier == TIER_FREE {
		return true
	}
	return s.EndDate != nil && s.EndDate.After(now)
}

// IsValid reports validity at the current time.
func (s *Subscription) IsValid() bool {
	return s.IsValidAt(time.Now())
}

// HasPremiumAccess reports whether the subscription unlocks premium channels.
func (s *Subscription) HasPremiumAccess() bool {
	return s.Tier != TIER_FREE && s.IsValid()
}

// DaysRemaining returns the whole days left on a paid subscription, nil for
// free tiers.
func (s *Subscription) DaysRemaining() *int {
	if s.Tier == TIER_FREE {
		return nil
	}
	days := 0
	if s.Status == SUB_STATUS_ACTIVE && s.EndDate != nil {
		diff := time.Until(*s.EndDate).Hours() / 24
		if diff > 0 {
			days = int(math.Ceil(diff))
		}
	}
	return &days
}

// Extend pushes the end date out by the given number of days, from the
// current end date if still in the future, otherwise from now.
func (s *Subscription) Extend(days int) {
	base := time.Now()
	if s.EndDate != nil && s.EndDate.After(base) {
		base = *s.EndDate
	}
	end := base.AddDate(0, 0, days)
	s.EndDate = &end
	s.Status = SUB_STATUS_ACTIVE
}

// Cancel marks the subscription cancelled and switches auto-renewal off.
func (s *Subscription) Cancel() {
	s.Status = SUB_STATUS_CANCELLED
	s.AutoRenewal = false
}

// NewFreeSubscription builds the default entitlement row for a user.
func NewFreeSubscription(userID uint) *Subscription {
	return &Subscription{
		UserID:    userID,
		Tier:      TIER_FREE,
		StartDate: time.Now(),
		Status:    SUB_STATUS_ACTIVE,
	}
}
