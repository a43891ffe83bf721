package repository

import (
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetBySID(sid string) (*models.User, error)
	NextSID() (string, error)
	SIDExists(sid string) (bool, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// CategoryRepository defines the interface for category catalog operations
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	GetActive() ([]models.Category, error)
	GetAll() ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
	NameExistsExceptID(name string, id uint) (bool, error)
	CountChannels(categoryID uint) (int64, error)
}

// ChannelFilter narrows channel listings.
type ChannelFilter struct {
	CategoryID  uint
	Quality     string
	Language    string
	PremiumOnly *bool
}

// ChannelRepository defines the interface for channel catalog operations
type ChannelRepository interface {
	Create(channel *models.Channel) error
	GetByID(id uint) (*models.Channel, error)
	GetActiveByID(id uint) (*models.Channel, error)
	List(filter ChannelFilter, offset, limit int) ([]models.Channel, error)
	CountFiltered(filter ChannelFilter) (int64, error)
	GetByCategory(categoryID uint, includePremium bool) ([]models.Channel, error)
	GetFree() ([]models.Channel, error)
	Search(query string, offset, limit int) ([]models.Channel, error)
	CountSearch(query string) (int64, error)
	Update(channel *models.Channel) error
	Delete(id uint) error
	NameExistsExceptID(name string, id uint) (bool, error)
}

// SubscriptionFilter narrows admin subscription listings.
type SubscriptionFilter struct {
	Status string
	Tier   string
}

// SubscriptionRepository defines the interface for entitlement rows
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	// GetCurrentByUser returns the newest active row for a subject, or
	// gorm.ErrRecordNotFound when no active row exists.
	GetCurrentByUser(userID uint) (*models.Subscription, error)
	GetOrCreateFree(userID uint) (*models.Subscription, error)
	ListByUser(userID uint, offset, limit int) ([]models.Subscription, error)
	CountByUser(userID uint) (int64, error)
	List(filter SubscriptionFilter, offset, limit int) ([]models.Subscription, error)
	CountFiltered(filter SubscriptionFilter) (int64, error)
	Update(sub *models.Subscription) error
	Delete(id uint) error
	// ExpireOverdue flips lapsed paid active rows to expired and returns how
	// many rows changed.
	ExpireOverdue(now time.Time) (int64, error)
	GetExpiring(within time.Duration) ([]models.Subscription, error)
	CountByStatus() (map[string]int64, error)
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	UserID uint
	Status string
}

// PaymentRepository defines the interface for payment bookkeeping
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	GetByTransactionID(txnID string) (*models.Payment, error)
	List(filter PaymentFilter, offset, limit int) ([]models.Payment, error)
	CountFiltered(filter PaymentFilter) (int64, error)
	Update(payment *models.Payment) error

	CreateManual(mp *models.ManualPayment) error
	GetManualByID(id uint) (*models.ManualPayment, error)
	ListManual(status string, offset, limit int) ([]models.ManualPayment, error)
	CountManual(status string) (int64, error)
	UpdateManual(mp *models.ManualPayment) error
}

// WatchStats aggregates a single viewer's history.
type WatchStats struct {
	TotalSessions     int64  `json:"total_sessions"`
	TotalSeconds      int64  `json:"total_seconds"`
	DistinctChannels  int64  `json:"distinct_channels"`
	FavoriteChannelID uint   `json:"favorite_channel_id"`
	FavoriteChannel   string `json:"favorite_channel"`
}

// ChannelAnalytics aggregates viewing of a single channel.
type ChannelAnalytics struct {
	Views         int64 `json:"views"`
	UniqueViewers int64 `json:"unique_viewers"`
	TotalSeconds  int64 `json:"total_seconds"`
}

// WatchHistoryRepository defines the interface for watch analytics rows
type WatchHistoryRepository interface {
	Create(entry *models.WatchHistory) error
	GetByID(id uint) (*models.WatchHistory, error)
	GetByUser(userID uint, offset, limit int) ([]models.WatchHistory, error)
	CountByUser(userID uint) (int64, error)
	List(offset, limit int) ([]models.WatchHistory, error)
	Count() (int64, error)
	Update(entry *models.WatchHistory) error
	Delete(id uint) error
	DeleteByUser(userID uint) error
	UserStats(userID uint) (*WatchStats, error)
	AnalyticsByChannel(channelID uint, since time.Time) (*ChannelAnalytics, error)
}

// OtpRepository defines the interface for one-time code rows
type OtpRepository interface {
	Create(otp *models.Otp) error
	GetLatestByEmail(email string) (*models.Otp, error)
	Update(otp *models.Otp) error
	DeleteExpired() error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Category     CategoryRepository
	Channel      ChannelRepository
	Subscription SubscriptionRepository
	Payment      PaymentRepository
	WatchHistory WatchHistoryRepository
	Otp          OtpRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Category:     NewCategoryRepository(db),
		Channel:      NewChannelRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Payment:      NewPaymentRepository(db),
		WatchHistory: NewWatchHistoryRepository(db),
		Otp:          NewOtpRepository(db),
	}
}
