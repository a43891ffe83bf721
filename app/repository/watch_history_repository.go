package repository

import (
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormWatchHistoryRepository implements WatchHistoryRepository using GORM
type GormWatchHistoryRepository struct {
	db *gorm.DB
}

// NewWatchHistoryRepository creates a new watch history repository instance
func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &GormWatchHistoryRepository{db: db}
}

func (r *GormWatchHistoryRepository) Create(entry *models.WatchHistory) error {
	return r.db.Create(entry).Error
}

func (r *GormWatchHistoryRepository) GetByID(id uint) (*models.WatchHistory, error) {
	var entry models.WatchHistory
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormWatchHistoryRepository) GetByUser(userID uint, offset, limit int) ([]models.WatchHistory, error) {
	var entries []models.WatchHistory
	err := r.db.Where("user_id = ?", userID).Preload("Channel").
		Order("watched_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *GormWatchHistoryRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.WatchHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormWatchHistoryRepository) List(offset, limit int) ([]models.WatchHistory, error) {
	var entries []models.WatchHistory
	err := r.db.Preload("User").Preload("Channel").
		Order("watched_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *GormWatchHistoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.WatchHistory{}).Count(&count).Error
	return count, err
}

func (r *GormWatchHistoryRepository) Update(entry *models.WatchHistory) error {
	return r.db.Save(entry).Error
}

func (r *GormWatchHistoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.WatchHistory{}, id).Error
}

func (r *GormWatchHistoryRepository) DeleteByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.WatchHistory{}).Error
}

// UserStats summarizes a viewer's history including their most-watched
// channel by accumulated duration.
func (r *GormWatchHistoryRepository) UserStats(userID uint) (*WatchStats, error) {
	stats := &WatchStats{}
	err := r.db.Model(&models.WatchHistory{}).Where("user_id = ?", userID).
		Select("COUNT(*) as total_sessions, COALESCE(SUM(duration_seconds),0) as total_seconds, COUNT(DISTINCT channel_id) as distinct_channels").
		Scan(stats).Error
	if err != nil {
		return nil, err
	}
	if stats.TotalSessions == 0 {
		return stats, nil
	}
	type fav struct {
		ChannelID uint
		Name      string
	}
	var f fav
	err = r.db.Model(&models.WatchHistory{}).
		Select("watch_histories.channel_id, channels.name").
		Joins("JOIN channels ON channels.id = watch_histories.channel_id").
		Where("watch_histories.user_id = ?", userID).
		Group("watch_histories.channel_id, channels.name").
		Order("SUM(watch_histories.duration_seconds) DESC").
		Limit(1).Scan(&f).Error
	if err != nil {
		return nil, err
	}
	stats.FavoriteChannelID = f.ChannelID
	stats.FavoriteChannel = f.Name
	return stats, nil
}

func (r *GormWatchHistoryRepository) AnalyticsByChannel(channelID uint, since time.Time) (*ChannelAnalytics, error) {
	analytics := &ChannelAnalytics{}
	err := r.db.Model(&models.WatchHistory{}).
		Where("channel_id = ? AND watched_at >= ?", channelID, since).
		Select("COUNT(*) as views, COUNT(DISTINCT user_id) as unique_viewers, COALESCE(SUM(duration_seconds),0) as total_seconds").
		Scan(analytics).Error
	if err != nil {
		return nil, err
	}
	return analytics, nil
}
