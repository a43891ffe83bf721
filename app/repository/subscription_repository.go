package repository

import (
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *GormSubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetCurrentByUser picks the newest active row. A user can accumulate
// several rows over time; the most recently created active one wins.
func (r *GormSubscriptionRepository) GetCurrentByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND status = ?", userID, models.SUB_STATUS_ACTIVE).
		Order("created_at DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetOrCreateFree returns the user's current subscription, provisioning a
// free one when none is active.
func (r *GormSubscriptionRepository) GetOrCreateFree(userID uint) (*models.Subscription, error) {
	sub, err := r.GetCurrentByUser(userID)
	if err == nil {
		return sub, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	fresh := models.NewFreeSubscription(userID)
	if err := r.db.Create(fresh).Error; err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *GormSubscriptionRepository) ListByUser(userID uint, offset, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&subs).Error
	return subs, err
}

func (r *GormSubscriptionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *GormSubscriptionRepository) filtered(filter SubscriptionFilter) *gorm.DB {
	q := r.db.Model(&models.Subscription{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Tier != "" {
		q = q.Where("tier = ?", filter.Tier)
	}
	return q
}

func (r *GormSubscriptionRepository) List(filter SubscriptionFilter, offset, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.filtered(filter).Preload("User").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&subs).Error
	return subs, err
}

func (r *GormSubscriptionRepository) CountFiltered(filter SubscriptionFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

func (r *GormSubscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *GormSubscriptionRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subscription{}, id).Error
}

// ExpireOverdue flips paid rows whose end date has passed. Free rows have no
// end date and never lapse.
func (r *GormSubscriptionRepository) ExpireOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&models.Subscription{}).
		Where("status = ? AND tier <> ? AND end_date IS NOT NULL AND end_date < ?",
			models.SUB_STATUS_ACTIVE, models.TIER_FREE, now).
		Update("status", models.SUB_STATUS_EXPIRED)
	return res.RowsAffected, res.Error
}

func (r *GormSubscriptionRepository) GetExpiring(within time.Duration) ([]models.Subscription, error) {
	now := time.Now()
	var subs []models.Subscription
	err := r.db.Where("status = ? AND end_date IS NOT NULL AND end_date BETWEEN ? AND ?",
		models.SUB_STATUS_ACTIVE, now, now.Add(within)).
		Preload("User").Find(&subs).Error
	return subs, err
}

func (r *GormSubscriptionRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.Model(&models.Subscription{}).
		Select("status, COUNT(*) as total").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}
