package repository

import (
	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormChannelRepository implements ChannelRepository using GORM
type GormChannelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new channel repository instance
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &GormChannelRepository{db: db}
}

func (r *GormChannelRepository) Create(channel *models.Channel) error {
	return r.db.Create(channel).Error
}

func (r *GormChannelRepository) GetByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.Preload("Category").First(&channel, id).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// GetActiveByID loads a channel only when it is still in the visible catalog.
// Disabled and deleted channels are indistinguishable from absent ones.
func (r *GormChannelRepository) GetActiveByID(id uint) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.Where("status = ?", models.CHANNEL_STATUS_ACTIVE).First(&channel, id).Error
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *GormChannelRepository) filtered(filter ChannelFilter) *gorm.DB {
	q := r.db.Model(&models.Channel{}).Where("status = ?", models.CHANNEL_STATUS_ACTIVE)
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Quality != "" {
		q = q.Where("quality = ?", filter.Quality)
	}
	if filter.Language != "" {
		q = q.Where("language = ?", filter.Language)
	}
	if filter.PremiumOnly != nil {
		q = q.Where("is_premium = ?", *filter.PremiumOnly)
	}
	return q
}

func (r *GormChannelRepository) List(filter ChannelFilter, offset, limit int) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.filtered(filter).Preload("Category").
		Order("sort_order ASC, name ASC").Offset(offset).Limit(limit).Find(&channels).Error
	return channels, err
}

func (r *GormChannelRepository) CountFiltered(filter ChannelFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

func (r *GormChannelRepository) GetByCategory(categoryID uint, includePremium bool) ([]models.Channel, error) {
	q := r.db.Where("category_id = ? AND status = ?", categoryID, models.CHANNEL_STATUS_ACTIVE)
	if !includePremium {
		q = q.Where("is_premium = ?", false)
	}
	var channels []models.Channel
	err := q.Order("sort_order ASC, name ASC").Find(&channels).Error
	return channels, err
}

func (r *GormChannelRepository) GetFree() ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.Where("is_premium = ? AND status = ?", false, models.CHANNEL_STATUS_ACTIVE).
		Order("sort_order ASC, name ASC").Find(&channels).Error
	return channels, err
}

func (r *GormChannelRepository) Search(query string, offset, limit int) ([]models.Channel, error) {
	var channels []models.Channel
	like := "%" + query + "%"
	err := r.db.Where("status = ? AND (name LIKE ? OR description LIKE ?)",
		models.CHANNEL_STATUS_ACTIVE, like, like).
		Preload("Category").Order("name ASC").Offset(offset).Limit(limit).Find(&channels).Error
	return channels, err
}

func (r *GormChannelRepository) CountSearch(query string) (int64, error) {
	var count int64
	like := "%" + query + "%"
	err := r.db.Model(&models.Channel{}).
		Where("status = ? AND (name LIKE ? OR description LIKE ?)",
			models.CHANNEL_STATUS_ACTIVE, like, like).Count(&count).Error
	return count, err
}

func (r *GormChannelRepository) Update(channel *models.Channel) error {
	return r.db.Save(channel).Error
}

func (r *GormChannelRepository) Delete(id uint) error {
	return r.db.Delete(&models.Channel{}, id).Error
}

func (r *GormChannelRepository) NameExistsExceptID(name string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Channel{}).
		Where("name = ? AND id <> ?", name, id).Count(&count).Error
	return count > 0, err
}
