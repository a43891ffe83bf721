package repository

import (
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormOtpRepository implements OtpRepository using GORM
type GormOtpRepository struct {
	db *gorm.DB
}

// NewOtpRepository creates a new otp repository instance
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &GormOtpRepository{db: db}
}

func (r *GormOtpRepository) Create(otp *models.Otp) error {
	return r.db.Create(otp).Error
}

func (r *GormOtpRepository) GetLatestByEmail(email string) (*models.Otp, error) {
	var otp models.Otp
	err := r.db.Where("email = ?", email).Order("created_at DESC").First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *GormOtpRepository) Update(otp *models.Otp) error {
	return r.db.Save(otp).Error
}

func (r *GormOtpRepository) DeleteExpired() error {
	return r.db.Where("expires_at < ?", time.Now()).Delete(&models.Otp{}).Error
}
