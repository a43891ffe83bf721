package repository

import (
	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *GormPaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) GetByTransactionID(txnID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("transaction_id = ?", txnID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) filtered(filter PaymentFilter) *gorm.DB {
	q := r.db.Model(&models.Payment{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

func (r *GormPaymentRepository) List(filter PaymentFilter, offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.filtered(filter).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) CountFiltered(filter PaymentFilter) (int64, error) {
	var count int64
	err := r.filtered(filter).Count(&count).Error
	return count, err
}

func (r *GormPaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

func (r *GormPaymentRepository) CreateManual(mp *models.ManualPayment) error {
	return r.db.Create(mp).Error
}

func (r *GormPaymentRepository) GetManualByID(id uint) (*models.ManualPayment, error) {
	var mp models.ManualPayment
	err := r.db.First(&mp, id).Error
	if err != nil {
		return nil, err
	}
	return &mp, nil
}

func (r *GormPaymentRepository) ListManual(status string, offset, limit int) ([]models.ManualPayment, error) {
	q := r.db.Model(&models.ManualPayment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var entries []models.ManualPayment
	err := q.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *GormPaymentRepository) CountManual(status string) (int64, error) {
	q := r.db.Model(&models.ManualPayment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *GormPaymentRepository) UpdateManual(mp *models.ManualPayment) error {
	return r.db.Save(mp).Error
}
