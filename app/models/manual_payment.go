package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MANUAL_PAYMENT_PENDING  = "pending"
	MANUAL_PAYMENT_APPROVED = "approved"
	MANUAL_PAYMENT_REJECTED = "rejected"
)

// ManualPayment is a user-submitted mobile-money payment claim waiting for
// admin review.
type ManualPayment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id" validate:"required"`
	User         *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID       string    `gorm:"type:varchar(40);not null" json:"plan_id" validate:"required"`
	Method       string    `gorm:"type:varchar(20);not null" json:"payment_method" validate:"oneof=bkash nagad rocket"`
	SenderNumber string    `gorm:"type:varchar(20);not null" json:"sender_number" validate:"required,min=6,max=20"`
	Reference    string    `gorm:"type:varchar(100);not null" json:"transaction_reference" validate:"required"`
	Amount       int64     `gorm:"not null" json:"amount" validate:"gt=0"`
	Status       string    `gorm:"type:varchar(20);default:'pending';index" json:"status" validate:"oneof=pending approved rejected"`
	Note         string     `gorm:"type:varchar(255);default:null" json:"note"`
	ReviewedBy   *uint      `gorm:"index;default:null" json:"reviewed_by"`
	ReviewedAt   *time.Time `gorm:"default:null" json:"reviewed_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *ManualPayment) Validate() error {
	v := validator.New()

	return v.Struct(m)
}
