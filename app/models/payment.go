package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	PAYMENT_METHOD_BKASH  = "bkash"
	PAYMENT_METHOD_NAGAD  = "nagad"
	PAYMENT_METHOD_ROCKET = "rocket"
	PAYMENT_METHOD_CARD   = "card"
	PAYMENT_METHOD_MANUAL = "manual"

	PAYMENT_STATUS_PENDING   = "pending"
	PAYMENT_STATUS_COMPLETED = "completed"
	PAYMENT_STATUS_FAILED    = "failed"
	PAYMENT_STATUS_REFUNDED  = "refunded"
	PAYMENT_STATUS_CANCELLED = "cancelled"
)

type Payment struct {
	ID                   uint          `gorm:"primaryKey" json:"id"`
	UserID               uint          `gorm:"not null;index:idx_payments_user_status,priority:1" json:"user_id" validate:"required"`
	User                 *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SubscriptionID       *uint         `gorm:"index;default:null" json:"subscription_id"`
	Subscription         *Subscription `gorm:"foreignKey:SubscriptionID" json:"subscription,omitempty"`
	TransactionID        string        `gorm:"uniqueIndex;type:varchar(64);not null" json:"transaction_id"`
	GatewayTransactionID string        `gorm:"type:varchar(100);index;default:null" json:"gateway_transaction_id"`
	Amount               int64         `gorm:"not null" json:"amount" validate:"gte=0"`
	Currency             string        `gorm:"type:varchar(10);default:'BDT'" json:"currency" validate:"oneof=BDT USD"`
	Method               string        `gorm:"type:varchar(20);not null" json:"payment_method" validate:"oneof=bkash nagad rocket card manual"`
	Status               string        `gorm:"type:varchar(20);default:'pending';index:idx_payments_user_status,priority:2" json:"payment_status" validate:"oneof=pending completed failed refunded cancelled"`
	DurationDays         int           `gorm:"not null" json:"subscription_duration" validate:"oneof=30 90 365"`
	Tier                 string        `gorm:"type:varchar(20);not null" json:"subscription_type" validate:"oneof=basic premium vip"`
	DiscountAmount       int64         `gorm:"default:0" json:"discount_amount" validate:"gte=0"`
	CouponCode           string        `gorm:"type:varchar(30);default:null" json:"coupon_code"`
	PaidAt               *time.Time    `gorm:"default:null" json:"payment_date"`
	GatewayResponse      string        `gorm:"type:text" json:"gateway_response,omitempty"`
	RefundReason         string        `gorm:"type:varchar(255);default:null" json:"refund_reason"`
	RefundedAt           *time.Time    `gorm:"default:null" json:"refund_date"`
	CreatedAt            time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// NewTransactionID generates a unique external payment reference.
func NewTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:24]
}

// NetAmount returns the amount after discount.
func (p *Payment) NetAmount() int64 {
	net := p.Amount - p.DiscountAmount
	if net < 0 {
		net = 0
	}
	return net
}

// IsSuccessful reports whether the payment completed.
func (p *Payment) IsSuccessful() bool {
	return p.Status == PAYMENT_STATUS_COMPLETED
}

// MarkCompleted flips the payment to completed and stamps the payment time.
func (p *Payment) MarkCompleted(gatewayResponse string) {
	p.Status = PAYMENT_STATUS_COMPLETED
	p.GatewayResponse = gatewayResponse
	now := time.Now()
	p.PaidAt = &now
}

// ValidStatusTransition reports whether a manual status change is allowed.
// Completed payments may only move to refunded.
func (p *Payment) ValidStatusTransition(next string) bool {
	if p.Status == next {
		return true
	}
	if p.Status == PAYMENT_STATUS_COMPLETED {
		return next == PAYMENT_STATUS_REFUNDED
	}
	return p.Status == PAYMENT_STATUS_PENDING
}

// String implements fmt.Stringer for log lines.
func (p *Payment) String() string {
	return fmt.Sprintf("payment %s (%d %s, %s)", p.TransactionID, p.Amount, p.Currency, p.Status)
}
