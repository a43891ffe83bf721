package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OtpTTL is how long a one-time code stays redeemable.
const OtpTTL = 5 * time.Minute

type Otp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(200);not null;index" json:"email"`
	Code      string    `gorm:"type:varchar(10);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Consumed  bool      `gorm:"default:false" json:"consumed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// NewOtp creates a fresh six-digit code for the given email.
func NewOtp(email string) (*Otp, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, err
	}
	return &Otp{
		Email:     email,
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: time.Now().Add(OtpTTL),
	}, nil
}

// IsRedeemable reports whether the code can still be consumed.
func (o *Otp) IsRedeemable() bool {
	return !o.Consumed && time.Now().Before(o.ExpiresAt)
}
