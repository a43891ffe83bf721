// Package billing turns plan purchases into payments and payments into
// subscription time.
package billing

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/app/repository"
)

var (
	ErrUnknownPlan     = errors.New("unknown plan")
	ErrAlreadySettled  = errors.New("payment already settled")
	ErrAlreadyReviewed = errors.New("manual payment already reviewed")
)

// SubscriptionStore is the slice of the subscription repository billing
// needs.
type SubscriptionStore interface {
	GetCurrentByUser(userID uint) (*models.Subscription, error)
	Create(sub *models.Subscription) error
	Update(sub *models.Subscription) error
}

// PaymentStore is the slice of the payment repository billing needs.
type PaymentStore interface {
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	UpdateManual(mp *models.ManualPayment) error
}

// Service applies the purchase and settlement rules on top of the
// repositories.
type Service struct {
	subs     SubscriptionStore
	payments PaymentStore
}

// NewService builds a billing service over the given stores.
func NewService(subs SubscriptionStore, payments PaymentStore) *Service {
	return &Service{subs: subs, payments: payments}
}

var (
	globalService *Service
	serviceOnce   sync.Once
)

// GetService returns the billing service over the global repositories.
func GetService() *Service {
	serviceOnce.Do(func() {
		repos := repository.GetGlobalRepositories()
		globalService = NewService(repos.Subscription, repos.Payment)
	})
	return globalService
}

// CreatePendingPayment opens a payment for a plan purchase. The amount is the
// plan price minus any coupon discount.
func (s *Service) CreatePendingPayment(userID uint, planID, method, couponCode string) (*models.Payment, error) {
	plan, ok := models.FindPlan(planID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	discount := int64(0)
	if couponCode != "" {
		discount = models.ApplyCoupon(couponCode, plan.Price)
		if discount == 0 {
			couponCode = ""
		}
	}

	payment := &models.Payment{
		UserID:         userID,
		TransactionID:  models.NewTransactionID(),
		Amount:         plan.Price,
		Currency:       plan.Currency,
		Method:         method,
		Status:         models.PAYMENT_STATUS_PENDING,
		DurationDays:   plan.DurationDays,
		Tier:           plan.Tier,
		DiscountAmount: discount,
		CouponCode:     couponCode,
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// SettlePayment marks a pending payment completed and credits the purchased
// time. Same-tier purchases extend the current row; a tier change supersedes
// it with a fresh row.
func (s *Service) SettlePayment(payment *models.Payment, gatewayTxnID, gatewayResponse string) (*models.Subscription, error) {
	if payment.Status != models.PAYMENT_STATUS_PENDING {
		return nil, ErrAlreadySettled
	}

	sub, err := s.creditTime(payment.UserID, payment.Tier, payment.DurationDays)
	if err != nil {
		return nil, err
	}

	payment.GatewayTransactionID = gatewayTxnID
	payment.MarkCompleted(gatewayResponse)
	payment.SubscriptionID = &sub.ID
	if err := s.payments.Update(payment); err != nil {
		return nil, err
	}
	return sub, nil
}

// creditTime applies purchased days to the user's entitlement.
func (s *Service) creditTime(userID uint, tier string, days int) (*models.Subscription, error) {
	current, err := s.subs.GetCurrentByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if current != nil && current.Tier == tier {
		current.Extend(days)
		if err := s.subs.Update(current); err != nil {
			return nil, err
		}
		return current, nil
	}

	// tier change: the old row stops competing for "current"
	if current != nil && current.Tier != models.TIER_FREE {
		current.Cancel()
		if err := s.subs.Update(current); err != nil {
			return nil, err
		}
	}

	end := time.Now().AddDate(0, 0, days)
	fresh := &models.Subscription{
		UserID:    userID,
		Tier:      tier,
		StartDate: time.Now(),
		EndDate:   &end,
		Status:    models.SUB_STATUS_ACTIVE,
	}
	if err := s.subs.Create(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// ApproveManualPayment settles a reviewed offline payment and credits the
// plan it references.
func (s *Service) ApproveManualPayment(mp *models.ManualPayment, reviewerID uint) (*models.Subscription, error) {
	if mp.Status != models.MANUAL_PAYMENT_PENDING {
		return nil, ErrAlreadyReviewed
	}
	plan, ok := models.FindPlan(mp.PlanID)
	if !ok {
		return nil, ErrUnknownPlan
	}

	sub, err := s.creditTime(mp.UserID, plan.Tier, plan.DurationDays)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:         mp.UserID,
		SubscriptionID: &sub.ID,
		TransactionID:  models.NewTransactionID(),
		Amount:         mp.Amount,
		Currency:       plan.Currency,
		Method:         models.PAYMENT_METHOD_MANUAL,
		Status:         models.PAYMENT_STATUS_PENDING,
		DurationDays:   plan.DurationDays,
		Tier:           plan.Tier,
	}
	payment.MarkCompleted("manual approval")
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	now := time.Now()
	mp.Status = models.MANUAL_PAYMENT_APPROVED
	mp.ReviewedBy = &reviewerID
	mp.ReviewedAt = &now
	if err := s.payments.UpdateManual(mp); err != nil {
		return nil, err
	}
	return sub, nil
}

// RejectManualPayment marks an offline payment as rejected.
func (s *Service) RejectManualPayment(mp *models.ManualPayment, reviewerID uint, note string) error {
	if mp.Status != models.MANUAL_PAYMENT_PENDING {
		return ErrAlreadyReviewed
	}
	now := time.Now()
	mp.Status = models.MANUAL_PAYMENT_REJECTED
	mp.ReviewedBy = &reviewerID
	mp.ReviewedAt = &now
	if note != "" {
		mp.Note = note
	}
	return s.payments.UpdateManual(mp)
}
