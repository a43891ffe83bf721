package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"gorm.io/gorm"
)

type fakeSubStore struct {
	current *models.Subscription
	created []*models.Subscription
	updated []*models.Subscription
}

func (f *fakeSubStore) GetCurrentByUser(userID uint) (*models.Subscription, error) {
	if f.current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.current, nil
}

func (f *fakeSubStore) Create(sub *models.Subscription) error {
	sub.ID = uint(len(f.created) + 100)
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubStore) Update(sub *models.Subscription) error {
	f.updated = append(f.updated, sub)
	return nil
}

type fakePaymentStore struct {
	created       []*models.Payment
	updated       []*models.Payment
	manualUpdated []*models.ManualPayment
}

func (f *fakePaymentStore) Create(p *models.Payment) error {
	p.ID = uint(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

func (f *fakePaymentStore) Update(p *models.Payment) error {
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePaymentStore) UpdateManual(mp *models.ManualPayment) error {
	f.manualUpdated = append(f.manualUpdated, mp)
	return nil
}

func TestCreatePendingPayment(t *testing.T) {
	subs := &fakeSubStore{}
	payments := &fakePaymentStore{}
	svc := NewService(subs, payments)

	p, err := svc.CreatePendingPayment(7, "premium_monthly", models.PAYMENT_METHOD_BKASH, "")
	if err != nil {
		t.Fatalf("CreatePendingPayment: %v", err)
	}
	if p.Amount != 399 || p.Tier != models.TIER_PREMIUM || p.DurationDays != 30 {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if p.Status != models.PAYMENT_STATUS_PENDING {
		t.Fatalf("status = %q, want pending", p.Status)
	}
	if p.TransactionID == "" {
		t.Fatal("missing transaction id")
	}
}

func TestCreatePendingPaymentCoupon(t *testing.T) {
	svc := NewService(&fakeSubStore{}, &fakePaymentStore{})

	p, err := svc.CreatePendingPayment(7, "premium_monthly", models.PAYMENT_METHOD_NAGAD, "WELCOME10")
	if err != nil {
		t.Fatalf("CreatePendingPayment: %v", err)
	}
	if p.DiscountAmount != 39 { // 10% of 399, integer division
		t.Fatalf("discount = %d, want 39", p.DiscountAmount)
	}
	if p.NetAmount() != 360 {
		t.Fatalf("net = %d, want 360", p.NetAmount())
	}

	// unknown coupon codes are ignored, not an error
	p2, err := svc.CreatePendingPayment(7, "premium_monthly", models.PAYMENT_METHOD_NAGAD, "NOPE")
	if err != nil {
		t.Fatalf("CreatePendingPayment: %v", err)
	}
	if p2.DiscountAmount != 0 || p2.CouponCode != "" {
		t.Fatalf("unknown coupon must not discount: %+v", p2)
	}
}

func TestCreatePendingPaymentUnknownPlan(t *testing.T) {
	svc := NewService(&fakeSubStore{}, &fakePaymentStore{})
	if _, err := svc.CreatePendingPayment(7, "free", models.PAYMENT_METHOD_BKASH, ""); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("free plan must not be purchasable, got %v", err)
	}
	if _, err := svc.CreatePendingPayment(7, "does_not_exist", models.PAYMENT_METHOD_BKASH, ""); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("err = %v, want ErrUnknownPlan", err)
	}
}

func TestSettlePaymentSameTierExtends(t *testing.T) {
	end := time.Now().Add(10 * 24 * time.Hour)
	current := &models.Subscription{ID: 1, UserID: 7, Tier: models.TIER_PREMIUM, Status: models.SUB_STATUS_ACTIVE, EndDate: &end}
	subs := &fakeSubStore{current: current}
	payments := &fakePaymentStore{}
	svc := NewService(subs, payments)

	payment := &models.Payment{UserID: 7, Status: models.PAYMENT_STATUS_PENDING, Tier: models.TIER_PREMIUM, DurationDays: 30}
	sub, err := svc.SettlePayment(payment, "GW123", "ok")
	if err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	if sub.ID != 1 {
		t.Fatalf("expected the current row to be extended, got id %d", sub.ID)
	}
	want := end.AddDate(0, 0, 30)
	if !sub.EndDate.Equal(want) {
		t.Fatalf("end date = %v, want %v", sub.EndDate, want)
	}
	if payment.Status != models.PAYMENT_STATUS_COMPLETED || payment.PaidAt == nil {
		t.Fatalf("payment not completed: %+v", payment)
	}
	if payment.GatewayTransactionID != "GW123" {
		t.Fatalf("gateway txn = %q", payment.GatewayTransactionID)
	}
}

func TestSettlePaymentTierChangeSupersedes(t *testing.T) {
	end := time.Now().Add(10 * 24 * time.Hour)
	current := &models.Subscription{ID: 1, UserID: 7, Tier: models.TIER_BASIC, Status: models.SUB_STATUS_ACTIVE, EndDate: &end}
	subs := &fakeSubStore{current: current}
	svc := NewService(subs, &fakePaymentStore{})

	payment := &models.Payment{UserID: 7, Status: models.PAYMENT_STATUS_PENDING, Tier: models.TIER_VIP, DurationDays: 365}
	sub, err := svc.SettlePayment(payment, "", "")
	if err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	if sub.ID == 1 {
		t.Fatal("tier change must create a fresh row")
	}
	if sub.Tier != models.TIER_VIP {
		t.Fatalf("tier = %q, want vip", sub.Tier)
	}
	if current.Status != models.SUB_STATUS_CANCELLED {
		t.Fatalf("old row status = %q, want cancelled", current.Status)
	}
}

func TestSettlePaymentNoCurrentRow(t *testing.T) {
	subs := &fakeSubStore{}
	svc := NewService(subs, &fakePaymentStore{})

	payment := &models.Payment{UserID: 7, Status: models.PAYMENT_STATUS_PENDING, Tier: models.TIER_BASIC, DurationDays: 30}
	sub, err := svc.SettlePayment(payment, "", "")
	if err != nil {
		t.Fatalf("SettlePayment: %v", err)
	}
	if sub.Tier != models.TIER_BASIC || sub.EndDate == nil {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	if len(subs.created) != 1 {
		t.Fatalf("created rows = %d, want 1", len(subs.created))
	}
}

func TestSettlePaymentIdempotent(t *testing.T) {
	svc := NewService(&fakeSubStore{}, &fakePaymentStore{})
	payment := &models.Payment{UserID: 7, Status: models.PAYMENT_STATUS_COMPLETED, Tier: models.TIER_BASIC, DurationDays: 30}
	if _, err := svc.SettlePayment(payment, "", ""); !errors.Is(err, ErrAlreadySettled) {
		t.Fatalf("err = %v, want ErrAlreadySettled", err)
	}
}

func TestApproveManualPayment(t *testing.T) {
	subs := &fakeSubStore{}
	payments := &fakePaymentStore{}
	svc := NewService(subs, payments)

	mp := &models.ManualPayment{ID: 3, UserID: 7, PlanID: "basic_monthly", Amount: 199, Status: models.MANUAL_PAYMENT_PENDING}
	sub, err := svc.ApproveManualPayment(mp, 99)
	if err != nil {
		t.Fatalf("ApproveManualPayment: %v", err)
	}
	if sub.Tier != models.TIER_BASIC {
		t.Fatalf("tier = %q, want basic", sub.Tier)
	}
	if mp.Status != models.MANUAL_PAYMENT_APPROVED || mp.ReviewedBy == nil || *mp.ReviewedBy != 99 {
		t.Fatalf("claim not approved: %+v", mp)
	}
	if len(payments.created) != 1 || !payments.created[0].IsSuccessful() {
		t.Fatal("approval must book a completed payment")
	}

	if _, err := svc.ApproveManualPayment(mp, 99); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second review err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestRejectManualPayment(t *testing.T) {
	svc := NewService(&fakeSubStore{}, &fakePaymentStore{})

	mp := &models.ManualPayment{ID: 3, UserID: 7, PlanID: "basic_monthly", Status: models.MANUAL_PAYMENT_PENDING}
	if err := svc.RejectManualPayment(mp, 99, "reference not found"); err != nil {
		t.Fatalf("RejectManualPayment: %v", err)
	}
	if mp.Status != models.MANUAL_PAYMENT_REJECTED || mp.Note != "reference not found" {
		t.Fatalf("claim not rejected: %+v", mp)
	}
}
