package models

import (
	"testing"
	"time"
)

func TestSubscriptionIsValidAt(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"active free", Subscription{Tier: TIER_FREE, Status: SUB_STATUS_ACTIVE}, true},
		{"cancelled free", Subscription{Tier: TIER_FREE, Status: SUB_STATUS_CANCELLED}, false},
		{"active paid unexpired", Subscription{Tier: TIER_PREMIUM, Status: SUB_STATUS_ACTIVE, EndDate: &future}, true},
		{"active paid expired", Subscription{Tier: TIER_PREMIUM, Status: SUB_STATUS_ACTIVE, EndDate: &past}, false},
		{"active paid without end date", Subscription{Tier: TIER_PREMIUM, Status: SUB_STATUS_ACTIVE}, false},
		{"suspended paid unexpired", Subscription{Tier: TIER_VIP, Status: SUB_STATUS_SUSPENDED, EndDate: &future}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.IsValidAt(now); got != tt.want {
				t.Fatalf("IsValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionExtend(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)
	sub := Subscription{Tier: TIER_BASIC, Status: SUB_STATUS_EXPIRED, EndDate: &future}
	sub.Extend(30)
	if sub.Status != SUB_STATUS_ACTIVE {
		t.Fatalf("status = %q, want active", sub.Status)
	}
	want := future.AddDate(0, 0, 30)
	if !sub.EndDate.Equal(want) {
		t.Fatalf("end date = %v, want %v", sub.EndDate, want)
	}

	// a lapsed end date extends from now, not from the past
	past := time.Now().Add(-48 * time.Hour)
	lapsed := Subscription{Tier: TIER_BASIC, Status: SUB_STATUS_EXPIRED, EndDate: &past}
	lapsed.Extend(30)
	if !lapsed.EndDate.After(time.Now().AddDate(0, 0, 29)) {
		t.Fatalf("end date = %v, want ~30 days out", lapsed.EndDate)
	}
}

func TestSubscriptionDaysRemaining(t *testing.T) {
	free := Subscription{Tier: TIER_FREE, Status: SUB_STATUS_ACTIVE}
	if free.DaysRemaining() != nil {
		t.Fatal("free tier has no day count")
	}

	end := time.Now().Add(10*24*time.Hour + time.Hour)
	paid := Subscription{Tier: TIER_PREMIUM, Status: SUB_STATUS_ACTIVE, EndDate: &end}
	d := paid.DaysRemaining()
	if d == nil || *d != 11 {
		t.Fatalf("days remaining = %v, want 11", d)
	}

	past := time.Now().Add(-time.Hour)
	lapsed := Subscription{Tier: TIER_PREMIUM, Status: SUB_STATUS_ACTIVE, EndDate: &past}
	d = lapsed.DaysRemaining()
	if d == nil || *d != 0 {
		t.Fatalf("days remaining = %v, want 0", d)
	}
}

func TestNewFreeSubscription(t *testing.T) {
	sub := NewFreeSubscription(42)
	if sub.UserID != 42 || sub.Tier != TIER_FREE || sub.Status != SUB_STATUS_ACTIVE {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	if sub.EndDate != nil {
		t.Fatal("free subscriptions have no end date")
	}
	if !sub.IsValid() {
		t.Fatal("fresh free subscription must be valid")
	}
}

func TestSubscriptionCancel(t *testing.T) {
	end := time.Now().Add(24 * time.Hour)
	sub := Subscription{Tier: TIER_VIP, Status: SUB_STATUS_ACTIVE, EndDate: &end, AutoRenewal: true}
	sub.Cancel()
	if sub.Status != SUB_STATUS_CANCELLED || sub.AutoRenewal {
		t.Fatalf("unexpected state after cancel: %+v", sub)
	}
	if sub.IsValid() {
		t.Fatal("cancelled subscription must not be valid")
	}
}
