package entitlements

import (
	"testing"
	"time"

	"github.com/monowartv/iptv-backend/app/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"free", TierFree},
		{"basic", TierBasic},
		{"premium", TierPremium},
		{"vip", TierVIP},
		{"", TierFree},
		{"platinum", TierFree},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	order := []Tier{TierFree, TierBasic, TierPremium, TierVIP}
	for i := 1; i < len(order); i++ {
		if Rank(order[i]) <= Rank(order[i-1]) {
			t.Fatalf("expected %q to outrank %q", order[i], order[i-1])
		}
	}
	if !AtLeast(TierVIP, TierBasic) {
		t.Fatal("vip should satisfy basic")
	}
	if AtLeast(TierFree, TierBasic) {
		t.Fatal("free should not satisfy basic")
	}
}

func TestAllows(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	freeChannel := &models.Channel{IsPremium: false}
	premiumChannel := &models.Channel{IsPremium: true}

	sub := func(tier, status string, end *time.Time) *models.Subscription {
		return &models.Subscription{Tier: tier, Status: status, EndDate: end}
	}

	tests := []struct {
		name string
		sub  *models.Subscription
		ch   *models.Channel
		want bool
	}{
		{"nil sub, free channel", nil, freeChannel, true},
		{"nil sub, premium channel", nil, premiumChannel, false},
		{"active free sub, free channel", sub(models.TIER_FREE, models.SUB_STATUS_ACTIVE, nil), freeChannel, true},
		{"active free sub, premium channel", sub(models.TIER_FREE, models.SUB_STATUS_ACTIVE, nil), premiumChannel, false},
		{"active basic sub, premium channel", sub(models.TIER_BASIC, models.SUB_STATUS_ACTIVE, &future), premiumChannel, true},
		{"active vip sub, premium channel", sub(models.TIER_VIP, models.SUB_STATUS_ACTIVE, &future), premiumChannel, true},
		{"expired-date premium sub, premium channel", sub(models.TIER_PREMIUM, models.SUB_STATUS_ACTIVE, &past), premiumChannel, false},
		{"expired-date premium sub, free channel", sub(models.TIER_PREMIUM, models.SUB_STATUS_ACTIVE, &past), freeChannel, true},
		{"cancelled free sub, free channel", sub(models.TIER_FREE, models.SUB_STATUS_CANCELLED, nil), freeChannel, true},
		{"suspended vip sub, free channel", sub(models.TIER_VIP, models.SUB_STATUS_SUSPENDED, &future), freeChannel, true},
		{"suspended vip sub, premium channel", sub(models.TIER_VIP, models.SUB_STATUS_SUSPENDED, &future), premiumChannel, false},
		{"paid sub without end date, premium channel", sub(models.TIER_PREMIUM, models.SUB_STATUS_ACTIVE, nil), premiumChannel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.sub, tt.ch, now); got != tt.want {
				t.Fatalf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequiredTier(t *testing.T) {
	if got := RequiredTier(&models.Channel{IsPremium: true}); got != TierBasic {
		t.Fatalf("premium channel requires %q, want %q", got, TierBasic)
	}
	if got := RequiredTier(&models.Channel{IsPremium: false}); got != TierFree {
		t.Fatalf("free channel requires %q, want %q", got, TierFree)
	}
}
