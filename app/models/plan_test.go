package models

import "testing"

func TestPlansCatalog(t *testing.T) {
	plans := Plans()
	if len(plans) != 8 {
		t.Fatalf("catalog size = %d, want 8", len(plans))
	}
	seen := map[string]bool{}
	for _, p := range plans {
		if seen[p.ID] {
			t.Fatalf("duplicate plan id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Tier != TIER_FREE && (p.Price <= 0 || p.DurationDays <= 0) {
			t.Fatalf("paid plan %q must have price and duration: %+v", p.ID, p)
		}
	}
	if !seen["free"] {
		t.Fatal("catalog must include the free plan")
	}
}

func TestFindPlan(t *testing.T) {
	p, ok := FindPlan("premium_yearly")
	if !ok {
		t.Fatal("premium_yearly must exist")
	}
	if p.Price != 3499 || p.DurationDays != 365 || p.Tier != TIER_PREMIUM {
		t.Fatalf("unexpected plan: %+v", p)
	}

	if _, ok := FindPlan("free"); ok {
		t.Fatal("the free plan is not purchasable")
	}
	if _, ok := FindPlan("nope"); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestApplyCoupon(t *testing.T) {
	tests := []struct {
		code  string
		price int64
		want  int64
	}{
		{"WELCOME10", 199, 19},
		{"NEWUSER15", 399, 59},
		{"SAVE50", 199, 50},
		{"SAVE50", 30, 30}, // fixed discount never exceeds the price
		{"UNKNOWN", 199, 0},
		{"", 199, 0},
	}
	for _, tt := range tests {
		if got := ApplyCoupon(tt.code, tt.price); got != tt.want {
			t.Fatalf("ApplyCoupon(%q, %d) = %d, want %d", tt.code, tt.price, got, tt.want)
		}
	}
}
