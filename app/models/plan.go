package models

// Plan is a purchasable subscription offer. The catalog is code-defined; the
// set of offers changes with releases, not at runtime.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	DurationDays int      `json:"duration"`
	Tier         string   `json:"subscription_type"`
	Popular      bool     `json:"popular,omitempty"`
	BestValue    bool     `json:"best_value,omitempty"`
	Features     []string `json:"features"`
}

var plans = []Plan{
	{
		ID: "free", Name: "Free Plan", Description: "Limited channels with ads",
		Price: 0, Currency: "BDT", DurationDays: 0, Tier: TIER_FREE,
		Features: []string{"Limited free channels", "Standard quality", "Advertisements included", "Basic support"},
	},
	{
		ID: "basic_monthly", Name: "Basic Monthly", Description: "More channels, fewer ads",
		Price: 199, Currency: "BDT", DurationDays: 30, Tier: TIER_BASIC,
		Features: []string{"Access to basic channels", "HD quality streaming", "Reduced advertisements", "2 concurrent streams"},
	},
	{
		ID: "basic_quarterly", Name: "Basic Quarterly", Description: "3 months basic subscription",
		Price: 499, Currency: "BDT", DurationDays: 90, Tier: TIER_BASIC,
		Features: []string{"All basic monthly features", "3 months subscription", "Priority support"},
	},
	{
		ID: "premium_monthly", Name: "Premium Monthly", Description: "All channels, no ads, HD quality",
		Price: 399, Currency: "BDT", DurationDays: 30, Tier: TIER_PREMIUM, Popular: true,
		Features: []string{"Access to all premium channels", "Full HD quality streaming", "No advertisements", "4 concurrent streams"},
	},
	{
		ID: "premium_quarterly", Name: "Premium Quarterly", Description: "3 months premium subscription",
		Price: 999, Currency: "BDT", DurationDays: 90, Tier: TIER_PREMIUM,
		Features: []string{"All premium monthly features", "3 months subscription", "Early access to new channels"},
	},
	{
		ID: "premium_yearly", Name: "Premium Yearly", Description: "12 months premium subscription",
		Price: 3499, Currency: "BDT", DurationDays: 365, Tier: TIER_PREMIUM, BestValue: true,
		Features: []string{"All premium features", "12 months subscription", "Family sharing (up to 6 devices)"},
	},
	{
		ID: "vip_monthly", Name: "VIP Monthly", Description: "Everything + exclusive content",
		Price: 599, Currency: "BDT", DurationDays: 30, Tier: TIER_VIP,
		Features: []string{"All premium features", "Exclusive VIP channels", "4K quality streaming", "Unlimited concurrent streams"},
	},
	{
		ID: "vip_yearly", Name: "VIP Yearly", Description: "12 months VIP subscription",
		Price: 5999, Currency: "BDT", DurationDays: 365, Tier: TIER_VIP,
		Features: []string{"All VIP features", "12 months subscription", "Exclusive live events access"},
	},
}

// Plans returns the full plan catalog.
func Plans() []Plan {
	return plans
}

// FindPlan looks up a purchasable (non-free) plan by id.
func FindPlan(id string) (*Plan, bool) {
	for i := range plans {
		if plans[i].ID == id && plans[i].Tier != TIER_FREE {
			return &plans[i], true
		}
	}
	return nil, false
}

// Coupon is a code-defined discount. Percent and Fixed are mutually
// exclusive.
type Coupon struct {
	Code    string
	Percent int64
	Fixed   int64
}

var coupons = map[string]Coupon{
	"WELCOME10": {Code: "WELCOME10", Percent: 10},
	"SAVE50":    {Code: "SAVE50", Fixed: 50},
	"NEWUSER15": {Code: "NEWUSER15", Percent: 15},
}

// ApplyCoupon returns the discount for a coupon code against a price, zero
// when the code is unknown.
func ApplyCoupon(code string, price int64) int64 {
	c, ok := coupons[code]
	if !ok {
		return 0
	}
	if c.Percent > 0 {
		return price * c.Percent / 100
	}
	if c.Fixed > price {
		return price
	}
	return c.Fixed
}
