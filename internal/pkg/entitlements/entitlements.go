// Package entitlements holds the pure access policy: which subscription
// tiers unlock which channels. It has no storage or transport concerns so the
// rules stay trivially testable.
package entitlements

import (
	"time"

	"github.com/monowartv/iptv-backend/app/models"
)

// Tier is a subscription level in ascending order of access.
type Tier string

const (
	TierFree    Tier = models.TIER_FREE
	TierBasic   Tier = models.TIER_BASIC
	TierPremium Tier = models.TIER_PREMIUM
	TierVIP     Tier = models.TIER_VIP
)

var tierRank = map[Tier]int{
	TierFree:    0,
	TierBasic:   1,
	TierPremium: 2,
	TierVIP:     3,
}

// Normalize maps an arbitrary string onto a known tier, defaulting to free.
func Normalize(s string) Tier {
	t := Tier(s)
	if _, ok := tierRank[t]; ok {
		return t
	}
	return TierFree
}

// Rank returns the ordering position of a tier. Unknown tiers rank as free.
func Rank(t Tier) int {
	if r, ok := tierRank[t]; ok {
		return r
	}
	return 0
}

// AtLeast reports whether tier t grants everything required does.
func AtLeast(t, required Tier) bool {
	return Rank(t) >= Rank(required)
}

// IsValidAt reports whether a subscription row entitles any access at the
// given time. A nil row behaves like an implicit free subscription, which is
// what a user has before their first row is provisioned.
func IsValidAt(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return true
	}
	return sub.IsValidAt(now)
}

// RequiredTier returns the minimum tier a channel demands.
func RequiredTier(ch *models.Channel) Tier {
	if ch.IsPremium {
		return TierBasic
	}
	return TierFree
}

// Allows decides whether the subscription unlocks the channel at the given
// time. Non-premium channels are open to every viewer, whatever the state of
// their subscription row; premium channels need a currently valid paid row.
func Allows(sub *models.Subscription, ch *models.Channel, now time.Time) bool {
	if !ch.IsPremium {
		return true
	}
	if sub == nil || !IsValidAt(sub, now) {
		return false
	}
	return AtLeast(Normalize(sub.Tier), RequiredTier(ch))
}
