// Package accessgate decides who may watch what. It resolves the viewer's
// entitlement, applies the channel policy and mints playback tokens; playback
// URLs never leave this package without a verified token.
package accessgate

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/internal/pkg/entitlements"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"gorm.io/gorm"
)

var (
	// ErrChannelNotFound covers absent, disabled and offline channels alike
	// so callers cannot probe catalog state they are not entitled to see.
	ErrChannelNotFound = errors.New("channel not accessible")
	// ErrTierRequired means the channel exists but the viewer's subscription
	// does not unlock it.
	ErrTierRequired = errors.New("subscription upgrade required")
	// ErrInvalidToken means a presented playback token failed verification.
	ErrInvalidToken = errors.New("invalid or expired stream token")
	// ErrUpstream means entitlement state could not be resolved; access is
	// denied rather than guessed.
	ErrUpstream = errors.New("entitlement lookup unavailable")
)

// DefaultTokenTTL is how long a minted playback token stays valid.
const DefaultTokenTTL = 6 * time.Hour

// ChannelStore loads servable catalog entries.
type ChannelStore interface {
	GetActiveByID(id uint) (*models.Channel, error)
}

// SubscriptionStore resolves a viewer's current entitlement row.
type SubscriptionStore interface {
	GetCurrentByUser(userID uint) (*models.Subscription, error)
}

// WatchRecorder persists watch history rows.
type WatchRecorder interface {
	Create(entry *models.WatchHistory) error
}

// ViewerCounter tracks concurrent viewer counts per channel.
type ViewerCounter interface {
	Add(channelID uint, delta int64) error
}

// ClientMeta carries request metadata into the watch history.
type ClientMeta struct {
	IPAddress string
	UserAgent string
	SessionID string
}

// Grant is a successful stream authorization. StreamURL points at the
// token-verification endpoint, not the playable source.
type Grant struct {
	Channel   models.ChannelSummary `json:"channel"`
	Token     string                `json:"token"`
	ExpiresAt int64                 `json:"expires_at"`
	StreamURL string                `json:"stream_url"`
}

// Gate orchestrates stream access decisions.
type Gate struct {
	channels  ChannelStore
	subs      SubscriptionStore
	history   WatchRecorder
	viewers   ViewerCounter
	issuer    *security.StreamTokenIssuer
	tokenTTL  time.Duration
	proxyBase string
	now       func() time.Time
}

// New builds a gate. history and viewers may be nil, in which case the
// corresponding side effects are skipped.
func New(channels ChannelStore, subs SubscriptionStore, history WatchRecorder, viewers ViewerCounter, issuer *security.StreamTokenIssuer, proxyBase string) *Gate {
	return &Gate{
		channels:  channels,
		subs:      subs,
		history:   history,
		viewers:   viewers,
		issuer:    issuer,
		tokenTTL:  DefaultTokenTTL,
		proxyBase: proxyBase,
		now:       time.Now,
	}
}

// currentSubscription resolves the viewer's entitlement row. No row at all
// behaves like an implicit free subscription; a failed lookup denies access.
func (g *Gate) currentSubscription(userID uint) (*models.Subscription, error) {
	sub, err := g.subs.GetCurrentByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, ErrUpstream
	}
	return sub, nil
}

// loadServable fetches a channel that may currently be streamed. Offline and
// maintenance channels are reported exactly like absent ones.
func (g *Gate) loadServable(channelID uint) (*models.Channel, error) {
	ch, err := g.channels.GetActiveByID(channelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, ErrUpstream
	}
	if !ch.IsServable() {
		return nil, ErrChannelNotFound
	}
	return ch, nil
}

// RequestStream authorizes a viewer for a channel and mints a playback
// token. Viewer-count and watch-history updates are best effort: their
// failure is logged, never surfaced.
func (g *Gate) RequestStream(userID, channelID uint, meta ClientMeta) (*Grant, error) {
	ch, err := g.loadServable(channelID)
	if err != nil {
		return nil, err
	}
	sub, err := g.currentSubscription(userID)
	if err != nil {
		return nil, err
	}
	if !entitlements.Allows(sub, ch, g.now()) {
		return nil, ErrTierRequired
	}

	token, expiresAt := g.issuer.Issue(ch.ID, userID, g.tokenTTL)
	grant := &Grant{
		Channel:   ch.Summary(),
		Token:     token,
		ExpiresAt: expiresAt,
		StreamURL: fmt.Sprintf("%s/%d/verify-token?uid=%d&token=%s&expires=%d", g.proxyBase, ch.ID, userID, token, expiresAt),
	}

	if g.viewers != nil {
		if err := g.viewers.Add(ch.ID, 1); err != nil {
			log.Printf("[AccessGate] viewer count for channel %d not incremented: %v", ch.ID, err)
		}
	}
	if g.history != nil {
		entry := &models.WatchHistory{
			UserID:     userID,
			ChannelID:  ch.ID,
			WatchedAt:  g.now(),
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			DeviceType: models.DetectDeviceType(meta.UserAgent),
			SessionID:  meta.SessionID,
		}
		if err := g.history.Create(entry); err != nil {
			log.Printf("[AccessGate] watch history for user %d not recorded: %v", userID, err)
		}
	}
	return grant, nil
}

// VerifyStream checks a presented playback token and, when it holds, returns
// the channel's real stream URL. The entitlement is re-resolved so a lapsed
// subscription cuts off playback even inside the token's lifetime.
func (g *Gate) VerifyStream(userID, channelID uint, expiresAt int64, token string) (string, error) {
	if !g.issuer.Verify(channelID, userID, expiresAt, token) {
		return "", ErrInvalidToken
	}
	ch, err := g.loadServable(channelID)
	if err != nil {
		return "", err
	}
	sub, err := g.currentSubscription(userID)
	if err != nil {
		return "", err
	}
	if !entitlements.Allows(sub, ch, g.now()) {
		return "", ErrTierRequired
	}
	return ch.StreamURL, nil
}
