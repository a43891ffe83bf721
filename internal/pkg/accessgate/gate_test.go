package accessgate

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/monowartv/iptv-backend/app/models"
	"github.com/monowartv/iptv-backend/internal/pkg/security"
	"gorm.io/gorm"
)

type fakeChannelStore struct {
	channels map[uint]*models.Channel
	err      error
}

func (f *fakeChannelStore) GetActiveByID(id uint) (*models.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, ok := f.channels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ch, nil
}

type fakeSubStore struct {
	subs map[uint]*models.Subscription
	err  error
}

func (f *fakeSubStore) GetCurrentByUser(userID uint) (*models.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	sub, ok := f.subs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

type fakeRecorder struct {
	entries []*models.WatchHistory
	err     error
}

func (f *fakeRecorder) Create(entry *models.WatchHistory) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeCounter struct {
	counts map[uint]int64
	err    error
}

func (f *fakeCounter) Add(channelID uint, delta int64) error {
	if f.err != nil {
		return f.err
	}
	if f.counts == nil {
		f.counts = map[uint]int64{}
	}
	f.counts[channelID] += delta
	return nil
}

func activeSub(tier string, end time.Time) *models.Subscription {
	return &models.Subscription{Tier: tier, Status: models.SUB_STATUS_ACTIVE, EndDate: &end}
}

func testGate(channels *fakeChannelStore, subs *fakeSubStore, rec *fakeRecorder, cnt *fakeCounter) *Gate {
	issuer := security.NewStreamTokenIssuer([]byte("gate-test-secret"))
	g := New(channels, subs, rec, cnt, issuer, "/api/v1/channel")
	return g
}

func servableChannel(id uint, premium bool) *models.Channel {
	return &models.Channel{
		ID:        id,
		Name:      "Test Channel",
		StreamURL: "https://cdn.example.com/live/test.m3u8",
		IsPremium: premium,
		IsOnline:  true,
		Status:    models.CHANNEL_STATUS_ACTIVE,
		Quality:   "HD",
	}
}

func TestRequestStreamFreeChannel(t *testing.T) {
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{1: servableChannel(1, false)}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{}}
	rec := &fakeRecorder{}
	cnt := &fakeCounter{}
	g := testGate(channels, subs, rec, cnt)

	grant, err := g.RequestStream(10, 1, ClientMeta{UserAgent: "Mozilla/5.0 (iPhone)"})
	if err != nil {
		t.Fatalf("RequestStream: %v", err)
	}
	if grant.Token == "" || grant.ExpiresAt == 0 {
		t.Fatal("grant missing token or expiry")
	}
	if strings.Contains(grant.StreamURL, "cdn.example.com") {
		t.Fatal("grant must not leak the real stream url")
	}
	if !strings.Contains(grant.StreamURL, "token=") {
		t.Fatalf("stream url missing token param: %s", grant.StreamURL)
	}
	if cnt.counts[1] != 1 {
		t.Fatalf("viewer count = %d, want 1", cnt.counts[1])
	}
	if len(rec.entries) != 1 {
		t.Fatalf("watch history entries = %d, want 1", len(rec.entries))
	}
	if rec.entries[0].DeviceType != models.DEVICE_MOBILE {
		t.Fatalf("device type = %q, want %q", rec.entries[0].DeviceType, models.DEVICE_MOBILE)
	}
}

func TestRequestStreamPremiumDenied(t *testing.T) {
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{2: servableChannel(2, true)}}
	tests := []struct {
		name string
		sub  *models.Subscription
	}{
		{"no subscription row", nil},
		{"free subscription", &models.Subscription{Tier: models.TIER_FREE, Status: models.SUB_STATUS_ACTIVE}},
		{"lapsed premium", activeSub(models.TIER_PREMIUM, time.Now().Add(-time.Hour))},
		{"cancelled vip", &models.Subscription{Tier: models.TIER_VIP, Status: models.SUB_STATUS_CANCELLED}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := &fakeSubStore{subs: map[uint]*models.Subscription{}}
			if tt.sub != nil {
				subs.subs[10] = tt.sub
			}
			g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})
			if _, err := g.RequestStream(10, 2, ClientMeta{}); !errors.Is(err, ErrTierRequired) {
				t.Fatalf("err = %v, want ErrTierRequired", err)
			}
		})
	}
}

func TestRequestStreamFreeChannelIgnoresLapsedRow(t *testing.T) {
	// a paid row can sit past its end date until the expiry sweep flips it;
	// that must never lock the viewer out of non-premium channels
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{1: servableChannel(1, false)}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{
		10: activeSub(models.TIER_PREMIUM, time.Now().Add(-24*time.Hour)),
	}}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})

	if _, err := g.RequestStream(10, 1, ClientMeta{}); err != nil {
		t.Fatalf("lapsed paid row must not deny a free channel: %v", err)
	}
}

func TestRequestStreamPremiumGranted(t *testing.T) {
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{2: servableChannel(2, true)}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{
		10: activeSub(models.TIER_BASIC, time.Now().Add(24*time.Hour)),
	}}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})
	if _, err := g.RequestStream(10, 2, ClientMeta{}); err != nil {
		t.Fatalf("RequestStream: %v", err)
	}
}

func TestRequestStreamChannelHidden(t *testing.T) {
	offline := servableChannel(3, false)
	offline.IsOnline = false
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{3: offline}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{}}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})

	// missing and offline channels fail identically
	if _, err := g.RequestStream(10, 99, ClientMeta{}); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("missing channel err = %v, want ErrChannelNotFound", err)
	}
	if _, err := g.RequestStream(10, 3, ClientMeta{}); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("offline channel err = %v, want ErrChannelNotFound", err)
	}
}

func TestRequestStreamFailsClosed(t *testing.T) {
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{1: servableChannel(1, false)}}
	subs := &fakeSubStore{err: errors.New("connection refused")}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})

	if _, err := g.RequestStream(10, 1, ClientMeta{}); !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestRequestStreamSideEffectsBestEffort(t *testing.T) {
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{1: servableChannel(1, false)}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{}}
	rec := &fakeRecorder{err: errors.New("insert failed")}
	cnt := &fakeCounter{err: errors.New("redis down")}
	g := testGate(channels, subs, rec, cnt)

	if _, err := g.RequestStream(10, 1, ClientMeta{}); err != nil {
		t.Fatalf("side effect failures must not deny access: %v", err)
	}
}

func TestVerifyStream(t *testing.T) {
	ch := servableChannel(5, true)
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{5: ch}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{
		10: activeSub(models.TIER_PREMIUM, time.Now().Add(24*time.Hour)),
	}}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})

	grant, err := g.RequestStream(10, 5, ClientMeta{})
	if err != nil {
		t.Fatalf("RequestStream: %v", err)
	}

	url, err := g.VerifyStream(10, 5, grant.ExpiresAt, grant.Token)
	if err != nil {
		t.Fatalf("VerifyStream: %v", err)
	}
	if url != ch.StreamURL {
		t.Fatalf("url = %q, want %q", url, ch.StreamURL)
	}

	if _, err := g.VerifyStream(10, 5, grant.ExpiresAt, "bogus"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("bogus token err = %v, want ErrInvalidToken", err)
	}
	if _, err := g.VerifyStream(11, 5, grant.ExpiresAt, grant.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("other user err = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyStreamRechecksEntitlement(t *testing.T) {
	ch := servableChannel(5, true)
	channels := &fakeChannelStore{channels: map[uint]*models.Channel{5: ch}}
	subs := &fakeSubStore{subs: map[uint]*models.Subscription{
		10: activeSub(models.TIER_PREMIUM, time.Now().Add(24*time.Hour)),
	}}
	g := testGate(channels, subs, &fakeRecorder{}, &fakeCounter{})

	grant, err := g.RequestStream(10, 5, ClientMeta{})
	if err != nil {
		t.Fatalf("RequestStream: %v", err)
	}

	// subscription lapses while the token is still within its lifetime
	subs.subs[10] = &models.Subscription{Tier: models.TIER_PREMIUM, Status: models.SUB_STATUS_CANCELLED}
	if _, err := g.VerifyStream(10, 5, grant.ExpiresAt, grant.Token); !errors.Is(err, ErrTierRequired) {
		t.Fatalf("lapsed sub err = %v, want ErrTierRequired", err)
	}

	// channel goes offline while the token is still within its lifetime
	subs.subs[10] = activeSub(models.TIER_PREMIUM, time.Now().Add(24*time.Hour))
	ch.IsOnline = false
	if _, err := g.VerifyStream(10, 5, grant.ExpiresAt, grant.Token); !errors.Is(err, ErrChannelNotFound) {
		t.Fatalf("offline channel err = %v, want ErrChannelNotFound", err)
	}
}
