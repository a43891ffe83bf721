package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// StreamTokenIssuer mints and checks short-lived playback tokens. A token is
// the hex HMAC-SHA256 of "channelID|userID|expiresAt" under the issuer's
// secret, so it is bound to exactly one channel, one viewer and one deadline.
type StreamTokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewStreamTokenIssuer builds an issuer around the given signing secret.
func NewStreamTokenIssuer(secret []byte) *StreamTokenIssuer {
	return &StreamTokenIssuer{secret: secret, now: time.Now}
}

func (i *StreamTokenIssuer) digest(channelID, userID uint, expiresAt int64) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(mac, "%d|%d|%d", channelID, userID, expiresAt)
	return hex.EncodeToString(mac.Sum(nil))
}

// Issue returns a token for the channel/viewer pair and its unix expiry.
func (i *StreamTokenIssuer) Issue(channelID, userID uint, ttl time.Duration) (string, int64) {
	expiresAt := i.now().Add(ttl).Unix()
	return i.digest(channelID, userID, expiresAt), expiresAt
}

// Verify checks a presented token against the claimed channel, viewer and
// expiry. The comparison is constant-time and a passed deadline fails
// regardless of the digest. The deadline second itself still verifies.
func (i *StreamTokenIssuer) Verify(channelID, userID uint, expiresAt int64, presented string) bool {
	if expiresAt < i.now().Unix() {
		return false
	}
	expected := i.digest(channelID, userID, expiresAt)
	return hmac.Equal([]byte(expected), []byte(presented))
}
