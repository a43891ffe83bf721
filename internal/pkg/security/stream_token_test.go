package security

import (
	"testing"
	"time"
)

func fixedIssuer(secret string, at time.Time) *StreamTokenIssuer {
	i := NewStreamTokenIssuer([]byte(secret))
	i.now = func() time.Time { return at }
	return i
}

func TestStreamTokenRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0)
	issuer := fixedIssuer("test-secret", now)

	token, expiresAt := issuer.Issue(42, 100001, 6*time.Hour)
	if token == "" {
		t.Fatal("empty token")
	}
	if expiresAt != now.Add(6*time.Hour).Unix() {
		t.Fatalf("expiresAt = %d, want %d", expiresAt, now.Add(6*time.Hour).Unix())
	}
	if !issuer.Verify(42, 100001, expiresAt, token) {
		t.Fatal("freshly issued token must verify")
	}
	// verification is repeatable, not one-shot
	if !issuer.Verify(42, 100001, expiresAt, token) {
		t.Fatal("second verification must also pass")
	}
}

func TestStreamTokenTamperedFields(t *testing.T) {
	now := time.Unix(1700000000, 0)
	issuer := fixedIssuer("test-secret", now)
	token, expiresAt := issuer.Issue(42, 100001, time.Hour)

	if issuer.Verify(43, 100001, expiresAt, token) {
		t.Fatal("token must not verify for a different channel")
	}
	if issuer.Verify(42, 100002, expiresAt, token) {
		t.Fatal("token must not verify for a different user")
	}
	if issuer.Verify(42, 100001, expiresAt+60, token) {
		t.Fatal("token must not verify with a shifted expiry")
	}
	if issuer.Verify(42, 100001, expiresAt, token[:len(token)-2]+"ff") {
		t.Fatal("token must not verify with a corrupted digest")
	}
}

func TestStreamTokenExpiry(t *testing.T) {
	start := time.Unix(1700000000, 0)
	issuer := fixedIssuer("test-secret", start)
	token, expiresAt := issuer.Issue(7, 9, time.Minute)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	if issuer.Verify(7, 9, expiresAt, token) {
		t.Fatal("expired token must not verify")
	}
	// the deadline second is inclusive; one past it is not
	issuer.now = func() time.Time { return time.Unix(expiresAt, 0) }
	if !issuer.Verify(7, 9, expiresAt, token) {
		t.Fatal("token must still verify at its exact deadline")
	}
	issuer.now = func() time.Time { return time.Unix(expiresAt+1, 0) }
	if issuer.Verify(7, 9, expiresAt, token) {
		t.Fatal("token must not verify past its deadline")
	}
}

func TestStreamTokenSecretIsolation(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := fixedIssuer("secret-a", now)
	b := fixedIssuer("secret-b", now)

	token, expiresAt := a.Issue(1, 2, time.Hour)
	if b.Verify(1, 2, expiresAt, token) {
		t.Fatal("token signed under another secret must not verify")
	}
}
