package security

import (
	"testing"

	"github.com/monowartv/iptv-backend/app/models"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	secret := []byte("jwt-test-secret")
	token, err := IssueAuthToken(secret, 5, models.ROLE_ADMIN)
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}
	claims, err := ParseAuthToken(secret, token)
	if err != nil {
		t.Fatalf("ParseAuthToken: %v", err)
	}
	if claims.UserID != 5 {
		t.Fatalf("UserID = %d, want 5", claims.UserID)
	}
	if claims.Role != models.ROLE_ADMIN {
		t.Fatalf("Role = %q, want %q", claims.Role, models.ROLE_ADMIN)
	}
}

func TestAuthTokenWrongSecret(t *testing.T) {
	token, err := IssueAuthToken([]byte("secret-a"), 5, models.ROLE_USER)
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}
	if _, err := ParseAuthToken([]byte("secret-b"), token); err == nil {
		t.Fatal("token signed under another secret must not parse")
	}
}

func TestAuthTokenGarbage(t *testing.T) {
	if _, err := ParseAuthToken([]byte("secret"), "not.a.token"); err == nil {
		t.Fatal("garbage must not parse")
	}
	if _, err := ParseAuthToken([]byte("secret"), ""); err == nil {
		t.Fatal("empty string must not parse")
	}
}
