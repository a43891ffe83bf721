package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthTokenTTL is how long a login token stays valid.
const AuthTokenTTL = 7 * 24 * time.Hour

var ErrInvalidAuthToken = errors.New("invalid auth token")

// AuthClaims carries the authenticated user through a bearer token.
type AuthClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAuthToken signs a bearer token for the given user.
func IssueAuthToken(secret []byte, userID uint, role string) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAuthToken validates a bearer token and returns its claims.
func ParseAuthToken(secret []byte, tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAuthToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAuthToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidAuthToken
	}
	return claims, nil
}
