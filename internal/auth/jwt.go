package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is how long issued tokens remain valid.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Claims carries the registered JWT claims plus the authenticated user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenManager signs and verifies HS256 session tokens. Signing is a pure
// computation over the token bytes and the secret, so a single TokenManager
// is safe for concurrent use.
type TokenManager struct {
	secret   []byte
	validity time.Duration
}

// NewTokenManager creates a TokenManager with the given HMAC secret and
// token lifetime. A zero validity falls back to DefaultTokenValidity.
func NewTokenManager(secret []byte, validity time.Duration) *TokenManager {
	if validity == 0 {
		validity = DefaultTokenValidity
	}
	return &TokenManager{secret: secret, validity: validity}
}

// IssueToken produces a signed token embedding userID with an absolute
// expiry of now + validity.
func (m *TokenManager) IssueToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(m.secret)
}

// VerifyToken checks the signature and expiry and returns the embedded user
// id. Any failure, including expiry, maps to ErrInvalidToken. There is no
// revocation state; a verified token is valid until it expires.
func (m *TokenManager) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
