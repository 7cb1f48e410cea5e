package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired is returned when a token's expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens or bad signatures.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the registered claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenManager issues and verifies access and refresh tokens. The refresh
// secret is optional; when absent only access tokens are issued.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager creates a token manager. accessSecret must be non-empty;
// refreshSecret may be empty to disable refresh token issuance.
func NewTokenManager(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Configured reports whether an access token signing secret is present.
func (m *TokenManager) Configured() bool {
	return len(m.accessSecret) > 0
}

// RefreshEnabled reports whether a refresh rotation secret is configured.
func (m *TokenManager) RefreshEnabled() bool {
	return len(m.refreshSecret) > 0
}

// GenerateAccessToken issues a short-lived access token for the user.
func (m *TokenManager) GenerateAccessToken(userID, email string) (string, error) {
	return generate(userID, email, m.accessSecret, m.accessTTL)
}

// GenerateRefreshToken issues a longer-lived refresh token signed with the
// rotation secret.
func (m *TokenManager) GenerateRefreshToken(userID, email string) (string, error) {
	return generate(userID, email, m.refreshSecret, m.refreshTTL)
}

// VerifyAccessToken validates an access token and returns its claims.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verify(tokenString, m.accessSecret)
}

// VerifyRefreshToken validates a refresh token against the rotation secret.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verify(tokenString, m.refreshSecret)
}

func generate(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	return token.SignedString(secret)
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
