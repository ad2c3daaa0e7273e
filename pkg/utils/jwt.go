package utils

import (
	"errors"
	"time"

	"radhe_backend/pkg/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the custom JWT claims carried in the session cookie
type TokenClaims struct {
	Name     string      `json:"name"`
	UserID   uint        `json:"user_id"`
	UserType models.Role `json:"user_type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with a shared HMAC secret
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager; ttl <= 0 falls back to 7 days
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns how long issued tokens stay valid
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate issues a signed token for a user
func (m *TokenManager) Generate(user *models.User) (string, error) {
	now := m.now()
	claims := TokenClaims{
		Name:     user.FirstName,
		UserID:   user.ID,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify verifies and parses a token
func (m *TokenManager) Verify(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
