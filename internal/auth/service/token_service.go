package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/skycast/auth-service/internal/auth/service TokenGenerator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenGenerator interface {
	Generate(userID, email string, remember bool) (token string, sessionID string, expiresAt time.Time, err error)
	Verify(tokenString string) (*JWTCustomClaims, error)
	SessionLifetime(remember bool) time.Duration
}

type TokenService struct {
	Secret           string
	SessionExpiry    time.Duration
	RememberMeExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func NewTokenService(secret string, sessionExpiry, rememberMeExpiry time.Duration) *TokenService {
	return &TokenService{
		Secret:           secret,
		SessionExpiry:    sessionExpiry,
		RememberMeExpiry: rememberMeExpiry,
	}
}

// Generate issues a signed session token. The token carries a unique ID so
// the issued session can be audited and, through the revocation hook,
// invalidated.
func (ts *TokenService) Generate(userID, email string, remember bool) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.SessionLifetime(remember))
	sessionID := uuid.NewString()

	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
	if err != nil {
		return "", "", time.Time{}, err
	}

	return token, sessionID, expiresAt, nil
}

func (ts *TokenService) SessionLifetime(remember bool) time.Duration {
	if remember {
		return ts.RememberMeExpiry
	}
	return ts.SessionExpiry
}

// Verify parses and validates the given session token string.
func (ts *TokenService) Verify(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
