package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/skycast/auth-service/internal/auth/domain UserRepository

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error

	RecordLoginAttempt(ctx context.Context, attempt *LoginAttempt) error
	MarkLoginAttemptSuccessful(ctx context.Context, attemptID string) error

	// IncrementFailedAttempts bumps the failed-attempt counter and, when the
	// new count reaches threshold, sets locked_until to lockUntil — in one
	// atomic statement. Returns the post-increment count.
	IncrementFailedAttempts(ctx context.Context, userID string, threshold int, lockUntil time.Time) (int, error)
	ResetFailedAttempts(ctx context.Context, userID string) error
	UpdateLastLogin(ctx context.Context, userID string) error

	// ConsumeVerificationToken marks the matching unverified account verified
	// and clears the token. Returns false when no unverified account carries
	// the token.
	ConsumeVerificationToken(ctx context.Context, token string) (bool, error)

	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	// ConsumeResetToken stores the new password hash and clears the reset
	// token plus any lockout state, provided the token matches and has not
	// expired. Returns false otherwise.
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error)

	SetTwoFactorSecret(ctx context.Context, userID, secret string) error
	// EnableTwoFactor flips the enabled flag for an account that has a stored
	// secret. Returns false when no secret is staged.
	EnableTwoFactor(ctx context.Context, userID string) (bool, error)
	DisableTwoFactor(ctx context.Context, userID string) error

	StoreSession(ctx context.Context, session *Session) error
	RevokeSession(ctx context.Context, sessionID string) error
}
