package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmailAlreadyInUse     = errors.New("email already in use")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrTwoFactorRequired     = errors.New("two-factor code required")
	ErrInvalidTwoFactorCode  = errors.New("invalid two-factor code")
	ErrTwoFactorNotSetUp     = errors.New("two-factor setup not found")
	ErrInvalidToken          = errors.New("invalid or expired verification token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrRateLimited           = errors.New("too many requests")
	ErrUserNotFound          = errors.New("user not found")
)

// AccountLockedError is returned while an account is under lockout. Until is
// surfaced to the client so it can report when retrying becomes useful.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}

// IsAccountLocked reports whether err is an AccountLockedError and returns it.
func IsAccountLocked(err error) (*AccountLockedError, bool) {
	var locked *AccountLockedError
	if errors.As(err, &locked) {
		return locked, true
	}
	return nil, false
}
