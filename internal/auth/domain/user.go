package domain

import "time"

type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	FirstName           string
	LastName            string
	IsVerified          bool
	VerificationToken   *string
	ResetToken          *string
	ResetTokenExpires   *time.Time
	TwoFactorSecret     *string
	TwoFactorEnabled    bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLogin           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is under an active lockout at now.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

type LoginAttempt struct {
	ID          string
	Email       string
	IPAddress   string
	UserAgent   string
	Successful  bool
	AttemptTime time.Time
}

// Session is the audit record for an issued credential. Tokens are
// self-expiring; the Revoked flag exists as a revocation hook and is not
// consulted on the request path.
type Session struct {
	ID        string
	UserID    string
	IPAddress string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}
