package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/skycast/auth-service/internal/auth/domain"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, is_verified,
		verification_token, reset_token, reset_token_expires,
		two_factor_secret, two_factor_enabled, failed_login_attempts,
		locked_until, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.IsVerified, &user.VerificationToken, &user.ResetToken, &user.ResetTokenExpires,
		&user.TwoFactorSecret, &user.TwoFactorEnabled, &user.FailedLoginAttempts,
		&user.LockedUntil, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1;`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 LIMIT 1;`, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, first_name, last_name,
            verification_token, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.VerificationToken, user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, email, ip_address, user_agent, successful, attempt_time)
		VALUES ($1, $2, $3, $4, $5, now())
	`, attempt.ID, attempt.Email, attempt.IPAddress, attempt.UserAgent, attempt.Successful)
	return err
}

func (r *PostgresRepository) MarkLoginAttemptSuccessful(ctx context.Context, attemptID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE login_attempts SET successful = TRUE WHERE id = $1
	`, attemptID)
	return err
}

// IncrementFailedAttempts applies the failure count and the lockout decision
// in a single statement so concurrent failures cannot under-count or race the
// lock timestamp.
func (r *PostgresRepository) IncrementFailedAttempts(ctx context.Context, userID string, threshold int, lockUntil time.Time) (int, error) {
	var attempts int
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			locked_until = CASE WHEN failed_login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
			updated_at = now()
		WHERE id = $1
		RETURNING failed_login_attempts
	`, userID, threshold, lockUntil).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("failed to increment failed attempts: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) ResetFailedAttempts(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE id = $1
	`, userID)
	return err
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = now(), updated_at = now() WHERE id = $1
	`, userID)
	return err
}

func (r *PostgresRepository) ConsumeVerificationToken(ctx context.Context, token string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, updated_at = now()
		WHERE verification_token = $1 AND is_verified = FALSE
	`, token)
	if err != nil {
		return false, fmt.Errorf("failed to consume verification token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_token = $2, reset_token_expires = $3, updated_at = now()
		WHERE id = $1
	`, userID, token, expiresAt)
	return err
}

func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_token_expires = NULL,
			failed_login_attempts = 0, locked_until = NULL, updated_at = now()
		WHERE reset_token = $1 AND reset_token_expires > now()
	`, token, passwordHash)
	if err != nil {
		return false, fmt.Errorf("failed to consume reset token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) SetTwoFactorSecret(ctx context.Context, userID, secret string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET two_factor_secret = $2, updated_at = now() WHERE id = $1
	`, userID, secret)
	return err
}

func (r *PostgresRepository) EnableTwoFactor(ctx context.Context, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET two_factor_enabled = TRUE, updated_at = now()
		WHERE id = $1 AND two_factor_secret IS NOT NULL
	`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to enable two-factor: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) DisableTwoFactor(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET two_factor_enabled = FALSE, two_factor_secret = NULL, updated_at = now()
		WHERE id = $1
	`, userID)
	return err
}

func (r *PostgresRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, ip_address, user_agent, expires_at, created_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, session.ID, session.UserID, session.IPAddress, session.UserAgent,
		session.ExpiresAt, session.CreatedAt, session.Revoked)
	return err
}

func (r *PostgresRepository) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE sessions SET revoked = TRUE WHERE id = $1
	`, sessionID)
	return err
}
