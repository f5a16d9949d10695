package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/skycast/auth-service/internal/auth/domain"
	repo "github.com/skycast/auth-service/internal/auth/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "is_verified",
	"verification_token", "reset_token", "reset_token_expires",
	"two_factor_secret", "two_factor_enabled", "failed_login_attempts",
	"locked_until", "last_login", "created_at", "updated_at",
}

func userRow(id, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userColumns).
		AddRow(id, email, "hash", "Ada", "Lovelace", true,
			nil, nil, nil,
			nil, false, 0,
			nil, nil, now, now)
}

// TestGetByEmail covers the GetByEmail repository method.
func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	userEmail := "test@example.com"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnRows(userRow("user-123", userEmail))

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, userEmail, user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, userEmail)
		require.NoError(t, err) // Should return nil user, nil error
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email").
			WithArgs(userEmail).
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByEmail(ctx, userEmail)
		assert.Error(t, err)
	})
}

// TestCreate covers the Create repository method.
func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	token := "verify-token"
	now := time.Now()
	user := &domain.User{
		ID:                "user-123",
		Email:             "new@example.com",
		PasswordHash:      "new-hash",
		FirstName:         "Ada",
		LastName:          "Lovelace",
		VerificationToken: &token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName,
				user.LastName, user.VerificationToken, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordHash, user.FirstName,
				user.LastName, user.VerificationToken, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("duplicate key"))

		assert.Error(t, r.Create(ctx, user))
	})
}

// TestIncrementFailedAttempts verifies the atomic counter-and-lock update.
func TestIncrementFailedAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()
	lockUntil := time.Now().Add(30 * time.Minute)

	t.Run("below threshold", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users").
			WithArgs("user-123", 5, lockUntil).
			WillReturnRows(pgxmock.NewRows([]string{"failed_login_attempts"}).AddRow(3))

		attempts, err := r.IncrementFailedAttempts(ctx, "user-123", 5, lockUntil)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("reaches threshold", func(t *testing.T) {
		mock.ExpectQuery("UPDATE users").
			WithArgs("user-123", 5, lockUntil).
			WillReturnRows(pgxmock.NewRows([]string{"failed_login_attempts"}).AddRow(5))

		attempts, err := r.IncrementFailedAttempts(ctx, "user-123", 5, lockUntil)
		require.NoError(t, err)
		assert.Equal(t, 5, attempts)
	})
}

// TestConsumeVerificationToken verifies single-use semantics via rows affected.
func TestConsumeVerificationToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("first use succeeds", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("tok-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := r.ConsumeVerificationToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second use matches no row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("tok-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := r.ConsumeVerificationToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// TestConsumeResetToken verifies expiry-guarded consumption.
func TestConsumeResetToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("reset-tok", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := r.ConsumeResetToken(ctx, "reset-tok", "new-hash")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired or unknown token", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("reset-tok", "new-hash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := r.ConsumeResetToken(ctx, "reset-tok", "new-hash")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// TestEnableTwoFactor verifies the secret guard on the enable flip.
func TestEnableTwoFactor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	t.Run("staged secret present", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		ok, err := r.EnableTwoFactor(ctx, "user-123")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("no staged secret", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs("user-123").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		ok, err := r.EnableTwoFactor(ctx, "user-123")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

// TestLoginAttempts covers the audit insert and success upgrade.
func TestLoginAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	attempt := &domain.LoginAttempt{
		ID:        "attempt-1",
		Email:     "test@example.com",
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
	}

	mock.ExpectExec("INSERT INTO login_attempts").
		WithArgs(attempt.ID, attempt.Email, attempt.IPAddress, attempt.UserAgent, attempt.Successful).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.RecordLoginAttempt(ctx, attempt))

	mock.ExpectExec("UPDATE login_attempts").
		WithArgs(attempt.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.MarkLoginAttemptSuccessful(ctx, attempt.ID))
}

// TestSessions covers session audit storage and the revocation hook.
func TestSessions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostgresRepository(mock)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "session-1",
		UserID:    "user-123",
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(session.ID, session.UserID, session.IPAddress, session.UserAgent,
			session.ExpiresAt, session.CreatedAt, session.Revoked).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.StoreSession(ctx, session))

	mock.ExpectExec("UPDATE sessions").
		WithArgs(session.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.RevokeSession(ctx, session.ID))
}
