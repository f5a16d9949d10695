package service

//go:generate mockgen -destination=../../mocks/mock_mail_dispatcher.go -package=mocks github.com/skycast/auth-service/internal/auth/service MailDispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skycast/auth-service/config"
	"github.com/skycast/auth-service/internal/auth/domain"
	"github.com/skycast/auth-service/internal/auth/dto"
	autherror "github.com/skycast/auth-service/internal/errors"
	"github.com/skycast/auth-service/internal/mail"
	"golang.org/x/crypto/bcrypt"
)

// MailDispatcher is the slice of the mail dispatcher the service uses: Send
// blocks on delivery, Enqueue is fire-and-forget.
type MailDispatcher interface {
	Send(ctx context.Context, email mail.Email) error
	Enqueue(email mail.Email)
}

type UserService struct {
	repo       domain.UserRepository
	tokens     TokenGenerator
	totp       TOTPVerifier
	dispatcher MailDispatcher
	cfg        *config.Config
	logger     *slog.Logger
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, totp TOTPVerifier,
	dispatcher MailDispatcher, cfg *config.Config, logger *slog.Logger) *UserService {
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		totp:       totp,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger,
	}
}

// Register creates an unverified account and sends the verification email.
// The email must go out for registration to succeed; the account is still
// created either way and can re-request verification later.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	verificationToken := uuid.NewString()

	user := &domain.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      string(hashed),
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          strings.TrimSpace(input.LastName),
		VerificationToken: &verificationToken,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	email2 := mail.VerificationEmail(s.cfg.FrontendURL, user.Email, verificationToken, user.FirstName)
	if err := s.dispatcher.Send(ctx, email2); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	return user, nil
}

// Login executes the ordered authentication protocol. Exactly one outcome is
// returned: a session, ErrInvalidCredentials, AccountLockedError,
// ErrEmailNotVerified, ErrTwoFactorRequired/ErrInvalidTwoFactorCode, or a
// wrapped transient error.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	email := normalizeEmail(input.Email)

	// The attempt row is written before any verification so even requests
	// that fail early leave an audit trace.
	attempt := &domain.LoginAttempt{
		ID:        uuid.NewString(),
		Email:     email,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
	}
	if err := s.repo.RecordLoginAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record login attempt: %w", err)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Indistinguishable from a wrong password.
		return nil, autherror.ErrInvalidCredentials
	}

	now := time.Now()
	if user.Locked(now) {
		return nil, &autherror.AccountLockedError{Until: *user.LockedUntil}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		s.recordFailure(ctx, user.ID)
		return nil, autherror.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, autherror.ErrEmailNotVerified
	}

	if user.TwoFactorEnabled {
		if input.TwoFactorCode == "" {
			return nil, autherror.ErrTwoFactorRequired
		}
		if user.TwoFactorSecret == nil || !s.totp.Verify(input.TwoFactorCode, *user.TwoFactorSecret) {
			// A bad code counts toward lockout exactly like a bad password.
			s.recordFailure(ctx, user.ID)
			return nil, autherror.ErrInvalidTwoFactorCode
		}
	}

	if err := s.repo.ResetFailedAttempts(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to reset failed attempts: %w", err)
	}
	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	if err := s.repo.MarkLoginAttemptSuccessful(ctx, attempt.ID); err != nil {
		s.logger.Warn("failed to mark login attempt successful", "attempt_id", attempt.ID, "error", err)
	}

	token, sessionID, expiresAt, err := s.tokens.Generate(user.ID, user.Email, input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &domain.Session{
		ID:        sessionID,
		UserID:    user.ID,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.repo.StoreSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &dto.LoginResult{
		User:      dto.NewUserOutput(user),
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// Logout revokes the stored session record. Tokens are self-expiring; this is
// the revocation hook.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.repo.RevokeSession(ctx, sessionID)
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return autherror.ErrInvalidToken
	}
	ok, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return autherror.ErrInvalidToken
	}
	return nil
}

// ForgotPassword stages a reset token and mails the link. A missing account
// is not an error; callers always answer with the same generic message.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(s.cfg.ResetTokenLifetime)
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	resetMail := mail.PasswordResetEmail(s.cfg.FrontendURL, user.Email, token, user.FirstName)
	if err := s.dispatcher.Send(ctx, resetMail); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// ResetPassword consumes the reset token and installs the new password. A
// consumed token also clears lockout state: a verified reset is proof of
// ownership.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ok, err := s.repo.ConsumeResetToken(ctx, token, string(hashed))
	if err != nil {
		return err
	}
	if !ok {
		return autherror.ErrInvalidOrExpiredToken
	}
	return nil
}

// SetupTwoFactor stages a new shared secret for the account. The secret stays
// disabled until EnableTwoFactor confirms the client can produce codes.
func (s *UserService) SetupTwoFactor(ctx context.Context, userID string) (*dto.TwoFactorSetupOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	secret, enrollmentURL, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return nil, err
	}

	qrCode, err := s.totp.QRCodeDataURL(enrollmentURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetTwoFactorSecret(ctx, user.ID, secret); err != nil {
		return nil, err
	}

	return &dto.TwoFactorSetupOutput{Secret: secret, QRCode: qrCode}, nil
}

func (s *UserService) EnableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil || user.TwoFactorSecret == nil {
		return autherror.ErrTwoFactorNotSetUp
	}

	if !s.totp.Verify(code, *user.TwoFactorSecret) {
		return autherror.ErrInvalidTwoFactorCode
	}

	ok, err := s.repo.EnableTwoFactor(ctx, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return autherror.ErrTwoFactorNotSetUp
	}

	// Notification only; delivery failure must not undo the enable.
	s.dispatcher.Enqueue(mail.TwoFactorEnabledEmail(user.Email, user.FirstName))

	return nil
}

// DisableTwoFactor requires the account password, not a TOTP code, as the
// high-friction confirmation.
func (s *UserService) DisableTwoFactor(ctx context.Context, userID, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return autherror.ErrInvalidCredentials
	}

	return s.repo.DisableTwoFactor(ctx, user.ID)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	return dto.NewUserOutput(user), nil
}

// recordFailure bumps the failed-attempt counter; the repository applies the
// lockout decision atomically with the increment. An accounting write failure
// never turns an invalid-credential response into a different outcome.
func (s *UserService) recordFailure(ctx context.Context, userID string) {
	lockUntil := time.Now().Add(s.cfg.LockoutDuration)
	attempts, err := s.repo.IncrementFailedAttempts(ctx, userID, s.cfg.MaxFailedAttempts, lockUntil)
	if err != nil {
		s.logger.Warn("failed to record authentication failure", "user_id", userID, "error", err)
		return
	}
	if attempts >= s.cfg.MaxFailedAttempts {
		s.logger.Info("account locked after repeated failures", "user_id", userID, "attempts", attempts)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
