package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/skycast/auth-service/config"
	"github.com/skycast/auth-service/internal/auth/dto"
	"github.com/skycast/auth-service/internal/auth/service"
	autherror "github.com/skycast/auth-service/internal/errors"
	"github.com/skycast/auth-service/pkg/constant"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
	cfg          *config.Config
	logger       *slog.Logger
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator,
	cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		cfg:          cfg,
		logger:       logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if errs := input.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if _, err := h.userService.Register(c.UserContext(), input); err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return badRequest(c, "An account with this email already exists")
		}
		return h.serverError(c, "registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgRegistered,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if errs := input.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.UserContext(), input)
	if err != nil {
		return h.loginError(c, err)
	}

	expiresAt := time.Unix(result.ExpiresAt, 0)
	c.Cookie(&fiber.Cookie{
		Name:     constant.AuthCookieName,
		Value:    result.Token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgLoginSuccess,
		"user":    result.User,
		"token":   result.Token,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, "Access token required")
	}

	if err := h.userService.Logout(c.UserContext(), claims.ID); err != nil {
		return h.serverError(c, "logout failed", err)
	}

	// Expire the cookie client-side; the token itself lapses on its own.
	c.Cookie(&fiber.Cookie{
		Name:     constant.AuthCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgLogoutSuccess,
	})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return badRequest(c, "Verification token is required")
	}

	if err := h.userService.VerifyEmail(c.UserContext(), token); err != nil {
		if errors.Is(err, autherror.ErrInvalidToken) {
			return badRequest(c, constant.MsgInvalidVerifyTok)
		}
		return h.serverError(c, "email verification failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgEmailVerified,
	})
}

// ForgotPassword always answers with the same success shape so responses do
// not reveal whether an account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if errs := input.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if err := h.userService.ForgotPassword(c.UserContext(), input.Email); err != nil {
		return h.serverError(c, "password reset initiation failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgResetInitiated,
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}

	if errs := input.Validate(); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	if err := h.userService.ResetPassword(c.UserContext(), input.Token, input.Password); err != nil {
		if errors.Is(err, autherror.ErrInvalidOrExpiredToken) {
			return badRequest(c, constant.MsgInvalidResetTok)
		}
		return h.serverError(c, "password reset failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": constant.MsgResetDone,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, "Access token required")
	}

	user, err := h.userService.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "User not found",
			})
		}
		return h.serverError(c, "failed to load user", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) SetupTwoFactor(c *fiber.Ctx) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, "Access token required")
	}

	setup, err := h.userService.SetupTwoFactor(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, autherror.ErrUserNotFound) {
			return badRequest(c, "User not found")
		}
		return h.serverError(c, "2fa setup failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"secret":  setup.Secret,
		"qrCode":  setup.QRCode,
		"message": "Two-factor authentication setup initiated",
	})
}

func (h *AuthHandler) EnableTwoFactor(c *fiber.Ctx) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, "Access token required")
	}

	var input dto.EnableTwoFactorInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.VerificationCode == "" {
		return badRequest(c, "Verification code is required")
	}

	if err := h.userService.EnableTwoFactor(c.UserContext(), claims.UserID, input.VerificationCode); err != nil {
		switch {
		case errors.Is(err, autherror.ErrTwoFactorNotSetUp):
			return badRequest(c, "Two-factor setup not found")
		case errors.Is(err, autherror.ErrInvalidTwoFactorCode):
			return badRequest(c, "Invalid verification code")
		}
		return h.serverError(c, "2fa enable failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Two-factor authentication enabled successfully",
	})
}

func (h *AuthHandler) DisableTwoFactor(c *fiber.Ctx) error {
	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c, "Access token required")
	}

	var input dto.DisableTwoFactorInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "invalid input")
	}
	if input.Password == "" {
		return badRequest(c, "Password is required")
	}

	if err := h.userService.DisableTwoFactor(c.UserContext(), claims.UserID, input.Password); err != nil {
		switch {
		case errors.Is(err, autherror.ErrInvalidCredentials):
			return badRequest(c, "Invalid password")
		case errors.Is(err, autherror.ErrUserNotFound):
			return badRequest(c, "User not found")
		}
		return h.serverError(c, "2fa disable failed", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Two-factor authentication disabled successfully",
	})
}

// loginError maps the login outcome taxonomy onto the wire contract. Unknown
// errors fall through to the generic 500 path without leaking detail.
func (h *AuthHandler) loginError(c *fiber.Ctx, err error) error {
	if locked, ok := autherror.IsAccountLocked(err); ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":     false,
			"message":     fmt.Sprintf("Account is locked due to too many failed attempts. Try again after %s", locked.Until.Format(time.RFC1123)),
			"lockedUntil": locked.Until,
		})
	}

	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return unauthorized(c, constant.MsgInvalidCreds)
	case errors.Is(err, autherror.ErrEmailNotVerified):
		return unauthorized(c, constant.MsgEmailNotVerified)
	case errors.Is(err, autherror.ErrTwoFactorRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success":           false,
			"message":           constant.MsgTwoFactorRequired,
			"requiresTwoFactor": true,
		})
	case errors.Is(err, autherror.ErrInvalidTwoFactorCode):
		return unauthorized(c, "Invalid two-factor authentication code")
	}

	return h.serverError(c, "login failed", err)
}

// serverError logs the real error and returns the generic body; internals
// never reach the client.
func (h *AuthHandler) serverError(c *fiber.Ctx, op string, err error) error {
	h.logger.Error(op, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": constant.MsgServiceError,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func validationFailed(c *fiber.Ctx, errs []dto.FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  errs,
	})
}
