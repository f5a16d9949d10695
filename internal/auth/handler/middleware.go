package handler

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/skycast/auth-service/internal/auth/service"
	"github.com/skycast/auth-service/internal/ratelimit"
	"github.com/skycast/auth-service/pkg/constant"
)

const userLocalsKey = "authClaims"

// CurrentUser returns the verified claims RequireAuth stored for this
// request.
func CurrentUser(c *fiber.Ctx) (*service.JWTCustomClaims, bool) {
	claims, ok := c.Locals(userLocalsKey).(*service.JWTCustomClaims)
	return claims, ok
}

// RequireAuth verifies the bearer or cookie credential and exposes its claims
// through CurrentUser. Requests without a valid token get a 401.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		token = c.Cookies(constant.AuthCookieName)
	}
	if token == "" {
		return unauthorized(c, "Access token required")
	}

	claims, err := h.tokenService.Verify(token)
	if err != nil {
		return unauthorized(c, "Invalid token")
	}

	c.Locals(userLocalsKey, claims)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], constant.DefaultTokenType) {
		return ""
	}
	return parts[1]
}

// RateLimit throttles by (source address, email) with a fixed window,
// independent of per-account lockout. A limiter outage fails open: requests
// still reach the lockout-protected service underneath.
func RateLimit(limiter *ratelimit.Limiter, h *AuthHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.UserContext(), c.IP(), emailFromBody(c.Body()))
		if err != nil {
			h.logger.Warn("rate limiter unavailable", "path", c.Path(), "error", err)
			return c.Next()
		}
		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": constant.MsgRateLimited,
			})
		}
		return c.Next()
	}
}

// emailFromBody peeks at the JSON body for the email field used in the
// composite throttle key. Bodies without one fall back to the address-only
// key.
func emailFromBody(body []byte) string {
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "unknown"
	}
	if probe.Email == "" {
		return "unknown"
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}
