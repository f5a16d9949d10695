package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler, rateLimit fiber.Handler) {
	auth := app.Group("/api/auth")

	auth.Post("/register", rateLimit, h.Register)
	auth.Post("/login", rateLimit, h.Login)
	auth.Get("/verify-email", h.VerifyEmail)
	auth.Post("/forgot-password", rateLimit, h.ForgotPassword)
	auth.Post("/reset-password", rateLimit, h.ResetPassword)

	auth.Post("/logout", h.RequireAuth, h.Logout)
	auth.Get("/me", h.RequireAuth, h.Me)
	auth.Post("/setup-2fa", h.RequireAuth, h.SetupTwoFactor)
	auth.Post("/enable-2fa", h.RequireAuth, h.EnableTwoFactor)
	auth.Post("/disable-2fa", h.RequireAuth, h.DisableTwoFactor)
}
