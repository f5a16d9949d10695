package constant

const (
	DefaultTokenType = "Bearer"
	AuthCookieName   = "authToken"

	// Fixed user-facing messages. Several of these are deliberately shared
	// between distinct internal outcomes so responses do not reveal whether
	// an account exists.
	MsgRegistered        = "Account created successfully. Please check your email to verify your account."
	MsgLoginSuccess      = "Login successful"
	MsgLogoutSuccess     = "Logout successful"
	MsgInvalidCreds      = "Invalid email or password"
	MsgEmailNotVerified  = "Please verify your email address before logging in"
	MsgTwoFactorRequired = "Two-factor authentication code required"
	MsgEmailVerified     = "Email address verified successfully"
	MsgInvalidVerifyTok  = "Invalid or expired verification token"
	MsgResetInitiated    = "If an account with this email exists, you will receive a password reset link."
	MsgResetDone         = "Password reset successfully"
	MsgInvalidResetTok   = "Invalid or expired reset token"
	MsgRateLimited       = "Too many authentication attempts. Please try again later."
	MsgServiceError      = "Something went wrong. Please try again."
)
