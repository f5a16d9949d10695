package mail

import "fmt"

func VerificationEmail(frontendURL, to, token, firstName string) Email {
	link := fmt.Sprintf("%s/verify-email?token=%s", frontendURL, token)
	return Email{
		To:      to,
		Subject: "Verify Your Skycast Account",
		HTMLBody: fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Thanks for signing up. Please confirm your email address to activate your account.</p>
<p><a href="%s">Verify Email Address</a></p>
<p>If you did not create an account, you can safely ignore this email.</p>`, firstName, link),
	}
}

func PasswordResetEmail(frontendURL, to, token, firstName string) Email {
	link := fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)
	return Email{
		To:      to,
		Subject: "Reset Your Skycast Password",
		HTMLBody: fmt.Sprintf(`<h2>Hi %s,</h2>
<p>We received a request to reset your password. The link below is valid for one hour.</p>
<p><a href="%s">Reset Password</a></p>
<p>If you did not request a reset, no action is needed.</p>`, firstName, link),
	}
}

func TwoFactorEnabledEmail(to, firstName string) Email {
	return Email{
		To:      to,
		Subject: "Two-Factor Authentication Enabled",
		HTMLBody: fmt.Sprintf(`<h2>Hi %s,</h2>
<p>Two-factor authentication was just enabled on your account.</p>
<p>If this wasn't you, reset your password immediately.</p>`, firstName),
	}
}
