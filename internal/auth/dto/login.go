package dto

type LoginInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	RememberMe    bool   `json:"rememberMe"`
	TwoFactorCode string `json:"twoFactorCode"`
	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
}

type LoginResult struct {
	User      *UserOutput
	Token     string
	ExpiresAt int64
}
