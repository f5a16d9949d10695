package dto

type TwoFactorSetupOutput struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}

type EnableTwoFactorInput struct {
	VerificationCode string `json:"verificationCode"`
}

type DisableTwoFactorInput struct {
	Password string `json:"password"`
}
