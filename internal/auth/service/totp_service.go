package service

//go:generate mockgen -destination=../../mocks/mock_totp_verifier.go -package=mocks github.com/skycast/auth-service/internal/auth/service TOTPVerifier

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// totpSkew is the number of 30-second steps accepted on either side of the
// current one, absorbing client clock drift.
const totpSkew = 2

type TOTPVerifier interface {
	GenerateSecret(accountName string) (secret, enrollmentURL string, err error)
	QRCodeDataURL(enrollmentURL string) (string, error)
	Verify(code, secret string) bool
}

type TOTPService struct {
	Issuer string
}

func NewTOTPService(issuer string) *TOTPService {
	return &TOTPService{Issuer: issuer}
}

// GenerateSecret creates a fresh shared secret and its otpauth provisioning
// URL for the given account.
func (s *TOTPService) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate totp secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// QRCodeDataURL renders the provisioning URL as a scannable PNG, returned as
// a base64 data URL suitable for direct embedding in an <img> tag.
func (s *TOTPService) QRCodeDataURL(enrollmentURL string) (string, error) {
	key, err := otp.NewKeyFromURL(enrollmentURL)
	if err != nil {
		return "", fmt.Errorf("invalid enrollment URL: %w", err)
	}

	img, err := key.Image(256, 256)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Verify checks a 6-digit code against the secret within the tolerance
// window. Malformed codes simply fail validation.
func (s *TOTPService) Verify(code, secret string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && valid
}
