package services

import (
	"encoding/base32"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPService wraps secret generation, provisioning-URI issuance and code
// validation. Codes are accepted within one 30-second step of skew either
// side of the current step, the library default.
type TOTPService interface {
	GenerateSecret() (string, error)
	ProvisioningURI(secret, email string) (string, error)
	Verify(secret, code string, now time.Time) bool
}

type totpService struct {
	issuer string
}

func NewTOTPService(issuer string) TOTPService {
	return &totpService{issuer: issuer}
}

// GenerateSecret returns a fresh random base32 secret (20 bytes, 32 chars).
func (s *totpService) GenerateSecret() (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: "enrollment",
		SecretSize:  20,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// ProvisioningURI derives an otpauth:// URL from a stored secret. Deriving
// from the same secret always yields the same URI, which keeps repeated
// setup prompts idempotent.
func (s *totpService) ProvisioningURI(secret, email string) (string, error) {
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("invalid totp secret: %w", err)
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: email,
		Secret:      raw,
	})
	if err != nil {
		return "", err
	}
	return key.URL(), nil
}

func (s *totpService) Verify(secret, code string, now time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, now.UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
