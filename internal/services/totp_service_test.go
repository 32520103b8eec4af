package services

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPService_GenerateSecret(t *testing.T) {
	svc := NewTOTPService("MedResearch")

	secret, err := svc.GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, secret, 32)
	for _, r := range secret {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", string(r))
	}

	other, err := svc.GenerateSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestTOTPService_ProvisioningURI(t *testing.T) {
	svc := NewTOTPService("MedResearch")

	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	uri, err := svc.ProvisioningURI(secret, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "otpauth://totp/"))
	assert.Contains(t, uri, "issuer=MedResearch")
	assert.Contains(t, uri, "alice%40example.com")
	assert.Contains(t, uri, "secret="+secret)

	// Same secret, same URI.
	again, err := svc.ProvisioningURI(secret, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, uri, again)
}

func TestTOTPService_ProvisioningURI_BadSecret(t *testing.T) {
	svc := NewTOTPService("MedResearch")
	_, err := svc.ProvisioningURI("not base32 at all!", "alice@example.com")
	assert.Error(t, err)
}

func TestTOTPService_Verify_Window(t *testing.T) {
	svc := NewTOTPService("MedResearch")
	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 15, 0, time.UTC)

	codeAt := func(at time.Time) string {
		code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
			Period:    30,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)
		return code
	}

	assert.True(t, svc.Verify(secret, codeAt(now), now), "current step")
	assert.True(t, svc.Verify(secret, codeAt(now.Add(-30*time.Second)), now), "previous step")
	assert.True(t, svc.Verify(secret, codeAt(now.Add(30*time.Second)), now), "next step")
	assert.False(t, svc.Verify(secret, codeAt(now.Add(-90*time.Second)), now), "two steps back")
	assert.False(t, svc.Verify(secret, codeAt(now.Add(90*time.Second)), now), "two steps forward")
}

func TestTOTPService_Verify_Garbage(t *testing.T) {
	svc := NewTOTPService("MedResearch")
	secret, err := svc.GenerateSecret()
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, svc.Verify(secret, "000000", now))
	assert.False(t, svc.Verify(secret, "abc", now))
	assert.False(t, svc.Verify(secret, "", now))
}
