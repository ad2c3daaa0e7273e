package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// RegistrationOTPTTL bounds how long a signup code stays valid
	RegistrationOTPTTL = 10 * time.Minute
	// PasswordResetTTL bounds both the reset OTP and the reset token it yields
	PasswordResetTTL = 15 * time.Minute
)

var (
	ErrOTPExpired  = errors.New("otp expired")
	ErrOTPMismatch = errors.New("otp mismatch")
)

// OTPGenerator produces six-digit one-time codes
type OTPGenerator interface {
	Generate(now time.Time) (string, error)
}

// TOTPGenerator derives each code from a freshly generated TOTP secret,
// so consecutive codes are independent of each other.
type TOTPGenerator struct {
	Issuer string
}

func (g TOTPGenerator) Generate(now time.Time) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      g.issuer(),
		AccountName: "otp",
		Period:      uint(RegistrationOTPTTL / time.Second),
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP secret: %w", err)
	}

	code, err := totp.GenerateCodeCustom(key.Secret(), now, totp.ValidateOpts{
		Period:    uint(RegistrationOTPTTL / time.Second),
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return code, nil
}

func (g TOTPGenerator) issuer() string {
	if g.Issuer == "" {
		return "Radhe Enterprise"
	}
	return g.Issuer
}

// CheckOTP accepts given only when it equals stored and now is strictly before expiry
func CheckOTP(stored, given string, expiry, now time.Time) error {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(given)) != 1 {
		return ErrOTPMismatch
	}
	if !now.Before(expiry) {
		return ErrOTPExpired
	}
	return nil
}

// NewResetToken returns 32 random bytes hex-encoded
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
