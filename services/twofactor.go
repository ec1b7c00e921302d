package services

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// GenerateTwoFactorSecret creates a new TOTP key for the user. The key's
// URL is rendered as a QR code by the client.
func GenerateTwoFactorSecret(username string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      "myhabits",
		AccountName: username,
	})
}

// ValidateTwoFactorCode checks a TOTP code against the stored secret.
func ValidateTwoFactorCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
