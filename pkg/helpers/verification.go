package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// GenVerificationCode generates a random 6-hex-char email verification code.
func GenVerificationCode() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenResetToken generates a random 64-hex-char password reset token.
// Long enough that the token itself is the credential.
func GenResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
