package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// TokenCodeAlphabet drops visually ambiguous characters (0/O, 1/I) so codes
// survive being read aloud or typed from a chat message.
const (
	TokenCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	TokenCodeLength   = 12
)

func GenerateTokenCode() (string, error) {
	code := make([]byte, TokenCodeLength)
	max := big.NewInt(int64(len(TokenCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token code: %v", err)
		}
		code[i] = TokenCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// FormatTokenMessage builds the DM dropped into the booking conversation
// when a token is minted.
func FormatTokenMessage(code string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Your booking token is %s. It is valid until %s and can be used once to create an event at the booked venue.",
		code, expiresAt.Format(time.RFC1123),
	)
}

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[@$!%*?&]`).MatchString(password)
	return hasLower && hasUpper && hasNumber && hasSpecial
}
