package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/spec-kit/auth-service/internal/domain"
)

var otpSpan = big.NewInt(900000)

// GenerateOTP returns a uniformly random six digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpan)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", domain.OTPLength, n.Int64()+100000), nil
}
