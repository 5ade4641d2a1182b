package domain

import (
	"crypto/subtle"
	"errors"
	"time"
)

// OTPLength is the number of decimal digits in a one-time code.
const OTPLength = 6

var (
	// ErrOTPInvalid covers an unset code and a mismatched candidate.
	ErrOTPInvalid = errors.New("invalid otp")
	// ErrOTPExpired means the stored code matched but its expiry has passed.
	ErrOTPExpired = errors.New("otp expired")
)

// checkOTP accepts candidate only while stored is non-empty and now < expireAt.
func checkOTP(stored string, expireAt int64, candidate string, now time.Time) error {
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return ErrOTPInvalid
	}
	if now.UnixMilli() >= expireAt {
		return ErrOTPExpired
	}
	return nil
}
