package domain

import "time"

// User is the identity and verification state of a registered account.
// OTP expirations are epoch milliseconds; zero means unset.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	IsAccountVerified bool
	VerifyOTP         string
	VerifyOTPExpireAt int64
	ResetOTP          string
	ResetOTPExpireAt  int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SetVerifyOTP stores a verification code valid for ttl from now.
func (u *User) SetVerifyOTP(code string, now time.Time, ttl time.Duration) {
	u.VerifyOTP = code
	u.VerifyOTPExpireAt = now.Add(ttl).UnixMilli()
}

// CheckVerifyOTP validates a verification candidate without mutating the user.
func (u *User) CheckVerifyOTP(candidate string, now time.Time) error {
	return checkOTP(u.VerifyOTP, u.VerifyOTPExpireAt, candidate, now)
}

// MarkVerified flags the account verified and consumes the verification code.
func (u *User) MarkVerified() {
	u.IsAccountVerified = true
	u.VerifyOTP = ""
	u.VerifyOTPExpireAt = 0
}

// SetResetOTP stores a password-reset code valid for ttl from now.
func (u *User) SetResetOTP(code string, now time.Time, ttl time.Duration) {
	u.ResetOTP = code
	u.ResetOTPExpireAt = now.Add(ttl).UnixMilli()
}

// CheckResetOTP validates a reset candidate without mutating the user.
func (u *User) CheckResetOTP(candidate string, now time.Time) error {
	return checkOTP(u.ResetOTP, u.ResetOTPExpireAt, candidate, now)
}

// ResetPassword replaces the hash and consumes the reset code.
func (u *User) ResetPassword(hash string) {
	u.PasswordHash = hash
	u.ResetOTP = ""
	u.ResetOTPExpireAt = 0
}
