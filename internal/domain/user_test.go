package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckVerifyOTP(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	u := &User{}
	assert.ErrorIs(t, u.CheckVerifyOTP("", now), ErrOTPInvalid, "unset code never matches")

	u.SetVerifyOTP("123456", now, 24*time.Hour)
	assert.Equal(t, now.Add(24*time.Hour).UnixMilli(), u.VerifyOTPExpireAt)

	assert.NoError(t, u.CheckVerifyOTP("123456", now))
	assert.ErrorIs(t, u.CheckVerifyOTP("654321", now), ErrOTPInvalid)
	assert.ErrorIs(t, u.CheckVerifyOTP("123456", now.Add(24*time.Hour)), ErrOTPExpired, "expiry instant is already expired")
	assert.NoError(t, u.CheckVerifyOTP("123456", now.Add(24*time.Hour-time.Millisecond)))
}

func TestMarkVerified(t *testing.T) {
	u := &User{}
	u.SetVerifyOTP("111111", time.Now(), time.Hour)
	u.MarkVerified()

	assert.True(t, u.IsAccountVerified)
	assert.Empty(t, u.VerifyOTP)
	assert.Zero(t, u.VerifyOTPExpireAt)
}

func TestResetOTPLifecycle(t *testing.T) {
	now := time.Now()
	u := &User{PasswordHash: "old"}
	u.SetResetOTP("222222", now, 15*time.Minute)

	assert.ErrorIs(t, u.CheckResetOTP("222222", now.Add(16*time.Minute)), ErrOTPExpired)
	assert.NoError(t, u.CheckResetOTP("222222", now.Add(time.Minute)))

	u.ResetPassword("new")
	assert.Equal(t, "new", u.PasswordHash)
	assert.Empty(t, u.ResetOTP)
	assert.Zero(t, u.ResetOTPExpireAt)
	assert.ErrorIs(t, u.CheckResetOTP("222222", now), ErrOTPInvalid)
}
