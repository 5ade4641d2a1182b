package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

func assertFailure(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, message, de.Message)
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.svc.RegisterUser(ctx, "Ada", "ada@example.com", "pa55word")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	claims, err := f.svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.ID)

	stored := f.load(t, session.User.ID)
	assert.NotEqual(t, "pa55word", stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "pa55word"))
	assert.False(t, stored.IsAccountVerified)
	assert.Empty(t, stored.VerifyOTP)
	assert.Zero(t, stored.VerifyOTPExpireAt)

	sent := f.mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Equal(t, "noreply@example.com", sent[0].From)
	assert.Equal(t, "Welcome to my-dream", sent[0].Subject)
	assert.Contains(t, sent[0].Text, "ada@example.com")
}

func TestRegisterUser_MissingFields(t *testing.T) {
	f := newFixture(t)
	for _, in := range [][3]string{
		{"", "a@b.c", "pw"},
		{"Ada", "", "pw"},
		{"Ada", "a@b.c", ""},
	} {
		_, err := f.svc.RegisterUser(context.Background(), in[0], in[1], in[2])
		assertFailure(t, err, MsgMissingDetails)
	}
	assert.Empty(t, f.mailer.messages())
}

func TestRegisterUser_Twice(t *testing.T) {
	f := newFixture(t)
	f.register(t)

	_, err := f.svc.RegisterUser(context.Background(), "Ada 2", "ada@example.com", "other")
	assertFailure(t, err, MsgUserExists)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestRegisterUser_MailFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	session, err := f.svc.RegisterUser(context.Background(), "Ada", "ada@example.com", "pa55word")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Len(t, f.mailer.messages(), 1)
}

func TestLoginUser(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	session, err := f.svc.LoginUser(ctx, "ada@example.com", "pa55word")
	require.NoError(t, err)
	claims, err := f.svc.TokenManager().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)

	_, err = f.svc.LoginUser(ctx, "ada@example.com", "wrong")
	assertFailure(t, err, MsgInvalidPassword)

	_, err = f.svc.LoginUser(ctx, "nobody@example.com", "pa55word")
	assertFailure(t, err, MsgInvalidEmail)

	_, err = f.svc.LoginUser(ctx, "", "pa55word")
	assertFailure(t, err, MsgCredentialsRequired)
}

func TestSendVerifyOTP_ThenVerify(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendVerifyOTP(ctx, user.ID))

	stored := f.load(t, user.ID)
	assert.Equal(t, "123456", stored.VerifyOTP)
	assert.Equal(t, f.clock.Add(24*time.Hour).UnixMilli(), stored.VerifyOTPExpireAt)

	sent := f.mailer.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Account verification OTP", sent[1].Subject)
	assert.Contains(t, sent[1].Text, "123456")

	f.clock = f.clock.Add(23 * time.Hour)
	require.NoError(t, f.svc.VerifyEmail(ctx, user.ID, "123456"))

	stored = f.load(t, user.ID)
	assert.True(t, stored.IsAccountVerified)
	assert.Empty(t, stored.VerifyOTP)
	assert.Zero(t, stored.VerifyOTPExpireAt)

	err := f.svc.SendVerifyOTP(ctx, user.ID)
	assertFailure(t, err, MsgAlreadyVerified)
}

func TestSendVerifyOTP_UnknownUser(t *testing.T) {
	f := newFixture(t)
	err := f.svc.SendVerifyOTP(context.Background(), "missing")
	assertFailure(t, err, MsgUserNotFound)
}

func TestSendVerifyOTP_MailFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	f.mailer.err = errors.New("smtp down")

	require.NoError(t, f.svc.SendVerifyOTP(context.Background(), user.ID))
	assert.Equal(t, "123456", f.load(t, user.ID).VerifyOTP)
}

func TestSendVerifyOTP_StoreFailure(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	f.svc.users = &failingRepo{UserRepository: f.repo, failUpdate: true}

	err := f.svc.SendVerifyOTP(context.Background(), user.ID)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Len(t, f.mailer.messages(), 1, "no otp mail when the code was not stored")
}

func TestVerifyEmail_Failures(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		userID  func(u *domain.User) string
		otp     string
		advance time.Duration
		message string
	}{
		{name: "missing otp", userID: func(u *domain.User) string { return u.ID }, otp: "", message: MsgMissingDetails},
		{name: "missing user id", userID: func(*domain.User) string { return "" }, otp: "123456", message: MsgMissingDetails},
		{name: "unknown user", userID: func(*domain.User) string { return "nope" }, otp: "123456", message: MsgUserNotFound},
		{name: "mismatch", userID: func(u *domain.User) string { return u.ID }, otp: "000000", message: MsgInvalidOTP},
		{name: "expired", userID: func(u *domain.User) string { return u.ID }, otp: "123456", advance: 24 * time.Hour, message: MsgOTPExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.register(t)
			require.NoError(t, f.svc.SendVerifyOTP(ctx, user.ID))
			before := f.load(t, user.ID)

			f.clock = f.clock.Add(tc.advance)
			err := f.svc.VerifyEmail(ctx, tc.userID(user), tc.otp)
			assertFailure(t, err, tc.message)

			after := f.load(t, user.ID)
			assert.Equal(t, before.VerifyOTP, after.VerifyOTP)
			assert.Equal(t, before.VerifyOTPExpireAt, after.VerifyOTPExpireAt)
			assert.False(t, after.IsAccountVerified)
		})
	}
}

func TestVerifyEmail_NoOTPIssued(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)

	err := f.svc.VerifyEmail(context.Background(), user.ID, "123456")
	assertFailure(t, err, MsgInvalidOTP)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendResetOTP(ctx, "ada@example.com"))
	stored := f.load(t, user.ID)
	assert.Equal(t, "123456", stored.ResetOTP)
	assert.Equal(t, f.clock.Add(15*time.Minute).UnixMilli(), stored.ResetOTPExpireAt)

	sent := f.mailer.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Password reset OTP", sent[1].Subject)

	err := f.svc.ResetPassword(ctx, "ada@example.com", "999999", "n3w")
	assertFailure(t, err, MsgInvalidOTP)

	require.NoError(t, f.svc.ResetPassword(ctx, "ada@example.com", "123456", "n3w"))
	stored = f.load(t, user.ID)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "n3w"))
	assert.Empty(t, stored.ResetOTP)
	assert.Zero(t, stored.ResetOTPExpireAt)

	_, err = f.svc.LoginUser(ctx, "ada@example.com", "pa55word")
	assertFailure(t, err, MsgInvalidPassword)
	_, err = f.svc.LoginUser(ctx, "ada@example.com", "n3w")
	assert.NoError(t, err)

	err = f.svc.ResetPassword(ctx, "ada@example.com", "123456", "again")
	assertFailure(t, err, MsgInvalidOTP)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	user := f.register(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SendResetOTP(ctx, "ada@example.com"))
	f.clock = f.clock.Add(15 * time.Minute)

	err := f.svc.ResetPassword(ctx, "ada@example.com", "123456", "n3w")
	assertFailure(t, err, MsgOTPExpired)
	assert.NoError(t, auth.ComparePassword(f.load(t, user.ID).PasswordHash, "pa55word"))
}

func TestResetPassword_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assertFailure(t, f.svc.SendResetOTP(ctx, ""), MsgEmailRequired)
	assertFailure(t, f.svc.SendResetOTP(ctx, "nobody@example.com"), MsgUserNotFound)
	assertFailure(t, f.svc.ResetPassword(ctx, "a@b.c", "", "x"), MsgResetFieldsRequired)
	assertFailure(t, f.svc.ResetPassword(ctx, "nobody@example.com", "123456", "x"), MsgUserNotFound)
}

func TestSendResetOTP_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.svc.users = &failingRepo{UserRepository: f.repo, failGet: true}

	err := f.svc.SendResetOTP(context.Background(), "ada@example.com")
	require.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}
