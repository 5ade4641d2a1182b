package dto

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest carries the OTP candidate; the session user id overrides UserID.
type VerifyEmailRequest struct {
	UserID string `json:"userId" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
}

// SendResetOTPRequest starts the password reset flow.
type SendResetOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// Reply is the envelope of every auth endpoint.
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UserData is the public projection of the caller's record.
type UserData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// UserDataReply wraps UserData.
type UserDataReply struct {
	Success  bool     `json:"success"`
	UserData UserData `json:"userData"`
}
