package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes the session and OTP endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	cookie auth.SessionCookie
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie auth.SessionCookie) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(service.MsgMissingDetails)
	}

	session, err := h.auth.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.Set(c, session.Token)
	return c.JSON(dto.Reply{Success: true})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(service.MsgCredentialsRequired)
	}

	session, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.cookie.Set(c, session.Token)
	return c.JSON(dto.Reply{Success: true})
}

// Logout handles POST /api/auth/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookie.Clear(c)
	return c.JSON(dto.Reply{Success: true, Message: "Logged Out"})
}

// SendVerifyOTP handles POST /api/auth/send-verify-otp.
func (h *AuthHandler) SendVerifyOTP(c *fiber.Ctx) error {
	userID, _ := auth.UserIDFromContext(c)
	if err := h.auth.SendVerifyOTP(c.UserContext(), userID); err != nil {
		return err
	}
	return c.JSON(dto.Reply{Success: true, Message: "Verification OTP sent on email"})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if userID, ok := auth.UserIDFromContext(c); ok {
		req.UserID = userID
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(service.MsgMissingDetails)
	}

	if err := h.auth.VerifyEmail(c.UserContext(), req.UserID, req.OTP); err != nil {
		return err
	}
	return c.JSON(dto.Reply{Success: true, Message: "Email verified successfully"})
}

// IsAuthenticated handles GET /api/auth/is-auth; the session middleware has already admitted the caller.
func (h *AuthHandler) IsAuthenticated(c *fiber.Ctx) error {
	return c.JSON(dto.Reply{Success: true})
}

// SendResetOTP handles POST /api/auth/send-reset-otp.
func (h *AuthHandler) SendResetOTP(c *fiber.Ctx) error {
	var req dto.SendResetOTPRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(service.MsgEmailRequired)
	}

	if err := h.auth.SendResetOTP(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.Reply{Success: true, Message: "OTP sent to your email"})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(service.MsgResetFieldsRequired)
	}

	if err := h.auth.ResetPassword(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.Reply{Success: true, Message: "Password has been reset successfully"})
}

// parseBody decodes a request body when one is present.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	return nil
}
