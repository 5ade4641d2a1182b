package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// Reply messages surfaced to clients.
const (
	MsgMissingDetails      = "Missing Details"
	MsgCredentialsRequired = "Email and password are required"
	MsgUserExists          = "User already exists"
	MsgInvalidEmail        = "Invalid Email"
	MsgInvalidPassword     = "Invalid Password"
	MsgUserNotFound        = "User not found"
	MsgAlreadyVerified     = "Account already verified"
	MsgInvalidOTP          = "Invalid OTP"
	MsgOTPExpired          = "OTP expired"
	MsgEmailRequired       = "Email is required"
	MsgResetFieldsRequired = "Email, OTP, and new password are required"
)

// AuthService coordinates registration, login and OTP flows.
type AuthService struct {
	users        repository.UserRepository
	events       events.Dispatcher
	logger       *zap.Logger
	tokenMgr     *auth.TokenManager
	bcryptCost   int
	verifyOTPTTL time.Duration
	resetOTPTTL  time.Duration
	now          func() time.Time
	generateOTP  func() (string, error)
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Events   events.Dispatcher
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:        deps.UserRepo,
		events:       deps.Events,
		logger:       logger,
		tokenMgr:     auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost:   cfg.BcryptCost,
		verifyOTPTTL: cfg.VerifyOTPTTL,
		resetOTPTTL:  cfg.ResetOTPTTL,
		now:          time.Now,
		generateOTP:  auth.GenerateOTP,
	}
}

// Session is a freshly minted token for a user.
type Session struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterUser creates an account, mints a session and announces the welcome mail.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*Session, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError(MsgMissingDetails)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(MsgUserExists)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(MsgUserExists)
		}
		return nil, err
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, user.Email,
		map[string]string{events.PayloadName: user.Name}))
	return session, nil
}

// LoginUser authenticates by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(MsgCredentialsRequired)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(MsgInvalidEmail)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidPassword)
	}
	return s.issue(user)
}

// SendVerifyOTP issues a fresh verification code for an unverified account.
// Concurrent calls for one user are last-write-wins.
func (s *AuthService) SendVerifyOTP(ctx context.Context, userID string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAccountVerified {
		return apperrors.NewRejected(MsgAlreadyVerified)
	}

	code, err := s.generateOTP()
	if err != nil {
		return err
	}
	user.SetVerifyOTP(code, s.now(), s.verifyOTPTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventVerifyOTPIssued, user.ID, user.Email,
		map[string]string{events.PayloadOTP: code}))
	return nil
}

// VerifyEmail consumes the verification code and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, userID, otp string) error {
	if userID == "" || otp == "" {
		return apperrors.NewValidationError(MsgMissingDetails)
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.CheckVerifyOTP(otp, s.now()); err != nil {
		return otpError(err)
	}

	user.MarkVerified()
	return s.users.Update(ctx, user)
}

// SendResetOTP issues a password-reset code for the account with email.
func (s *AuthService) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.NewValidationError(MsgEmailRequired)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return err
	}

	code, err := s.generateOTP()
	if err != nil {
		return err
	}
	user.SetResetOTP(code, s.now(), s.resetOTPTTL)
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventResetOTPIssued, user.ID, user.Email,
		map[string]string{events.PayloadOTP: code}))
	return nil
}

// ResetPassword replaces the password when the reset code is valid.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return apperrors.NewValidationError(MsgResetFieldsRequired)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return err
	}
	if err := user.CheckResetOTP(otp, s.now()); err != nil {
		return otpError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.ResetPassword(hash)
	return s.users.Update(ctx, user)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// publish hands the event to the dispatcher; delivery failures never reach the caller.
func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err))
	}
}

func otpError(err error) error {
	if errors.Is(err, domain.ErrOTPExpired) {
		return apperrors.NewRejected(MsgOTPExpired)
	}
	return apperrors.NewRejected(MsgInvalidOTP)
}
