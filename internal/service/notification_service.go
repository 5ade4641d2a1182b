package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/mail"
)

// NotificationService turns account events into outbound emails.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventVerifyOTPIssued, n.handleVerifyOTPIssued)
	n.dispatcher.Subscribe(events.EventResetOTPIssued, n.handleResetOTPIssued)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	return n.send(ctx, event, fmt.Sprintf("Welcome to %s", n.cfg.SiteName),
		fmt.Sprintf("Welcome to %s. Your account has been created with email id: %s", n.cfg.SiteName, event.Email))
}

func (n *NotificationService) handleVerifyOTPIssued(ctx context.Context, event events.Event) error {
	return n.send(ctx, event, "Account verification OTP",
		fmt.Sprintf("Your OTP is %s. Verify your account using this OTP.", event.Payload[events.PayloadOTP]))
}

func (n *NotificationService) handleResetOTPIssued(ctx context.Context, event events.Event) error {
	return n.send(ctx, event, "Password reset OTP",
		fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password.",
			event.Payload[events.PayloadOTP]))
}

func (n *NotificationService) send(ctx context.Context, event events.Event, subject, text string) error {
	msg := mail.Message{
		From:    n.cfg.SenderEmail,
		To:      event.Email,
		Subject: subject,
		Text:    text,
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Warn("notification email failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	n.logger.Debug("notification email sent",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	return nil
}
