package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/mail"
	"github.com/spec-kit/auth-service/internal/repository"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

// failingRepo wraps a repository and fails the selected operations.
type failingRepo struct {
	repository.UserRepository
	failUpdate bool
	failGet    bool
}

var errStoreDown = errors.New("store unavailable")

func (r *failingRepo) Update(ctx context.Context, u *domain.User) error {
	if r.failUpdate {
		return errStoreDown
	}
	return r.UserRepository.Update(ctx, u)
}

func (r *failingRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.failGet {
		return nil, errStoreDown
	}
	return r.UserRepository.GetByEmail(ctx, email)
}

type fixture struct {
	svc    *AuthService
	repo   repository.UserRepository
	mailer *recordingMailer
	clock  time.Time
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenTTLHours: 168,
		BcryptCost:    bcrypt.MinCost,
		VerifyOTPTTL:  24 * time.Hour,
		ResetOTPTTL:   15 * time.Minute,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, zap.NewNop(), config.MailConfig{
		SenderEmail: "noreply@example.com",
		SiteName:    "my-dream",
	}).RegisterHandlers()

	f := &fixture{
		repo:   repo,
		mailer: mailer,
		clock:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: repo, Events: dispatcher})
	f.svc.now = func() time.Time { return f.clock }
	f.svc.generateOTP = func() (string, error) { return "123456", nil }
	return f
}

func (f *fixture) register(t *testing.T) *domain.User {
	t.Helper()
	session, err := f.svc.RegisterUser(context.Background(), "Ada", "ada@example.com", "pa55word")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return session.User
}

func (f *fixture) load(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return u
}
