package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

const userIDKey = "auth_user_id"

// MsgNotAuthorized is returned when no usable session is presented.
const MsgNotAuthorized = "Not authorized. Login again"

// SessionMiddleware resolves the session cookie into a user id.
type SessionMiddleware struct {
	tokens     *TokenManager
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, cookieName string) *SessionMiddleware {
	if cookieName == "" {
		cookieName = "token"
	}
	return &SessionMiddleware{tokens: tokens, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return apperrors.NewUnauthorized(MsgNotAuthorized)
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}
	if claims.ID == "" {
		return apperrors.NewUnauthorized(MsgNotAuthorized)
	}

	c.Locals(userIDKey, claims.ID)
	return c.Next()
}

// UserIDFromContext retrieves the authenticated user id.
func UserIDFromContext(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(userIDKey).(string)
	return id, ok && id != ""
}
