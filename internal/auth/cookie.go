package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie writes and clears the cookie carrying the session token.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// NewSessionCookie derives cookie attributes from the deployment mode.
func NewSessionCookie(name string, ttl time.Duration, production bool) SessionCookie {
	if name == "" {
		name = "token"
	}
	return SessionCookie{Name: name, TTL: ttl, Secure: production}
}

func (s SessionCookie) sameSite() string {
	if s.Secure {
		return fiber.CookieSameSiteNoneMode
	}
	return fiber.CookieSameSiteStrictMode
}

// Set attaches the token cookie to the response.
func (s SessionCookie) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: s.sameSite(),
		MaxAge:   int(s.TTL.Seconds()),
		Expires:  time.Now().Add(s.TTL),
	})
}

// Clear expires the token cookie with the same attributes it was set with.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: s.sameSite(),
		Expires:  time.Unix(0, 0),
	})
}
