package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "session"

	identityKey = "identity"
)

// IdentityResolver turns a session token into an identity, or nil when the
// token is unusable.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) *domain.Identity
}

// ReadIdentity resolves the caller's session and stores the optional identity
// in the context. The Authorization bearer token wins over the session cookie.
// It never rejects a request: anonymous callers pass through with no identity.
func ReadIdentity(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := sessionToken(c)
			if token == "" {
				return next(c)
			}
			if id := resolver.Resolve(c.Request().Context(), token); id != nil {
				c.Set(identityKey, id)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by ReadIdentity, or nil for anonymous callers.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	if id.Anonymous() {
		return nil
	}
	return id
}

func sessionToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if t := strings.TrimSpace(parts[1]); t != "" {
				return t
			}
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
