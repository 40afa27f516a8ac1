package server

import (
	"context"

	"chirp/internal/auth"
	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// AuthState is the three-way outcome of resolving an inbound session cookie.
type AuthState int

const (
	// StateUnauthenticated means no session cookie was presented.
	StateUnauthenticated AuthState = iota
	// StateInvalid means a cookie was presented but failed verification.
	// Clients see the same 401 as StateUnauthenticated; the distinction
	// exists for metrics and tests only.
	StateInvalid
	// StateAuthenticated means the cookie verified and claims are available.
	StateAuthenticated
)

// Viewer is the resolved identity of the caller.
type Viewer struct {
	State  AuthState
	Claims *auth.SessionClaims
}

// Authenticated reports whether the viewer holds a verified session.
func (v Viewer) Authenticated() bool {
	return v.State == StateAuthenticated
}

// resolveViewer inspects the session cookie and classifies the caller.
// It never fails the request; callers decide what each state means for
// their route.
func (s *Server) resolveViewer(c *fiber.Ctx) Viewer {
	token := c.Cookies(auth.SessionCookieName)
	if token == "" {
		observability.SessionVerifications.WithLabelValues("absent").Inc()
		return Viewer{State: StateUnauthenticated}
	}

	claims, err := s.sessions.Verify(token)
	if err != nil {
		observability.SessionVerifications.WithLabelValues("invalid").Inc()
		return Viewer{State: StateInvalid}
	}

	observability.SessionVerifications.WithLabelValues("valid").Inc()
	return Viewer{State: StateAuthenticated, Claims: claims}
}

// AuthRequired returns the authentication middleware. Both a missing and a
// rejected cookie produce the same 401 body so the client cannot tell which
// case occurred.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := s.resolveViewer(c)
		if !viewer.Authenticated() {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid Request - Please login"))
		}

		// Store user ID in context
		c.Locals("userID", viewer.Claims.UserID)
		c.Locals("claims", viewer.Claims)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, viewer.Claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// setSessionCookie attaches a freshly issued session token to the response.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.IsProduction(),
	})
}

// clearSessionCookie expires the cookie client-side. The token itself stays
// cryptographically valid until its natural expiry.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.IsProduction(),
	})
}
