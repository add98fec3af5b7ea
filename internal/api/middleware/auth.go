package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nventive-labs/todosync/internal/core/domain"
	"github.com/nventive-labs/todosync/internal/core/ports"
)

// identityKey is the context key under which the authenticated Identity is
// stored for downstream handlers.
const identityKey = "identity"

// Auth validates the bearer token and injects the resulting Identity into
// the request context. Handlers must take the acting user from there and
// nowhere else.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := auth.Verify(bearerToken(c))
			if err != nil {
				if errors.Is(err, domain.ErrMissingToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom extracts the Identity injected by Auth. The boolean is false
// when the middleware did not run for this request.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
