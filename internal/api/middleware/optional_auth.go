package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// OptionalAuth resolves a bearer token when one is presented but never
// rejects the request. Public routes use it so logged-in callers get their
// submissions linked to their account.
func OptionalAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			if account, err := auth.Resolve(c.Request().Context(), parts[1]); err == nil {
				c.Set(accountKey, account)
			}
			return next(c)
		}
	}
}
