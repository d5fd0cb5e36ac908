package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

// PrincipalResolver loads the user behind a verified token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (*domain.User, error)
}

// Principal resolves the authenticated user once per request and stores it
// under PrincipalKey. It must run after Auth.
func Principal(resolver PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(UserIDKey).(string)
			user, err := resolver.ResolvePrincipal(c.Request().Context(), userID)
			if err != nil {
				return err
			}
			c.Set(PrincipalKey, user)
			return next(c)
		}
	}
}
