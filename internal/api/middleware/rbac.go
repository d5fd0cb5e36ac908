package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/api/metrics"
	"github.com/agileworks/backlog-api/internal/core/domain"
)

// RequirePrivilege lets the request through only when the principal holds
// one of the allowed privileges. It must run after Principal.
func RequirePrivilege(allowed ...domain.Privilege) echo.MiddlewareFunc {
	set := make(map[domain.Privilege]struct{}, len(allowed))
	for _, p := range allowed {
		set[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(PrincipalKey).(*domain.User)
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if _, ok := set[user.Privilege]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("privilege").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
			}
			return next(c)
		}
	}
}
