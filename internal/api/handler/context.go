package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agileworks/backlog-api/internal/api/middleware"
	"github.com/agileworks/backlog-api/internal/core/domain"
)

// ctxPrincipal returns the user resolved by the Principal middleware. Its
// absence means the route was mounted without the auth chain.
func ctxPrincipal(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.PrincipalKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// bind decodes the request body and runs struct validation.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
