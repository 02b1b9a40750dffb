package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/authz"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
)

// ctxAccount extracts the account injected by the Auth middleware. A nil
// account means the middleware did not run on this route; treat it as an
// unauthenticated request rather than panicking.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get("account").(*domain.Account)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return account, nil
}

// ctxActor builds the authorization actor for the current request.
func ctxActor(c echo.Context) (authz.Actor, error) {
	account, err := ctxAccount(c)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{ID: account.ID, Role: account.Role}, nil
}
