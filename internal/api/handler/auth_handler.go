package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type registerAdminRequest struct {
	registerRequest
	ProvisionKey string `json:"provision_key" validate:"required"`
}

type registerProcessingRequest struct {
	registerRequest
	ManagedRegions []string `json:"managed_regions"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone,omitempty"`
	Role           string         `json:"role"`
	ManagedRegions []string       `json:"managed_regions,omitempty"`
	Profile        domain.Profile `json:"profile"`
	CreatedAt      string         `json:"created_at"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Account accountResponse `json:"account"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Email:          a.Email,
		Name:           a.Name,
		Phone:          a.Phone,
		Role:           string(a.Role),
		ManagedRegions: a.ManagedRegions,
		Profile:        a.Profile,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RegisterStudent creates a student account. Open to anyone.
//
// @Summary      Register a student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/auth/register [post]
func (h *AuthHandler) RegisterStudent(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.RegisterStudent(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Account: toAccountResponse(account)})
}

// RegisterAdmin creates an admin account using the out-of-band provisioning
// key. Rate limited per caller address.
//
// @Summary      Register an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerAdminRequest  true  "Registration details plus provisioning key"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /v1/auth/register-admin [post]
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req registerAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.RegisterAdmin(c.Request().Context(), ports.RegisterAdminInput{
		RegisterInput: ports.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
		},
		ProvisionKey: req.ProvisionKey,
		RemoteAddr:   c.RealIP(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Account: toAccountResponse(account)})
}

// RegisterProcessing creates a processing-team account. Admin token required.
//
// @Summary      Register a processing-team account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerProcessingRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/auth/register-processing [post]
func (h *AuthHandler) RegisterProcessing(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req registerProcessingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.authService.RegisterProcessing(c.Request().Context(), account.ID, account.Role, ports.RegisterProcessingInput{
		RegisterInput: ports.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Phone:    req.Phone,
		},
		ManagedRegions: req.ManagedRegions,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Account: toAccountResponse(created)})
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, Account: toAccountResponse(account)})
}

// Me returns the account behind the presented token.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}
