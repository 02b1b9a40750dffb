package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// ApplicationHandler handles university application routes.
type ApplicationHandler struct {
	service ports.ApplicationService
}

func NewApplicationHandler(service ports.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type createApplicationRequest struct {
	StudentID      string  `json:"student_id"`
	UniversityName string  `json:"university_name" validate:"required"`
	ProgramName    string  `json:"program_name" validate:"required"`
	Intake         string  `json:"intake"`
	ApplicationFee float64 `json:"application_fee"`
	TuitionFee     float64 `json:"tuition_fee"`
	Notes          string  `json:"notes"`
}

type updateApplicationRequest struct {
	Status        string `json:"status" validate:"required"`
	Progress      int    `json:"progress" validate:"min=0,max=100"`
	Notes         string `json:"notes"`
	UpdateMessage string `json:"update_message"`
}

// Create starts a new application.
//
// @Summary      Create an application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createApplicationRequest  true  "Application details"
// @Success      201   {object}  domain.Application
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/applications [post]
func (h *ApplicationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	studentID := req.StudentID
	if studentID == "" {
		studentID = actor.ID
	}

	app, err := h.service.Create(c.Request().Context(), actor, ports.CreateApplicationInput{
		StudentID:      studentID,
		UniversityName: req.UniversityName,
		ProgramName:    req.ProgramName,
		Intake:         req.Intake,
		ApplicationFee: req.ApplicationFee,
		TuitionFee:     req.TuitionFee,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// Get returns one application.
//
// @Summary      Get an application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  domain.Application
// @Failure      404  {object}  map[string]string
// @Router       /v1/applications/{id} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	app, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}

// ListByStudent returns one student's applications.
//
// @Summary      List a student's applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Application
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/applications [get]
func (h *ApplicationHandler) ListByStudent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	apps, err := h.service.ListByStudent(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	return c.JSON(http.StatusOK, apps)
}

// UpdateStatus moves an application through its lifecycle. Repeating the
// same update is a no-op, not an error.
//
// @Summary      Update application status
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Application ID"
// @Param        body  body      updateApplicationRequest  true  "Status update"
// @Success      200   {object}  domain.Application
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	app, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), ports.UpdateApplicationInput{
		Status:        req.Status,
		Progress:      req.Progress,
		Notes:         req.Notes,
		UpdateMessage: req.UpdateMessage,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}

// History returns an application's status timeline.
//
// @Summary      Get application history
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {array}   domain.ApplicationHistoryEntry
// @Failure      404  {object}  map[string]string
// @Router       /v1/applications/{id}/history [get]
func (h *ApplicationHandler) History(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	history, err := h.service.History(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if history == nil {
		history = []domain.ApplicationHistoryEntry{}
	}
	return c.JSON(http.StatusOK, history)
}
