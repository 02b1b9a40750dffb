package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// ConsultationHandler handles public booking and admin booking management.
type ConsultationHandler struct {
	service ports.ConsultationService
}

func NewConsultationHandler(service ports.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

type bookConsultationRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	Date             string `json:"date" validate:"required"`
	Time             string `json:"time" validate:"required"`
	Service          string `json:"service"`
	Message          string `json:"message"`
	PaymentReference string `json:"payment_reference"`
}

type updateConsultationRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// Book accepts a consultation booking. No authentication required; a logged
// in student's booking is linked to their account by the authenticated
// variant of this route.
//
// @Summary      Book a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Param        body  body      bookConsultationRequest  true  "Booking details"
// @Success      201   {object}  domain.Consultation
// @Failure      400   {object}  map[string]string
// @Router       /v1/consultations [post]
func (h *ConsultationHandler) Book(c echo.Context) error {
	var req bookConsultationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Bookings from authenticated students are linked to their account;
	// everyone else books anonymously.
	studentID := ""
	if account, ok := c.Get("account").(*domain.Account); ok && account != nil && account.Role == domain.RoleStudent {
		studentID = account.ID
	}

	booking, err := h.service.Book(c.Request().Context(), ports.BookConsultationInput{
		StudentID:        studentID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Date:             req.Date,
		Time:             req.Time,
		Service:          req.Service,
		Message:          req.Message,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

// Get returns one booking.
//
// @Summary      Get a consultation
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consultation ID"
// @Success      200  {object}  domain.Consultation
// @Failure      404  {object}  map[string]string
// @Router       /v1/consultations/{id} [get]
func (h *ConsultationHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	booking, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// ListByStudent returns a student's own bookings.
//
// @Summary      List a student's consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Consultation
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/consultations [get]
func (h *ConsultationHandler) ListByStudent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListByStudent(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if bookings == nil {
		bookings = []*domain.Consultation{}
	}
	return c.JSON(http.StatusOK, bookings)
}

// List returns all bookings, optionally filtered by status. Admin only.
//
// @Summary      List consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {array}   domain.Consultation
// @Failure      403     {object}  map[string]string
// @Router       /v1/consultations [get]
func (h *ConsultationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.List(c.Request().Context(), actor, c.QueryParam("status"))
	if err != nil {
		return err
	}
	if bookings == nil {
		bookings = []*domain.Consultation{}
	}
	return c.JSON(http.StatusOK, bookings)
}

// Update moves a booking through its lifecycle. Admin only.
//
// @Summary      Update a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Consultation ID"
// @Param        body  body      updateConsultationRequest  true  "Status update"
// @Success      200   {object}  domain.Consultation
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/consultations/{id} [put]
func (h *ConsultationHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateConsultationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.UpdateConsultationInput{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}
