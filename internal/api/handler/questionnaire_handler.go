package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// QuestionnaireHandler handles questionnaire definition and response routes.
type QuestionnaireHandler struct {
	service ports.QuestionnaireService
}

func NewQuestionnaireHandler(service ports.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{service: service}
}

type createQuestionnaireRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

type submitResponseRequest struct {
	QuestionnaireID string            `json:"questionnaire_id" validate:"required"`
	Answers         map[string]string `json:"answers" validate:"required"`
}

// Create defines a new questionnaire. Admin only.
//
// @Summary      Create a questionnaire
// @Tags         questionnaires
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuestionnaireRequest  true  "Questionnaire definition"
// @Success      201   {object}  domain.Questionnaire
// @Failure      403   {object}  map[string]string
// @Router       /v1/questionnaires [post]
func (h *QuestionnaireHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createQuestionnaireRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q, err := h.service.Create(c.Request().Context(), actor, ports.CreateQuestionnaireInput{
		Title:       req.Title,
		Description: req.Description,
		Required:    req.Required,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, q)
}

// List returns all questionnaires.
//
// @Summary      List questionnaires
// @Tags         questionnaires
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Questionnaire
// @Router       /v1/questionnaires [get]
func (h *QuestionnaireHandler) List(c echo.Context) error {
	forms, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if forms == nil {
		forms = []*domain.Questionnaire{}
	}
	return c.JSON(http.StatusOK, forms)
}

// Submit records the calling student's answers.
//
// @Summary      Submit questionnaire answers
// @Tags         questionnaires
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitResponseRequest  true  "Answers"
// @Success      201   {object}  domain.QuestionnaireResponse
// @Failure      404   {object}  map[string]string
// @Router       /v1/questionnaires/responses [post]
func (h *QuestionnaireHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.service.Submit(c.Request().Context(), actor, ports.SubmitResponseInput{
		QuestionnaireID: req.QuestionnaireID,
		Answers:         req.Answers,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListStudentResponses returns one student's submitted responses.
//
// @Summary      List a student's questionnaire responses
// @Tags         questionnaires
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.QuestionnaireResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/questionnaire-responses [get]
func (h *QuestionnaireHandler) ListStudentResponses(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	responses, err := h.service.ListStudentResponses(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if responses == nil {
		responses = []*domain.QuestionnaireResponse{}
	}
	return c.JSON(http.StatusOK, responses)
}

// Pending returns the required questionnaires a student has not answered yet.
//
// @Summary      List pending questionnaires
// @Tags         questionnaires
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Questionnaire
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/questionnaires/pending [get]
func (h *QuestionnaireHandler) Pending(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	pending, err := h.service.Pending(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if pending == nil {
		pending = []*domain.Questionnaire{}
	}
	return c.JSON(http.StatusOK, pending)
}
