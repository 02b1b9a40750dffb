package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// RecommendationHandler handles study recommendation routes.
type RecommendationHandler struct {
	service ports.RecommendationService
}

func NewRecommendationHandler(service ports.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

type generateRecommendationsRequest struct {
	EducationLevel     string   `json:"education_level" validate:"required"`
	GPA                string   `json:"gpa"`
	EnglishScore       string   `json:"english_score"`
	TestType           string   `json:"test_type"`
	PreferredCountries []string `json:"preferred_countries" validate:"required,min=1"`
	PreferredFields    []string `json:"preferred_fields" validate:"required,min=1"`
	Budget             string   `json:"budget"`
}

// Generate produces a fresh recommendation batch for a student. Each run
// replaces the previous batch.
//
// @Summary      Generate recommendations
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                          true  "Student ID"
// @Param        body  body      generateRecommendationsRequest  true  "Academic profile"
// @Success      201   {array}   domain.Recommendation
// @Failure      404   {object}  map[string]string
// @Router       /v1/students/{id}/recommendations/generate [post]
func (h *RecommendationHandler) Generate(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req generateRecommendationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recs, err := h.service.Generate(c.Request().Context(), actor, ports.GenerateRecommendationsInput{
		StudentID:          c.Param("id"),
		EducationLevel:     req.EducationLevel,
		GPA:                req.GPA,
		EnglishScore:       req.EnglishScore,
		TestType:           req.TestType,
		PreferredCountries: req.PreferredCountries,
		PreferredFields:    req.PreferredFields,
		Budget:             req.Budget,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, recs)
}

// ListByStudent returns a student's stored recommendations.
//
// @Summary      List recommendations
// @Tags         recommendations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Recommendation
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/recommendations [get]
func (h *RecommendationHandler) ListByStudent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	recs, err := h.service.ListByStudent(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []*domain.Recommendation{}
	}
	return c.JSON(http.StatusOK, recs)
}
