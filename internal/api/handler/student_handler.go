package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// StudentHandler handles profile, education and staff student-list routes.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

type updateProfileRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	DateOfBirth      string `json:"dob"`
	Bio              string `json:"bio"`
	PreferredCountry string `json:"preferred_country"`
	EducationLevel   string `json:"education_level"`
	FundingSource    string `json:"funding_source"`
	Budget           string `json:"budget"`
}

type addEducationRequest struct {
	Degree        string `json:"degree" validate:"required"`
	Institution   string `json:"institution" validate:"required"`
	YearCompleted string `json:"year_completed" validate:"required"`
	GPA           string `json:"gpa"`
	Country       string `json:"country"`
	Major         string `json:"major"`
}

type studentSummaryResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	PreferredCountry string `json:"preferred_country,omitempty"`
	ApplicationCount int    `json:"application_count"`
	DocumentCount    int    `json:"document_count"`
}

type studentDetailResponse struct {
	Profile      accountResponse       `json:"profile"`
	Education    []*domain.Education   `json:"education"`
	Documents    []*domain.Document    `json:"documents"`
	Applications []*domain.Application `json:"applications"`
}

// GetProfile returns one student's profile.
//
// @Summary      Get a student profile
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/profile [get]
func (h *StudentHandler) GetProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.service.GetProfile(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateProfile updates a student's profile fields.
//
// @Summary      Update a student profile
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Student ID"
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  accountResponse
// @Failure      404   {object}  map[string]string
// @Router       /v1/students/{id}/profile [put]
func (h *StudentHandler) UpdateProfile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.service.UpdateProfile(c.Request().Context(), actor, c.Param("id"), ports.ProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
		Profile: domain.Profile{
			Address:          req.Address,
			DateOfBirth:      req.DateOfBirth,
			Bio:              req.Bio,
			PreferredCountry: req.PreferredCountry,
			EducationLevel:   req.EducationLevel,
			FundingSource:    req.FundingSource,
			Budget:           req.Budget,
		},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// List returns the staff-facing student list.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   studentSummaryResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	students, err := h.service.ListStudents(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	out := make([]studentSummaryResponse, 0, len(students))
	for _, s := range students {
		out = append(out, studentSummaryResponse{
			ID:               s.ID,
			Name:             s.Name,
			Email:            s.Email,
			Phone:            s.Phone,
			PreferredCountry: s.PreferredCountry,
			ApplicationCount: s.ApplicationCount,
			DocumentCount:    s.DocumentCount,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Detail returns the full dashboard view of one student.
//
// @Summary      Get student detail
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  studentDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id} [get]
func (h *StudentHandler) Detail(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetStudentDetail(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentDetailResponse{
		Profile:      toAccountResponse(detail.Profile),
		Education:    detail.Education,
		Documents:    detail.Documents,
		Applications: detail.Applications,
	})
}

// AddEducation appends an education-history entry.
//
// @Summary      Add an education entry
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Student ID"
// @Param        body  body      addEducationRequest  true  "Education entry"
// @Success      201   {object}  domain.Education
// @Failure      404   {object}  map[string]string
// @Router       /v1/students/{id}/education [post]
func (h *StudentHandler) AddEducation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addEducationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.AddEducation(c.Request().Context(), actor, c.Param("id"), ports.EducationInput{
		Degree:        req.Degree,
		Institution:   req.Institution,
		YearCompleted: req.YearCompleted,
		GPA:           req.GPA,
		Country:       req.Country,
		Major:         req.Major,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// ListEducation returns a student's education history.
//
// @Summary      List education entries
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Education
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/education [get]
func (h *StudentHandler) ListEducation(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	entries, err := h.service.ListEducation(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*domain.Education{}
	}
	return c.JSON(http.StatusOK, entries)
}
