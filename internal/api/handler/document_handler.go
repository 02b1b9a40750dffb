package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// DocumentHandler handles document upload, retrieval and review routes.
type DocumentHandler struct {
	service ports.DocumentService
}

func NewDocumentHandler(service ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

type uploadDocumentRequest struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type" validate:"required"`
	FileURL   string `json:"file_url" validate:"required"`
}

type reviewDocumentRequest struct {
	Status   string `json:"status" validate:"required,oneof=pending approved rejected"`
	Feedback string `json:"feedback"`
}

// Upload registers a new document. Students upload for themselves; staff may
// set student_id to upload on a student's behalf.
//
// @Summary      Upload a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      uploadDocumentRequest  true  "Document details"
// @Success      201   {object}  domain.Document
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req uploadDocumentRequest
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

	doc, err := h.service.Upload(c.Request().Context(), actor, ports.UploadDocumentInput{
		StudentID: studentID,
		Name:      req.Name,
		Type:      req.Type,
		FileURL:   req.FileURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

// Get returns a single document.
//
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  map[string]string
// @Router       /v1/documents/{id} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	doc, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// ListByStudent returns one student's documents.
//
// @Summary      List a student's documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {array}   domain.Document
// @Failure      404  {object}  map[string]string
// @Router       /v1/students/{id}/documents [get]
func (h *DocumentHandler) ListByStudent(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	docs, err := h.service.ListByStudent(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []*domain.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// Review records a staff review decision on a document.
//
// @Summary      Review a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Document ID"
// @Param        body  body      reviewDocumentRequest  true  "Review decision"
// @Success      200   {object}  domain.Document
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/documents/{id}/review [put]
func (h *DocumentHandler) Review(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req reviewDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	doc, err := h.service.Review(c.Request().Context(), actor, c.Param("id"), ports.ReviewDocumentInput{
		Status:   req.Status,
		Feedback: req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}
