package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edenzconsult/crm-backend/internal/core/ports"
)

// ChatHandler handles the public assistant endpoint.
type ChatHandler struct {
	service ports.ChatService
}

func NewChatHandler(service ports.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" validate:"required"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Action    string `json:"action,omitempty"`
}

// Send submits a message to the assistant and returns its reply. No
// authentication required; sessions are keyed by session_id.
//
// @Summary      Chat with the assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "Message"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/chat [post]
func (h *ChatHandler) Send(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Send(c.Request().Context(), ports.ChatInput{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chatResponse{
		SessionID: result.SessionID,
		Reply:     result.Reply,
		Action:    result.Action,
	})
}
