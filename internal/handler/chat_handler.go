package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/service"
)

type ChatHandler interface {
	GetMessages(c *gin.Context)
	GetChatPreviews(c *gin.Context)
}

type chatHandler struct {
	service service.ChatService
}

func NewChatHandler(service service.ChatService) ChatHandler {
	return &chatHandler{
		service: service,
	}
}

// GetMessages returns the full history between the caller and :friendId,
// ordered by timestamp ascending.
func (h *chatHandler) GetMessages(c *gin.Context) {
	selfID := c.GetString(ContextUserID)
	friendID := c.Param("friendId")

	msgs, err := h.service.History(c.Request.Context(), selfID, friendID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": msgs,
	})
}

// GetChatPreviews returns one inbox row per conversation partner. The list
// carries no order; clients sort by lastMessage.timestamp.
func (h *chatHandler) GetChatPreviews(c *gin.Context) {
	selfID := c.GetString(ContextUserID)

	previews, err := h.service.ChatPreviews(c.Request.Context(), selfID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"previews": previews,
	})
}

// writeError maps the error taxonomy onto distinguishable HTTP responses so
// callers can decide between retrying (persistence) and stopping (the rest).
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrPersistence):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperr.ErrDataIntegrity):
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperr.Code(err),
	})
}
