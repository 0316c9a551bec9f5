package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var in services.MessageInput
	if !utils.ValidateRequestBody(c, &in) {
		return
	}
	m, err := h.messages.Send(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "Message sent", m)
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	limit, offset := page(c, services.ThreadPageSize)
	items, err := h.messages.Inbox(c.Request.Context(), middleware.CurrentUserID(c), limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}

func (h *MessageHandler) Sent(c *gin.Context) {
	limit, offset := page(c, services.ThreadPageSize)
	items, err := h.messages.Sent(c.Request.Context(), middleware.CurrentUserID(c), limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}

func (h *MessageHandler) Read(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.messages.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", nil)
}
