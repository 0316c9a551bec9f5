package handlers

import (
	"context"
	"net/http"
	"time"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 30 * time.Second

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Recent(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.chat.Recent(c.Request.Context(), debateID, utils.StringToInt(c.Query("limit"), 0))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}

func (h *ChatHandler) Send(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.ChatInput
	if !utils.ValidateRequestBody(c, &in) {
		return
	}
	m, err := h.chat.Send(c.Request.Context(), debateID, middleware.CurrentUserID(c), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "", m)
}

// Stream relays the debate's live events as server-sent events. The caller
// is announced with JOIN on connect and LEAVE once the connection closes.
func (h *ChatHandler) Stream(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(c)
	ctx := c.Request.Context()

	events, cancel, err := h.chat.Subscribe(ctx, debateID)
	if err != nil {
		RenderError(c, err)
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.SSEvent("connected", gin.H{"debate_id": debateID})
	c.Writer.Flush()

	if err := h.chat.Join(ctx, debateID, userID); err != nil {
		utils.LogErrorWithUser(userID, err, "chat join")
	}
	defer func() {
		// The request context is already done here.
		leaveCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := h.chat.Leave(leaveCtx, debateID, userID); err != nil {
			utils.LogErrorWithUser(userID, err, "chat leave")
		}
	}()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(string(ev.Type), ev)
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{})
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
