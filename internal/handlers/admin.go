package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"debatehub/internal/scheduler"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

// Ticker runs one scheduler pass on demand.
type Ticker interface {
	Tick(ctx context.Context) (scheduler.Result, error)
}

type AdminHandler struct {
	admin  *services.AdminService
	ticker Ticker
}

func NewAdminHandler(admin *services.AdminService, ticker Ticker) *AdminHandler {
	return &AdminHandler{admin: admin, ticker: ticker}
}

// DebateComments lists a debate's thread, hidden comments included.
func (h *AdminHandler) DebateComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := page(c, services.ThreadPageSize)
	result, err := h.admin.DebateComments(c.Request.Context(), id, limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", result)
}

// SearchComments serves GET /api/admin/comments?keyword=&hidden=true|false
func (h *AdminHandler) SearchComments(c *gin.Context) {
	var hidden *bool
	if v := c.Query("hidden"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			utils.SendError(c, http.StatusBadRequest, "Invalid hidden flag")
			return
		}
		hidden = &b
	}
	limit, offset := page(c, services.ThreadPageSize)
	result, err := h.admin.SearchComments(c.Request.Context(), c.Query("keyword"), hidden, limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", result)
}

func (h *AdminHandler) ToggleCommentHidden(c *gin.Context) {
	id, ok := pathID(c, "cid")
	if !ok {
		return
	}
	hidden, err := h.admin.ToggleCommentHidden(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"hidden": hidden})
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "cid")
	if !ok {
		return
	}
	outcome, err := h.admin.DeleteComment(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Comment deleted", gin.H{"outcome": outcome})
}

func (h *AdminHandler) ToggleDebateHidden(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hidden, err := h.admin.ToggleDebateHidden(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"hidden": hidden})
}

// Tick runs a lifecycle pass now. It answers 409 while the periodic
// tick is still running.
func (h *AdminHandler) Tick(c *gin.Context) {
	res, err := h.ticker.Tick(c.Request.Context())
	if errors.Is(err, scheduler.ErrTickInProgress) {
		utils.SendError(c, http.StatusConflict, "Scheduler tick already in progress")
		return
	}
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", res)
}
