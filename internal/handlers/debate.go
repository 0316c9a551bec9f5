package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/models"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type DebateHandler struct {
	debates *services.DebateService
}

func NewDebateHandler(debates *services.DebateService) *DebateHandler {
	return &DebateHandler{debates: debates}
}

// List serves GET /api/debates?status=&category_id=&keyword=&sort=
func (h *DebateHandler) List(c *gin.Context) {
	limit, offset := page(c, services.DebatePageSize)
	f := models.DebateFilter{
		Status:  models.DebateStatus(c.Query("status")),
		Keyword: c.Query("keyword"),
		Sort:    models.DebateSort(c.Query("sort")),
		Limit:   limit,
		Offset:  offset,
	}
	if id, ok := utils.ParseID(c.Query("category_id")); ok {
		f.CategoryID = id
	}

	result, err := h.debates.List(c.Request.Context(), f)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", result)
}

func (h *DebateHandler) Create(c *gin.Context) {
	var in services.DebateInput
	if !utils.ValidateRequestBody(c, &in) {
		return
	}
	d, err := h.debates.Create(c.Request.Context(), middleware.CurrentUserID(c), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "Debate created", d)
}

func (h *DebateHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.debates.Get(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", d)
}

func (h *DebateHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.DebateInput
	if !utils.ValidateRequestBody(c, &in) {
		return
	}
	d, err := h.debates.Update(c.Request.Context(), middleware.CurrentUserID(c), id, in)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Debate updated", d)
}

func (h *DebateHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.debates.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Debate deleted", nil)
}

func (h *DebateHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, err := h.debates.ToggleLike(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"liked": liked})
}

func (h *DebateHandler) LikeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	liked, err := h.debates.IsLiked(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"liked": liked})
}
