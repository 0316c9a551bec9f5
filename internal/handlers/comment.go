package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) List(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, offset := page(c, services.ThreadPageSize)
	result, err := h.comments.ListByDebate(c.Request.Context(), debateID, middleware.CurrentUserID(c), limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", result)
}

func (h *CommentHandler) Create(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !utils.ValidateRequestBody(c, &req) {
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), debateID, middleware.CurrentUserID(c), req.Content, req.ParentID)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "Comment created", comment)
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "cid")
	if !ok {
		return
	}
	var req commentRequest
	if !utils.ValidateRequestBody(c, &req) {
		return
	}
	comment, err := h.comments.Update(c.Request.Context(), id, middleware.CurrentUserID(c), req.Content)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Comment updated", comment)
}

// Delete answers with the applied policy: hard_deleted or soft_deleted.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "cid")
	if !ok {
		return
	}
	outcome, err := h.comments.Delete(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Comment deleted", gin.H{"outcome": outcome})
}

func (h *CommentHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "cid")
	if !ok {
		return
	}
	liked, err := h.comments.ToggleLike(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"liked": liked})
}
