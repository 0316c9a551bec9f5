package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	debates *services.DebateService
}

func NewBookmarkHandler(debates *services.DebateService) *BookmarkHandler {
	return &BookmarkHandler{debates: debates}
}

// Toggle bookmarks or un-bookmarks a debate
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.debates.ToggleBookmark(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"bookmarked": bookmarked})
}

func (h *BookmarkHandler) List(c *gin.Context) {
	limit, offset := page(c, services.DebatePageSize)
	items, err := h.debates.Bookmarks(c.Request.Context(), middleware.CurrentUserID(c), limit, offset)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}
