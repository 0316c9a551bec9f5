package handlers

import (
	"net/http"

	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	debates *services.DebateService
}

func NewCategoryHandler(debates *services.DebateService) *CategoryHandler {
	return &CategoryHandler{debates: debates}
}

// List returns every category. The list is served from the local cache.
func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.debates.Categories(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}
