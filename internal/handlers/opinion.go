package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type OpinionHandler struct {
	opinions *services.OpinionService
}

func NewOpinionHandler(opinions *services.OpinionService) *OpinionHandler {
	return &OpinionHandler{opinions: opinions}
}

func (h *OpinionHandler) List(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, err := h.opinions.List(c.Request.Context(), debateID)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", items)
}

func (h *OpinionHandler) Create(c *gin.Context) {
	debateID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.OpinionInput
	if !utils.ValidateRequestBody(c, &in) {
		return
	}
	o, err := h.opinions.Create(c.Request.Context(), debateID, middleware.CurrentUserID(c), in)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "Opinion submitted", o)
}
