package handlers

import (
	"net/http"

	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users   *services.UserService
	ranking *services.RankingService
}

func NewUserHandler(users *services.UserService, ranking *services.RankingService) *UserHandler {
	return &UserHandler{users: users, ranking: ranking}
}

func (h *UserHandler) Me(c *gin.Context) {
	utils.SendSuccess(c, http.StatusOK, "", middleware.CurrentUser(c))
}

// Profile - /api/users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.users.Profile(c.Request.Context(), id)
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", p)
}

// Ranking serves GET /api/rankings?period=daily|monthly|yearly|all&criterion=likes|votes|comments&limit=
func (h *UserHandler) Ranking(c *gin.Context) {
	period := services.ParsePeriod(c.Query("period"))
	criterion := services.ParseCriterion(c.Query("criterion"))
	rows, err := h.ranking.Rank(c.Request.Context(), period, criterion, utils.StringToInt(c.Query("limit"), 0))
	if err != nil {
		RenderError(c, err)
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{
		"period":    period,
		"criterion": criterion,
		"items":     rows,
	})
}
