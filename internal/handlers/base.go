package handlers

import (
	"errors"
	"net/http"
	"strings"

	"debatehub/internal/apperr"
	"debatehub/internal/middleware"
	"debatehub/internal/services"
	"debatehub/internal/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// RenderError answers with the status for err. Unclassified errors are
// logged and hidden from the client.
func RenderError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		utils.LogErrorWithUser(middleware.CurrentUserID(c), err, c.Request.Method+" "+c.FullPath())
		utils.SendError(c, code, "Internal server error")
		return
	}
	utils.SendError(c, code, msg(err))
}

func msg(err error) string {
	s := err.Error()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// pathID reads a positive id path parameter, answering 400 when malformed.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		utils.SendError(c, http.StatusBadRequest, "Invalid "+name)
	}
	return id, ok
}

// page reads limit/offset. page/size is accepted as an alternative. The limit
// is clamped to size before a page number becomes an offset, so consecutive
// pages never skip rows.
func page(c *gin.Context, size services.PageSize) (limit, offset int) {
	limit = utils.StringToInt(c.Query("limit"), 0)
	if limit == 0 {
		limit = utils.StringToInt(c.Query("size"), 0)
	}
	limit = size.Limit(limit)
	offset = utils.StringToInt(c.Query("offset"), 0)
	if p := utils.StringToInt(c.Query("page"), 0); p > 1 && offset == 0 {
		offset = (p - 1) * limit
	}
	return limit, offset
}
