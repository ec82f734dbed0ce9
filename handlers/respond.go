package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campus-food-api/apperr"
	"campus-food-api/logger"
)

// parseID reads a numeric path parameter, responding 400 itself on garbage.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// abortWithError maps the error taxonomy onto stable HTTP statuses.
// Internal errors are logged with their cause but surface a generic body.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInvalidRequest:
		status = http.StatusBadRequest
	case apperr.KindInvalidTransition:
		status = http.StatusUnprocessableEntity
	case apperr.KindUpstreamVerification:
		status = http.StatusUnprocessableEntity
	default:
		logger.Log.WithError(err).Error("internal error")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
