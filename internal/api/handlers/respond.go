package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"example.com/ferramentas/internal/repository"
	"example.com/ferramentas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps domain errors onto the legacy response envelope:
// 400 for validation failures, 404 via the not-found helpers, 409 when
// a checkout finds no free units, 500 for backend failures.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrToolUnavailable):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, repository.ErrTotalBelowLoaned):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}

// respondNotFound sends the 404 envelope with a message
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": message})
}

// respondBadRequest sends the 400 envelope with a message
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// parseID parses the :id route parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "id inválido")
		return 0, false
	}
	return uint(id), true
}
