package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/charts"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, charts.ErrUnknownTheme):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrUnauthorized):
		respondError(c, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, domain.ErrNoData):
		respondError(c, http.StatusNotFound, domain.ErrNoData.Error())

	case errors.Is(err, domain.ErrProviderUnavailable):
		log.Warnf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusBadGateway, err.Error())

	default:
		log.Errorf("[HTTP] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// badRequest reports a body that could not be bound.
func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
}
