package api

import (
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"workplace-access-backend/config"
	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/booking"
	"workplace-access-backend/internal/checkin"
	"workplace-access-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	scheduler *booking.Scheduler
	checkins  *checkin.Service
	authCfg   config.AuthConfig
	webpush   *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, scheduler *booking.Scheduler, checkins *checkin.Service, authCfg config.AuthConfig, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:     s,
		scheduler: scheduler,
		checkins:  checkins,
		authCfg:   authCfg,
		webpush:   webpushOptions,
	}
}

// respondError maps a service error to its fixed HTTP status. Errors
// outside the taxonomy are store failures: logged, and masked behind 503.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		log.Printf("store failure on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		msg = "service unavailable"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
