package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"workplace-access-backend/config"
	"workplace-access-backend/internal/auth"
	"workplace-access-backend/internal/booking"
	"workplace-access-backend/internal/checkin"
	"workplace-access-backend/internal/mw"
	"workplace-access-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, scheduler *booking.Scheduler, checkins *checkin.Service, cfg *config.Config, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, scheduler, checkins, cfg.Auth, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Catalog reads only; admission and presence answers must never be
	// served stale.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authRequired := mw.Auth(cfg.Auth.Secret)
	officerOnly := mw.RequireRole(auth.RoleOfficer)
	staffOnly := mw.RequireRole(auth.RoleAdmin, auth.RoleOfficer)
	adminOnly := mw.RequireRole(auth.RoleAdmin)

	api := r.Group("/api/v1")
	api.Use(rateLimiter)
	{
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/officer-login", handler.OfficerLogin)

		api.GET("/bookings/availability", handler.Availability)
		api.GET("/verify-qr/status/:checkin_id", handler.CheckInStatus)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		protected := api.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/bookings", handler.CreateBooking)
			protected.GET("/bookings", handler.ListBookings)
			protected.PUT("/bookings/:id", handler.UpdateBooking)
			protected.DELETE("/bookings/:id", handler.DeleteBooking)

			protected.POST("/checkins", handler.CreateCheckIn)
			protected.GET("/checkins/mine", handler.MyCheckIns)
			protected.POST("/checkins/checkout", officerOnly, handler.Checkout)
			protected.GET("/checkins", staffOnly, handler.ListCheckIns)

			protected.POST("/verify-qr", officerOnly, handler.VerifyQR)

			protected.PUT("/profile", handler.UpdateProfile)

			protected.GET("/buildings", caching, handler.ListBuildings)
			protected.POST("/buildings", adminOnly, handler.CreateBuilding)
			protected.GET("/spaces", caching, handler.ListSpaces)
			protected.POST("/spaces", adminOnly, handler.CreateSpace)

			protected.GET("/subscriptions", staffOnly, handler.GetSubscription)
			protected.PUT("/subscriptions", staffOnly, handler.PutSubscription)
			protected.DELETE("/subscriptions", staffOnly, handler.DeleteSubscription)
		}
	}

	return r
}
