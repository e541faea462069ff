package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/amnosapps/condominio-backend/internal/mw"
	"github.com/amnosapps/condominio-backend/internal/occupancy"
	"github.com/amnosapps/condominio-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, clock occupancy.Clock) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, clock)

	// Initialize middleware
	// Rate limit: 10 requests per second with a burst of 5
	rateLimiter := mw.RateLimiter(rate.Limit(10), 5)

	// Cache: 1 minute default expiration, cleaned up every 10 minutes.
	// Dashboard reads tolerate a minute of staleness; the sync loop is
	// slower than that anyway.
	cacheStore := cache.New(1*time.Minute, 10*time.Minute)
	caching := mw.Cache(cacheStore, 1*time.Minute)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/apartments", caching, handler.GetApartments)
		api.GET("/reservations", caching, handler.GetReservations)
		api.GET("/reservations/pending", caching, handler.GetPendingReservations)
		api.GET("/calendar", caching, handler.GetCalendar)
		api.GET("/occupancy", caching, handler.GetOccupancy)
		api.GET("/occupancy/monthly", caching, handler.GetMonthlyOccupancy)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
