package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"meeting-reservation-backend/config"
	"meeting-reservation-backend/internal/capacity"
	"meeting-reservation-backend/internal/mw"
	"meeting-reservation-backend/internal/notification"
	"meeting-reservation-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, resolver *capacity.Resolver, evaluator *capacity.Evaluator, pool *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, resolver, evaluator, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// The month-status aggregate is the only cached endpoint; availability
	// must stay fresh for the intake re-check to mean anything.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/availability", handler.GetAvailability)
		api.GET("/status", caching, handler.GetMonthStatus)
		api.POST("/apply", handler.PostApply)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		// Settings are readable without auth; the client needs them to
		// render the calendar before anyone logs in.
		api.GET("/admin/settings", handler.GetSettings)

		admin := api.Group("/admin")
		admin.Use(mw.AdminAuth(cfg.Admin.Token))
		{
			admin.GET("/applications", handler.ListApplications)
			admin.PATCH("/applications", handler.UpdateApplication)
			admin.DELETE("/applications", handler.DeleteApplication)
			admin.POST("/settings", handler.UpsertSetting)
			admin.DELETE("/settings", handler.DeleteSetting)
			admin.PUT("/subscriptions", handler.PutSubscription)
			admin.DELETE("/subscriptions", handler.DeleteSubscription)
		}
	}

	return r
}
