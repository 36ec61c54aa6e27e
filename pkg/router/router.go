package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/timetable-api-go/pkg/auth"
	"github.com/arnavshah/timetable-api-go/pkg/cache"
	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/database"
	"github.com/arnavshah/timetable-api-go/pkg/handlers"
	"github.com/arnavshah/timetable-api-go/pkg/logger"
	"github.com/arnavshah/timetable-api-go/pkg/metrics"
	"github.com/arnavshah/timetable-api-go/pkg/middleware/requestid"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

// Version is reported by the banner route.
const Version = "1.0.0"

// New wires every route onto a fresh engine.
func New(h *handlers.Handler, banner string) *gin.Engine {
	log := h.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(requestid.Middleware(), logger.GinMiddleware(log), gin.Recovery())
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware())
	}

	r.StaticFS("/static", h.GetStaticFS())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": banner,
			"version": Version,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule", h.ScheduleJSON)
		api.POST("/schedule/csv", h.ScheduleCSV)
		api.POST("/schedule/export", h.ScheduleExport)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}

	// Legacy routes
	r.POST("/schedule/json", h.APIKeyMiddleware(), h.ScheduleJSON)
	r.POST("/schedule/csv", h.APIKeyMiddleware(), h.ScheduleCSV)

	return r
}

// Build opens the database, bootstraps the admin user, connects the optional
// cache and returns the handler set. A cache that cannot be reached is
// logged and skipped.
func Build(cfg *config.Config, log *zap.Logger) (*handlers.Handler, error) {
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	authenticator := auth.New(cfg.Auth)
	created, err := authenticator.EnsureAdminExists(db, cfg.Admin)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("default admin user created", zap.String("username", cfg.Admin.Username))
	}

	h := &handlers.Handler{
		DB:               db,
		Auth:             authenticator,
		Scheduler:        scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log.Named("scheduler")),
		Metrics:          metrics.New(),
		Logger:           log,
		Admin:            cfg.Admin,
		DefaultRateLimit: cfg.DefaultRateLimit,
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Warn("schedule cache disabled", zap.Error(err))
		} else {
			h.Cache = cache.NewScheduleCache(client, cfg.Redis.TTL)
		}
	}

	return h, nil
}
