package handlers

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/timetable-api-go/pkg/auth"
	"github.com/arnavshah/timetable-api-go/pkg/cache"
	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/database"
	appErrors "github.com/arnavshah/timetable-api-go/pkg/errors"
	"github.com/arnavshah/timetable-api-go/pkg/metrics"
	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/response"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

//go:embed static/*
var staticEmbed embed.FS

const (
	ctxAPIKey   = "apiKey"
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// ScheduleCache stores generated weeks by input digest. Errors are treated as misses.
type ScheduleCache interface {
	Get(ctx context.Context, digest string) (*models.ScheduleResponse, bool, error)
	Set(ctx context.Context, digest string, resp *models.ScheduleResponse) error
}

// Handler contains dependencies for the route handlers
type Handler struct {
	DB        *gorm.DB
	Auth      *auth.Authenticator
	Scheduler *scheduler.Scheduler
	Cache     ScheduleCache
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	Admin            config.AdminConfig
	DefaultRateLimit int
}

func (h *Handler) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func bearer(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "authorization header required"))
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token"))
			return
		}

		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the HMAC API key, loads its record and enforces
// the key's daily request limit.
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			response.Abort(c, appErrors.Clone(appErrors.ErrInvalidAPIKey, "API key required"))
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrInvalidAPIKey, "invalid API key signature"))
			return
		}

		apiKey, err := h.Auth.LookupAPIKey(h.DB, key, userID, h.DefaultRateLimit)
		if errors.Is(err, auth.ErrKeyRevoked) {
			response.Abort(c, appErrors.Clone(appErrors.ErrInvalidAPIKey, "API key has been revoked"))
			return
		}
		if err != nil {
			h.log().Error("api key lookup failed", zap.String("user_id", userID), zap.Error(err))
			response.Abort(c, err)
			return
		}

		used, err := database.RequestsOn(h.DB, apiKey.ID, database.Today(time.Now()))
		if err != nil {
			h.log().Error("usage lookup failed", zap.Uint("key_id", apiKey.ID), zap.Error(err))
			response.Abort(c, err)
			return
		}
		if apiKey.RateLimit > 0 && used >= apiKey.RateLimit {
			response.Abort(c, appErrors.WithDetails(appErrors.ErrRateLimited, gin.H{"rate_limit": apiKey.RateLimit, "used": used}))
			return
		}

		c.Set(ctxAPIKey, apiKey)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// plan validates input and returns the week, from cache when possible.
func (h *Handler) plan(ctx context.Context, input *models.ScheduleInput) (*models.ScheduleResponse, error) {
	if err := input.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, appErrors.WithDetails(appErrors.ErrValidation, verr.Problems)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	digest := cache.Digest(input, h.Scheduler.Config())

	if h.Cache != nil {
		cached, ok, err := h.Cache.Get(ctx, digest)
		if err != nil {
			h.log().Warn("schedule cache read failed", zap.Error(err))
		}
		h.Metrics.RecordCacheLookup(ok)
		if ok {
			cached.Cached = true
			return cached, nil
		}
	}

	start := time.Now()
	blocks, warnings := h.Scheduler.Generate(input.Days, input.Subjects, input.Activities)
	h.Metrics.ObserveGeneration(len(blocks), warnings, time.Since(start))

	resp := &models.ScheduleResponse{
		GenerationID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(digest)).String(),
		Blocks:       blocks,
		Warnings:     warnings,
		Summary:      scheduler.Summarize(blocks),
	}

	if h.Cache != nil {
		if err := h.Cache.Set(ctx, digest, resp); err != nil {
			h.log().Warn("schedule cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, err.Error()))
		return
	}

	resp, err := h.plan(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.RecordUsage(c, &input, resp)
	c.JSON(http.StatusOK, resp)
}

// RecordUsage adds the request to the calling key's daily usage row. Requests
// without a key in context (tests, internal calls) are not recorded.
func (h *Handler) RecordUsage(c *gin.Context, input *models.ScheduleInput, resp *models.ScheduleResponse) {
	apiKeyRaw, exists := c.Get(ctxAPIKey)
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	err := database.RecordUsage(h.DB, apiKey.ID, database.Today(time.Now()), database.UsageDelta{
		Days:     len(scheduler.ActiveDays(input.Days)),
		Blocks:   len(resp.Blocks),
		Warnings: len(resp.Warnings),
	})
	if err != nil {
		h.log().Error("record usage failed", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

// AdminInterface serves the admin web interface from embedded files
func (h *Handler) AdminInterface(c *gin.Context) {
	if h.DB != nil {
		if _, err := h.Auth.EnsureAdminExists(h.DB, h.Admin); err != nil {
			h.log().Warn("ensure admin failed", zap.Error(err))
		}
	}

	data, err := staticEmbed.ReadFile("static/index.html")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "static/index.html not found in embedded FS"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

// GetStaticFS returns the embedded filesystem for static assets
func (h *Handler) GetStaticFS() http.FileSystem {
	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
