package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/timetable-api-go/pkg/auth"
	"github.com/arnavshah/timetable-api-go/pkg/database"
	appErrors "github.com/arnavshah/timetable-api-go/pkg/errors"
	"github.com/arnavshah/timetable-api-go/pkg/response"
)

const usageHistoryDays = 30

// Login handles admin login
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, err.Error()))
		return
	}

	var user database.MasterUser
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		response.Error(c, appErrors.ErrInvalidCredentials)
		return
	}

	token, err := h.Auth.CreateToken(user.Username)
	if err != nil {
		h.log().Error("create token failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GenerateKey creates a new API key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		RateLimit int    `json:"rate_limit" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "name is required"))
		return
	}

	if req.RateLimit == 0 {
		req.RateLimit = h.DefaultRateLimit
	}

	key := h.Auth.GenerateHMACKey(req.Name)
	apiKey := database.APIKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: auth.KeyPreview(key),
		RateLimit:  req.RateLimit,
	}

	if err := h.DB.Create(&apiKey).Error; err != nil {
		response.Error(c, appErrors.Wrap(err, "CONFLICT", http.StatusConflict, "could not create key record"))
		return
	}

	h.log().Info("api key created", zap.String("name", req.Name), zap.String("by", c.GetString(ctxUsername)))
	response.Created(c, gin.H{
		"id":         apiKey.ID,
		"name":       req.Name,
		"key":        key,
		"rate_limit": apiKey.RateLimit,
	})
}

// ListKeys returns all API keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.APIKey
	if err := h.DB.Order("id").Find(&keys).Error; err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"keys": keys})
}

func keyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid key id"))
		return 0, false
	}
	return uint(id), true
}

// RevokeKey soft-deletes an API key. The row stays so the key cannot be
// registered again by presenting its signature.
func (h *Handler) RevokeKey(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	res := h.DB.Delete(&database.APIKey{}, id)
	if res.Error != nil {
		response.Error(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "key not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Key revoked"})
}

// UpdateKeyLimit updates the rate limit for a key
func (h *Handler) UpdateKeyLimit(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	var req struct {
		RateLimit int `json:"rate_limit" form:"rate_limit"`
	}

	// Try JSON first, then Form/Query
	if err := c.ShouldBindJSON(&req); err != nil {
		if err := c.ShouldBindQuery(&req); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "rate_limit is required"))
			return
		}
	}

	if req.RateLimit <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "invalid rate limit"))
		return
	}

	res := h.DB.Model(&database.APIKey{}).Where("id = ?", id).Update("rate_limit", req.RateLimit)
	if res.Error != nil {
		response.Error(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "key not found"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Rate limit updated successfully"})
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, ok := keyID(c)
	if !ok {
		return
	}
	var key database.APIKey
	if err := h.DB.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = appErrors.Clone(appErrors.ErrNotFound, "key not found")
		}
		response.Error(c, err)
		return
	}

	usage, err := database.RecentUsage(h.DB, id, usageHistoryDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"usage": usage})
}
