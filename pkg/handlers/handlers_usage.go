package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/timetable-api-go/pkg/database"
	appErrors "github.com/arnavshah/timetable-api-go/pkg/errors"
	"github.com/arnavshah/timetable-api-go/pkg/response"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get(ctxAPIKey)
	if !exists {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "API key context missing"))
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	usage, err := database.RecentUsage(h.DB, apiKey.ID, usageHistoryDays)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "could not fetch usage details"))
		return
	}

	var totalRequests, totalDays, totalBlocks, totalWarnings int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalDays += int64(u.TotalDays)
		totalBlocks += int64(u.TotalBlocks)
		totalWarnings += int64(u.TotalWarnings)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests": totalRequests,
			"days":     totalDays,
			"blocks":   totalBlocks,
			"warnings": totalWarnings,
		},
	})
}
