package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/arnavshah/timetable-api-go/pkg/errors"
	"github.com/arnavshah/timetable-api-go/pkg/export"
	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/response"
)

// ScheduleExport generates the week and returns it as a csv or pdf attachment.
func (h *Handler) ScheduleExport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "format must be csv or pdf"))
		return
	}

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

	data := export.WeekDataset(resp.Blocks)
	var (
		body        []byte
		contentType string
	)
	switch format {
	case "pdf":
		body, err = export.NewPDFExporter().Render(data, "Weekly timetable", resp.Warnings)
		contentType = "application/pdf"
	default:
		body, err = export.NewCSVExporter().Render(data)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="timetable-%s.%s"`, resp.GenerationID[:8], format))
	c.Header("X-Generation-ID", resp.GenerationID)
	c.Data(http.StatusOK, contentType, body)
}
