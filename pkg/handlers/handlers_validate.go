package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

// ValidateInput checks a schedule request without generating it. Overlapping
// fixed obligations are reported but do not make the input invalid.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	problems := []string{}
	if err := input.Validate(); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			problems = append(problems, verr.Problems...)
		} else {
			problems = append(problems, err.Error())
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    len(problems) == 0,
		"problems": problems,
		"overlaps": h.Scheduler.FixedOverlaps(input.Days, input.Subjects, input.Activities),
		"stats": gin.H{
			"active_days":    len(scheduler.ActiveDays(input.Days)),
			"subject_count":  len(input.Subjects),
			"activity_count": len(input.Activities),
		},
	})
}
