package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

func sampleInput() *models.ScheduleInput {
	return &models.ScheduleInput{
		Days:     []models.DayWindow{{Day: models.Monday, Start: models.MustClock("08:00"), End: models.MustClock("18:00")}},
		Subjects: []models.Subject{{ID: "math", Name: "Math", WeeklyHours: 4}},
	}
}

func TestDigest(t *testing.T) {
	cfg := scheduler.DefaultConfig()

	a := Digest(sampleInput(), cfg)
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest(sampleInput(), cfg))

	changed := sampleInput()
	changed.Subjects[0].WeeklyHours = 5
	assert.NotEqual(t, a, Digest(changed, cfg))

	cfg.SubjectMinBlock = 60
	assert.NotEqual(t, a, Digest(sampleInput(), cfg))
}
