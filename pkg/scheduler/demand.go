package scheduler

import (
	"math"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// dayDemand is the per-period minute demand for one day
type dayDemand struct {
	free     map[models.Period]int
	activity map[models.Period]int
	study    map[models.Period]int
}

func (d dayDemand) overcommitted(p models.Period) bool {
	return d.activity[p]+d.study[p] > d.free[p]
}

func activityMinutes(a models.Activity) int {
	return int(math.Round(a.DailyHours * 60))
}

// dailyStudyMinutes is the per-day share of every flexible subject's weekly
// hours. The fractional total is rounded once, not per subject.
func dailyStudyMinutes(subjects []models.Subject) int {
	total := 0.0
	for _, s := range subjects {
		if s.Fixed {
			continue
		}
		total += s.WeeklyHours * 60 / 7
	}
	return int(math.Round(total))
}

// splitStudy gives morning and afternoon floor(total/3) each and evening
// the remainder.
func splitStudy(total int) map[models.Period]int {
	perPeriod := total / 3
	return map[models.Period]int{
		models.Morning:   perPeriod,
		models.Afternoon: perPeriod,
		models.Evening:   total - 2*perPeriod,
	}
}

func computeDemand(free map[models.Period][]Interval, flexible []models.Activity, subjects []models.Subject) dayDemand {
	d := dayDemand{
		free:     make(map[models.Period]int, len(models.Periods)),
		activity: make(map[models.Period]int, len(models.Periods)),
		study:    splitStudy(dailyStudyMinutes(subjects)),
	}
	for p, ivs := range free {
		d.free[p] = totalMinutes(ivs)
	}
	for _, a := range flexible {
		d.activity[a.Period] += activityMinutes(a)
	}
	return d
}
