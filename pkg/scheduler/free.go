package scheduler

import (
	"sort"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// Period boundaries in minutes of the day.
const (
	MorningEnd   = 12 * 60
	AfternoonEnd = 16 * 60
)

func periodOf(minute int) models.Period {
	switch {
	case minute < MorningEnd:
		return models.Morning
	case minute < AfternoonEnd:
		return models.Afternoon
	default:
		return models.Evening
	}
}

// periodWindows clips the three canonical periods to the day window.
func periodWindows(day models.DayWindow) map[models.Period]Interval {
	start, end := int(day.Start), int(day.End)
	windows := make(map[models.Period]Interval, len(models.Periods))

	if start < MorningEnd {
		windows[models.Morning] = Interval{Start: start, End: min(end, MorningEnd)}
	}
	if start < AfternoonEnd && end > MorningEnd {
		windows[models.Afternoon] = Interval{Start: max(start, MorningEnd), End: min(end, AfternoonEnd)}
	}
	if end > AfternoonEnd {
		windows[models.Evening] = Interval{Start: max(start, AfternoonEnd), End: end}
	}

	for p, w := range windows {
		if w.Empty() {
			delete(windows, p)
		}
	}
	return windows
}

// freeIntervals subtracts every placed block from each period window. The
// lists are ordered by start; periods with nothing left have no entry.
func freeIntervals(day models.DayWindow, placed []models.TimeBlock) map[models.Period][]Interval {
	occupied := make([]Interval, 0, len(placed))
	for _, b := range placed {
		occupied = append(occupied, span(b.Start, b.End))
	}

	free := make(map[models.Period][]Interval, len(models.Periods))
	for p, window := range periodWindows(day) {
		fragments := SubtractAll(window, occupied)
		if len(fragments) == 0 {
			continue
		}
		sort.Slice(fragments, func(i, j int) bool { return fragments[i].Start < fragments[j].Start })
		free[p] = fragments
	}
	return free
}

func totalMinutes(ivs []Interval) int {
	total := 0
	for _, iv := range ivs {
		total += iv.Len()
	}
	return total
}
