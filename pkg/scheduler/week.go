package scheduler

import (
	"sort"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// ActiveDays drops windows with start >= end or an unknown day name, keeps
// the first window of each day and orders the rest Monday to Sunday.
func ActiveDays(days []models.DayWindow) []models.DayWindow {
	seen := make(map[models.Weekday]bool, len(days))
	active := make([]models.DayWindow, 0, len(days))
	for _, d := range days {
		if !d.Active() || d.Day.Index() < 0 || seen[d.Day] {
			continue
		}
		seen[d.Day] = true
		active = append(active, d)
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Day.Index() < active[j].Day.Index()
	})
	return active
}

// SortBlocks orders blocks by day index then start time. Equal keys keep
// their emission order.
func SortBlocks(blocks []models.TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		di, dj := blocks[i].Day.Index(), blocks[j].Day.Index()
		if di != dj {
			return di < dj
		}
		return blocks[i].Start < blocks[j].Start
	})
}

// Summarize totals a generated week by block kind and by subject.
func Summarize(blocks []models.TimeBlock) models.Summary {
	summary := models.Summary{
		BlockCount:     len(blocks),
		MinutesByKind:  make(map[models.BlockKind]int),
		SubjectMinutes: make(map[string]int),
	}
	days := make(map[models.Weekday]bool)
	for _, b := range blocks {
		days[b.Day] = true
		summary.MinutesByKind[b.Kind] += b.Duration()
		if b.Kind == models.KindSubject {
			summary.SubjectMinutes[b.RefID] += b.Duration()
		}
	}
	summary.ActiveDays = len(days)
	return summary
}
