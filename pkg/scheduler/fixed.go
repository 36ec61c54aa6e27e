package scheduler

import (
	"fmt"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// fixedSpans expands a recurring daily slot into same-day spans. An overnight
// slot (start after end) becomes an evening piece up to EndOfDay and a morning
// piece from midnight.
func fixedSpans(start, end models.Clock) []Interval {
	switch {
	case start < end:
		return []Interval{span(start, end)}
	case start > end:
		return []Interval{span(start, models.EndOfDay), span(0, end)}
	default:
		return nil
	}
}

func blockID(day models.Weekday, start int, ref string) string {
	return fmt.Sprintf("%s-%s-%s", day, models.Clock(start), ref)
}

// placeFixed emits the day's fixed activities, fixed subjects and break,
// clipped to the day window. Overlaps between fixed inputs are not checked.
func placeFixed(day models.DayWindow, subjects []models.Subject, activities []models.Activity) []models.TimeBlock {
	window := span(day.Start, day.End)
	var blocks []models.TimeBlock

	emit := func(iv Interval, kind models.BlockKind, ref, label, color string) {
		clipped := iv.Clip(window)
		if clipped.Empty() {
			return
		}
		blocks = append(blocks, models.TimeBlock{
			ID:     blockID(day.Day, clipped.Start, ref),
			Day:    day.Day,
			Start:  models.Clock(clipped.Start),
			End:    models.Clock(clipped.End),
			Kind:   kind,
			RefID:  ref,
			Label:  label,
			Period: periodOf(clipped.Start),
			Fixed:  true,
			Color:  color,
		})
	}

	for _, a := range activities {
		if !a.Fixed || a.FixedStart == nil || a.FixedEnd == nil {
			continue
		}
		for _, iv := range fixedSpans(*a.FixedStart, *a.FixedEnd) {
			emit(iv, models.KindActivity, a.ID, a.Name, a.Color)
		}
	}

	for _, s := range subjects {
		if !s.Fixed || s.FixedStart == nil || s.FixedEnd == nil {
			continue
		}
		for _, iv := range fixedSpans(*s.FixedStart, *s.FixedEnd) {
			emit(iv, models.KindSubject, s.ID, s.Name, s.Color)
		}
	}

	if day.HasBreak() {
		emit(span(*day.BreakStart, *day.BreakEnd), models.KindBreak, string(models.ActivityBreak), "Break", "")
	}

	return blocks
}
