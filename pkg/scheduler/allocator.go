package scheduler

import (
	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// periodAllocator fills one period's free intervals. It owns a working copy
// of the intervals and shrinks them as blocks are handed out.
type periodAllocator struct {
	cfg       Config
	day       models.Weekday
	period    models.Period
	intervals []Interval
	blocks    []models.TimeBlock
}

func newPeriodAllocator(cfg Config, day models.Weekday, period models.Period, free []Interval) *periodAllocator {
	return &periodAllocator{
		cfg:       cfg,
		day:       day,
		period:    period,
		intervals: append([]Interval(nil), free...),
	}
}

// first returns the index of the earliest interval at least minLen long, or -1.
func (pa *periodAllocator) first(minLen int) int {
	for i, iv := range pa.intervals {
		if iv.Len() >= minLen {
			return i
		}
	}
	return -1
}

// take carves n minutes off the front of interval i and records a block.
func (pa *periodAllocator) take(i, n int, kind models.BlockKind, ref, label, color string) {
	iv := &pa.intervals[i]
	start := iv.Start
	iv.Start += n
	if iv.Empty() {
		pa.intervals = append(pa.intervals[:i], pa.intervals[i+1:]...)
	}

	pa.blocks = append(pa.blocks, models.TimeBlock{
		ID:     blockID(pa.day, start, ref),
		Day:    pa.day,
		Start:  models.Clock(start),
		End:    models.Clock(start + n),
		Kind:   kind,
		RefID:  ref,
		Label:  label,
		Period: pa.period,
		Color:  color,
	})
}

// allocateActivities gives each activity up to MaxBlock minutes at a time
// from the earliest interval that can hold ActivityMinBlock. Unmet need is
// left unmet.
func (pa *periodAllocator) allocateActivities(activities []models.Activity) {
	for _, a := range activities {
		need := activityMinutes(a)
		for need > 0 {
			i := pa.first(pa.cfg.ActivityMinBlock)
			if i < 0 {
				break
			}
			n := min(pa.cfg.MaxBlock, pa.intervals[i].Len(), need)
			pa.take(i, n, models.KindActivity, a.ID, a.Name, a.Color)
			need -= n
		}
	}
}

// allocateSubjects round-robins the remaining intervals across subjects, each
// holding an equal share of the period's study demand. Subjects whose share
// is used up are skipped without disturbing the rotation of the others.
func (pa *periodAllocator) allocateSubjects(subjects []models.Subject, studyDemand int) {
	if len(subjects) == 0 || studyDemand <= 0 {
		return
	}

	share := studyDemand / len(subjects)
	remaining := make([]int, len(subjects))
	for i := range remaining {
		remaining[i] = share
	}

	next := 0
	for {
		k := nextWithNeed(remaining, next)
		if k < 0 {
			return
		}
		i := pa.first(pa.cfg.SubjectMinBlock)
		if i < 0 {
			return
		}

		s := subjects[k]
		n := min(pa.cfg.MaxBlock, pa.intervals[i].Len(), remaining[k])
		pa.take(i, n, models.KindSubject, s.ID, s.Name, s.Color)
		remaining[k] -= n
		next = (k + 1) % len(subjects)
	}
}

// nextWithNeed finds the first subject at or after from, in rotation order,
// that still needs time.
func nextWithNeed(remaining []int, from int) int {
	for step := 0; step < len(remaining); step++ {
		k := (from + step) % len(remaining)
		if remaining[k] > 0 {
			return k
		}
	}
	return -1
}

// labelFree turns every remaining interval of at least MinFreeBlock minutes
// into one free block. Without a placeholder the time stays unscheduled.
func (pa *periodAllocator) labelFree(placeholder *models.Activity) {
	if placeholder == nil {
		return
	}
	for _, iv := range pa.intervals {
		if iv.Len() < pa.cfg.MinFreeBlock {
			continue
		}
		pa.blocks = append(pa.blocks, models.TimeBlock{
			ID:     blockID(pa.day, iv.Start, string(models.KindFree)),
			Day:    pa.day,
			Start:  models.Clock(iv.Start),
			End:    models.Clock(iv.End),
			Kind:   models.KindFree,
			RefID:  placeholder.ID,
			Label:  placeholder.Name,
			Period: pa.period,
			Color:  placeholder.Color,
		})
	}
	pa.intervals = nil
}
