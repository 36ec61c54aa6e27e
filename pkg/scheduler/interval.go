package scheduler

import "github.com/arnavshah/timetable-api-go/pkg/models"

// Interval is a half-open minute-of-day span [Start, End).
type Interval struct {
	Start int
	End   int
}

func span(start, end models.Clock) Interval {
	return Interval{Start: int(start), End: int(end)}
}

// Len returns the span length in minutes, zero for degenerate spans.
func (iv Interval) Len() int {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Empty reports whether the span holds no time.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Overlaps checks if two spans share at least one minute
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start < o.End && o.Start < iv.End
}

// Contains checks if o lies entirely inside iv
func (iv Interval) Contains(o Interval) bool {
	return iv.Start <= o.Start && o.End <= iv.End
}

// Clip intersects iv with bounds. The result may be empty.
func (iv Interval) Clip(bounds Interval) Interval {
	return Interval{Start: max(iv.Start, bounds.Start), End: min(iv.End, bounds.End)}
}

// Subtract removes occupied from free. The result is ordered and holds no
// zero-length fragments.
func Subtract(free, occupied Interval) []Interval {
	if free.Empty() {
		return nil
	}
	if occupied.Empty() || !free.Overlaps(occupied) {
		return []Interval{free}
	}

	var out []Interval
	if left := (Interval{Start: free.Start, End: occupied.Start}); !left.Empty() {
		out = append(out, left)
	}
	if right := (Interval{Start: occupied.End, End: free.End}); !right.Empty() {
		out = append(out, right)
	}
	return out
}

// SubtractAll folds Subtract over every occupied span, applying each one to
// all fragments produced so far.
func SubtractAll(free Interval, occupied []Interval) []Interval {
	fragments := Subtract(free, Interval{})
	for _, occ := range occupied {
		next := make([]Interval, 0, len(fragments)+1)
		for _, f := range fragments {
			next = append(next, Subtract(f, occ)...)
		}
		fragments = next
		if len(fragments) == 0 {
			break
		}
	}
	return fragments
}
