package models

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidationError collects every problem found in a ScheduleInput.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid schedule input: " + strings.Join(e.Problems, "; ")
}

// Validate checks struct tags and the cross-field rules the engine relies on.
// It returns nil or a *ValidationError.
func (in *ScheduleInput) Validate() error {
	var problems []string

	if err := structValidator().Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}
	problems = append(problems, in.Check()...)

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Check applies the rules struct tags cannot express.
func (in *ScheduleInput) Check() []string {
	var problems []string

	seenDays := make(map[Weekday]bool)
	for i, d := range in.Days {
		if seenDays[d.Day] {
			problems = append(problems, fmt.Sprintf("days[%d]: duplicate day %s", i, d.Day))
		}
		seenDays[d.Day] = true

		if (d.BreakStart == nil) != (d.BreakEnd == nil) {
			problems = append(problems, fmt.Sprintf("days[%d]: break needs both start and end", i))
			continue
		}
		if d.BreakStart != nil && *d.BreakStart >= *d.BreakEnd {
			problems = append(problems, fmt.Sprintf("days[%d]: break start %s must be before end %s", i, d.BreakStart, d.BreakEnd))
		}
		if d.HasBreak() && d.Active() && (*d.BreakStart < d.Start || *d.BreakEnd > d.End) {
			problems = append(problems, fmt.Sprintf("days[%d]: break %s-%s lies outside %s-%s", i, d.BreakStart, d.BreakEnd, d.Start, d.End))
		}
	}

	ids := make(map[string]bool)
	for i, s := range in.Subjects {
		if ids["subject:"+s.ID] {
			problems = append(problems, fmt.Sprintf("subjects[%d]: duplicate id %q", i, s.ID))
		}
		ids["subject:"+s.ID] = true
		if s.Fixed {
			problems = append(problems, checkFixed(fmt.Sprintf("subjects[%d]", i), s.FixedStart, s.FixedEnd)...)
		}
	}

	for i, a := range in.Activities {
		if ids["activity:"+a.ID] {
			problems = append(problems, fmt.Sprintf("activities[%d]: duplicate id %q", i, a.ID))
		}
		ids["activity:"+a.ID] = true
		if a.Fixed {
			problems = append(problems, checkFixed(fmt.Sprintf("activities[%d]", i), a.FixedStart, a.FixedEnd)...)
			continue
		}
		if a.Period == "" && a.Type != ActivityFree {
			problems = append(problems, fmt.Sprintf("activities[%d]: flexible activity needs period_affinity", i))
		}
	}

	return problems
}

func checkFixed(field string, start, end *Clock) []string {
	if start == nil || end == nil {
		return []string{field + ": fixed items need fixed_start and fixed_end"}
	}
	if *start == *end {
		return []string{fmt.Sprintf("%s: fixed span %s-%s is empty", field, start, end)}
	}
	return nil
}
