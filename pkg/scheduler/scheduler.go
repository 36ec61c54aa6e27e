package scheduler

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// Config holds the allocator's block-size thresholds, in minutes.
type Config struct {
	// ActivityMinBlock is the shortest free interval a flexible activity may start in.
	ActivityMinBlock int
	// SubjectMinBlock is the shortest free interval a subject block may start in.
	SubjectMinBlock int
	// MaxBlock caps a single flexible allocation.
	MaxBlock int
	// MinFreeBlock is the shortest leftover span labelled as free time.
	MinFreeBlock int
}

// DefaultConfig returns the thresholds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ActivityMinBlock: 30,
		SubjectMinBlock:  30,
		MaxBlock:         60,
		MinFreeBlock:     15,
	}
}

// ConfigFrom maps loaded settings onto engine thresholds.
func ConfigFrom(c config.SchedulerConfig) Config {
	return Config{
		ActivityMinBlock: c.ActivityMinBlock,
		SubjectMinBlock:  c.SubjectMinBlock,
		MaxBlock:         c.MaxBlock,
		MinFreeBlock:     c.MinFreeBlock,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ActivityMinBlock <= 0 {
		c.ActivityMinBlock = def.ActivityMinBlock
	}
	if c.SubjectMinBlock <= 0 {
		c.SubjectMinBlock = def.SubjectMinBlock
	}
	if c.MaxBlock <= 0 {
		c.MaxBlock = def.MaxBlock
	}
	if c.MinFreeBlock <= 0 {
		c.MinFreeBlock = def.MinFreeBlock
	}
	return c
}

// Scheduler turns day windows, subjects and activities into a week of blocks.
// It keeps no state between calls.
type Scheduler struct {
	cfg    Config
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Config returns the effective thresholds.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Generate computes the week. It never fails: problems are reported as
// warnings next to whatever could be placed.
func (s *Scheduler) Generate(days []models.DayWindow, subjects []models.Subject, activities []models.Activity) ([]models.TimeBlock, []models.Warning) {
	active := ActiveDays(days)
	if len(active) == 0 {
		return []models.TimeBlock{}, []models.Warning{{
			Code:    models.WarnNoDaysAvailable,
			Message: "no day has a valid time window; set start before end for at least one day",
		}}
	}

	warnings := make([]models.Warning, 0)
	if w := capacityWarning(active, subjects); w != nil {
		warnings = append(warnings, *w)
	}

	plan := partition(subjects, activities)
	blocks := make([]models.TimeBlock, 0)
	for _, day := range active {
		dayBlocks, dayWarnings := s.generateDay(day, plan)
		blocks = append(blocks, dayBlocks...)
		warnings = append(warnings, dayWarnings...)
	}

	SortBlocks(blocks)

	if w := s.studyShortfall(blocks, plan.flexibleSubjects); w != nil {
		warnings = append(warnings, *w)
	}

	s.logger.Debug("week generated",
		zap.Int("days", len(active)),
		zap.Int("blocks", len(blocks)),
		zap.Int("warnings", len(warnings)),
	)
	return blocks, warnings
}

// obligations splits the inputs once per run
type obligations struct {
	subjects         []models.Subject
	activities       []models.Activity
	flexibleSubjects []models.Subject
	byPeriod         map[models.Period][]models.Activity
	flexible         []models.Activity
	freePlaceholder  *models.Activity
}

func partition(subjects []models.Subject, activities []models.Activity) obligations {
	o := obligations{
		subjects:   subjects,
		activities: activities,
		byPeriod:   make(map[models.Period][]models.Activity, len(models.Periods)),
	}
	for _, s := range subjects {
		if !s.Fixed {
			o.flexibleSubjects = append(o.flexibleSubjects, s)
		}
	}
	for i, a := range activities {
		if a.Fixed {
			continue
		}
		if a.Type == models.ActivityFree {
			if o.freePlaceholder == nil {
				o.freePlaceholder = &activities[i]
			}
			continue
		}
		if a.Period == "" {
			continue
		}
		o.byPeriod[a.Period] = append(o.byPeriod[a.Period], a)
		o.flexible = append(o.flexible, a)
	}
	return o
}

func (s *Scheduler) generateDay(day models.DayWindow, plan obligations) ([]models.TimeBlock, []models.Warning) {
	blocks := placeFixed(day, plan.subjects, plan.activities)
	free := freeIntervals(day, blocks)
	demand := computeDemand(free, plan.flexible, plan.flexibleSubjects)

	var warnings []models.Warning
	for _, p := range models.Periods {
		if !demand.overcommitted(p) {
			continue
		}
		want := demand.activity[p] + demand.study[p]
		warnings = append(warnings, models.Warning{
			Code:             models.WarnPeriodOvercommit,
			Message:          fmt.Sprintf("%s %s needs %d minutes but only %d are free", day.Day, p, want, demand.free[p]),
			Day:              day.Day,
			Period:           p,
			DemandMinutes:    want,
			AvailableMinutes: demand.free[p],
		})
		s.logger.Debug("period overcommitted",
			zap.String("day", string(day.Day)),
			zap.String("period", string(p)),
			zap.Int("demand", want),
			zap.Int("free", demand.free[p]),
		)
	}

	for _, p := range models.Periods {
		pa := newPeriodAllocator(s.cfg, day.Day, p, free[p])
		pa.allocateActivities(plan.byPeriod[p])
		pa.allocateSubjects(plan.flexibleSubjects, demand.study[p])
		pa.labelFree(plan.freePlaceholder)
		blocks = append(blocks, pa.blocks...)
	}

	return blocks, warnings
}

// capacityWarning compares the subjects' weekly hours with the hours the
// active days offer outside their breaks.
func capacityWarning(active []models.DayWindow, subjects []models.Subject) *models.Warning {
	needed := 0.0
	for _, s := range subjects {
		needed += s.WeeklyHours
	}
	available := 0
	for _, d := range active {
		window := span(d.Start, d.End)
		available += window.Len()
		if d.HasBreak() {
			available -= span(*d.BreakStart, *d.BreakEnd).Clip(window).Len()
		}
	}
	if float64(available)/60 >= needed {
		return nil
	}
	return &models.Warning{
		Code:             models.WarnCapacityShortfall,
		Message:          fmt.Sprintf("subjects require %.1f hours but only %.1f hours are available this week", needed, float64(available)/60),
		DemandMinutes:    int(math.Round(needed * 60)),
		AvailableMinutes: available,
	}
}

// studyShortfall reports flexible study time the week could not place, once
// the gap reaches the smallest subject block.
func (s *Scheduler) studyShortfall(blocks []models.TimeBlock, flexible []models.Subject) *models.Warning {
	if len(flexible) == 0 {
		return nil
	}
	target := 0.0
	ids := make(map[string]bool, len(flexible))
	for _, subj := range flexible {
		target += subj.WeeklyHours * 60
		ids[subj.ID] = true
	}
	placed := 0
	for _, b := range blocks {
		if b.Kind == models.KindSubject && !b.Fixed && ids[b.RefID] {
			placed += b.Duration()
		}
	}
	missing := int(math.Round(target)) - placed
	if missing < s.cfg.SubjectMinBlock {
		return nil
	}
	return &models.Warning{
		Code:             models.WarnStudyShortfall,
		Message:          fmt.Sprintf("could not allocate %.1f study hours; consider adding more available time", float64(missing)/60),
		DemandMinutes:    int(math.Round(target)),
		AvailableMinutes: placed,
	}
}

// FixedOverlaps lists, per active day, pairs of fixed blocks (including the
// break) that share time. Generate does not act on these.
func (s *Scheduler) FixedOverlaps(days []models.DayWindow, subjects []models.Subject, activities []models.Activity) []models.Overlap {
	overlaps := make([]models.Overlap, 0)
	for _, day := range ActiveDays(days) {
		placed := placeFixed(day, subjects, activities)
		for i := 0; i < len(placed); i++ {
			for j := i + 1; j < len(placed); j++ {
				a, b := span(placed[i].Start, placed[i].End), span(placed[j].Start, placed[j].End)
				if !a.Overlaps(b) {
					continue
				}
				shared := a.Clip(b)
				overlaps = append(overlaps, models.Overlap{
					Day:    day.Day,
					First:  placed[i].Label,
					Second: placed[j].Label,
					Start:  models.Clock(shared.Start),
					End:    models.Clock(shared.End),
				})
			}
		}
	}
	return overlaps
}
