package models

// Weekday names a day of the week as supplied by the forms ("Monday" .. "Sunday").
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the days in week order, Monday first.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Index returns 0 for Monday through 6 for Sunday, or -1 for an unknown name.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Period is one of the three canonical day segments.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

// Periods lists the periods in day order.
var Periods = []Period{Morning, Afternoon, Evening}

// ActivityType is the closed set of activity categories.
type ActivityType string

const (
	ActivitySleep             ActivityType = "sleep"
	ActivityWakeRoutine       ActivityType = "wake-routine"
	ActivityExercise          ActivityType = "exercise"
	ActivityPrimaryObligation ActivityType = "primary-obligation"
	ActivityLeisure           ActivityType = "leisure"
	ActivityEveningRoutine    ActivityType = "evening-routine"
	ActivityFree              ActivityType = "free"
	// ActivityBreak is reserved for blocks the engine emits for a day's break.
	ActivityBreak ActivityType = "break"
)

// BlockKind tags what a TimeBlock refers to.
type BlockKind string

const (
	KindSubject  BlockKind = "subject"
	KindActivity BlockKind = "activity"
	KindBreak    BlockKind = "break"
	KindFree     BlockKind = "free"
)

// DayWindow is a day's availability envelope with an optional break
type DayWindow struct {
	Day        Weekday `json:"day" yaml:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Start      Clock   `json:"start" yaml:"start"`
	End        Clock   `json:"end" yaml:"end"`
	BreakStart *Clock  `json:"break_start,omitempty" yaml:"break_start,omitempty"`
	BreakEnd   *Clock  `json:"break_end,omitempty" yaml:"break_end,omitempty"`
}

// Active reports whether the window has any time in it.
func (w DayWindow) Active() bool {
	return w.Start < w.End
}

// HasBreak reports whether a non-empty break is configured.
func (w DayWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil && *w.BreakStart < *w.BreakEnd
}

// Subject is a study subject with a weekly hour target
type Subject struct {
	ID          string  `json:"id" yaml:"id" validate:"required"`
	Name        string  `json:"name" yaml:"name" validate:"required"`
	WeeklyHours float64 `json:"weekly_hours" yaml:"weekly_hours" validate:"gt=0,lte=168"`
	Fixed       bool    `json:"fixed" yaml:"fixed"`
	FixedStart  *Clock  `json:"fixed_start,omitempty" yaml:"fixed_start,omitempty"`
	FixedEnd    *Clock  `json:"fixed_end,omitempty" yaml:"fixed_end,omitempty"`
	Color       string  `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Activity is a daily activity, either pinned to a time or placed by the allocator
type Activity struct {
	ID         string       `json:"id" yaml:"id" validate:"required"`
	Name       string       `json:"name" yaml:"name" validate:"required"`
	Type       ActivityType `json:"type" yaml:"type" validate:"required,oneof=sleep wake-routine exercise primary-obligation leisure evening-routine free"`
	DailyHours float64      `json:"daily_hours" yaml:"daily_hours" validate:"gte=0,lte=24"`
	Period     Period       `json:"period_affinity,omitempty" yaml:"period_affinity,omitempty" validate:"omitempty,oneof=morning afternoon evening"`
	Fixed      bool         `json:"fixed" yaml:"fixed"`
	FixedStart *Clock       `json:"fixed_start,omitempty" yaml:"fixed_start,omitempty"`
	FixedEnd   *Clock       `json:"fixed_end,omitempty" yaml:"fixed_end,omitempty"`
	Priority   int          `json:"priority,omitempty" yaml:"priority,omitempty" validate:"omitempty,min=1,max=10"`
	Color      string       `json:"color,omitempty" yaml:"color,omitempty" validate:"omitempty,hexcolor"`
}

// TimeBlock is one scheduled span in the generated week
type TimeBlock struct {
	ID     string    `json:"id"`
	Day    Weekday   `json:"day"`
	Start  Clock     `json:"start"`
	End    Clock     `json:"end"`
	Kind   BlockKind `json:"kind"`
	RefID  string    `json:"ref_id,omitempty"`
	Label  string    `json:"label"`
	Period Period    `json:"period,omitempty"`
	Fixed  bool      `json:"fixed"`
	Color  string    `json:"color,omitempty"`
}

// Duration returns the block length in minutes.
func (b TimeBlock) Duration() int {
	return int(b.End - b.Start)
}

// WarningCode identifies a non-fatal generation condition.
type WarningCode string

const (
	WarnNoDaysAvailable   WarningCode = "no-days-available"
	WarnPeriodOvercommit  WarningCode = "period-overcommitted"
	WarnCapacityShortfall WarningCode = "weekly-capacity-shortfall"
	WarnStudyShortfall    WarningCode = "study-shortfall"
)

// Warning describes a soft problem found while generating a week.
type Warning struct {
	Code             WarningCode `json:"code"`
	Message          string      `json:"message"`
	Day              Weekday     `json:"day,omitempty"`
	Period           Period      `json:"period,omitempty"`
	DemandMinutes    int         `json:"demand_minutes,omitempty"`
	AvailableMinutes int         `json:"available_minutes,omitempty"`
}

// Overlap reports two fixed obligations that share time on a day.
type Overlap struct {
	Day    Weekday `json:"day"`
	First  string  `json:"first"`
	Second string  `json:"second"`
	Start  Clock   `json:"start"`
	End    Clock   `json:"end"`
}

// Summary aggregates a generated week.
type Summary struct {
	ActiveDays     int               `json:"active_days"`
	BlockCount     int               `json:"block_count"`
	MinutesByKind  map[BlockKind]int `json:"minutes_by_kind"`
	SubjectMinutes map[string]int    `json:"subject_minutes"`
}

// ScheduleInput is the data structure for the scheduling endpoint
type ScheduleInput struct {
	Days       []DayWindow `json:"days" yaml:"days" validate:"dive"`
	Subjects   []Subject   `json:"subjects" yaml:"subjects" validate:"dive"`
	Activities []Activity  `json:"activities" yaml:"activities" validate:"dive"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	GenerationID string      `json:"generation_id"`
	Blocks       []TimeBlock `json:"blocks"`
	Warnings     []Warning   `json:"warnings"`
	Summary      Summary     `json:"summary"`
	Cached       bool        `json:"cached"`
}
