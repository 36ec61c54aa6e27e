package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MinutesPerDay is the length of the minute-of-day range.
const MinutesPerDay = 24 * 60

// EndOfDay is the closing boundary used for overnight spans ("23:59").
const EndOfDay Clock = MinutesPerDay - 1

// Clock is a minute-of-day in [0, 1440). Its textual form is zero-padded "HH:MM".
type Clock int

// ParseClock converts "HH:MM" (or "H:MM") into a Clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h*60 + m), nil
}

// MustClock is ParseClock for literals; it panics on malformed input.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockPtr returns a pointer to the parsed literal.
func ClockPtr(s string) *Clock {
	c := MustClock(s)
	return &c
}

// String renders the clock as zero-padded "HH:MM". Values outside the day are clamped.
func (c Clock) String() string {
	m := int(c)
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Minutes returns the raw minute-of-day value.
func (c Clock) Minutes() int { return int(c) }

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a \"HH:MM\" string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

func (c *Clock) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: time must be a \"HH:MM\" string: %w", node.Line, err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}
