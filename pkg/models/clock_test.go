package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:30", want: 510},
		{in: "8:30", want: 510},
		{in: " 23:59 ", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0).String())
	assert.Equal(t, "07:05", Clock(425).String())
	assert.Equal(t, "23:59", EndOfDay.String())
	assert.Equal(t, "24:00", Clock(MinutesPerDay).String())
	assert.Equal(t, "00:00", Clock(-5).String())
}

func TestClockJSON(t *testing.T) {
	var w DayWindow
	require.NoError(t, json.Unmarshal([]byte(`{"day":"Monday","start":"07:30","end":"21:00","break_start":"12:00","break_end":"12:45"}`), &w))

	assert.Equal(t, Clock(450), w.Start)
	require.NotNil(t, w.BreakEnd)
	assert.Equal(t, Clock(765), *w.BreakEnd)

	out, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"Monday","start":"07:30","end":"21:00","break_start":"12:00","break_end":"12:45"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":450}`), &w))
	assert.Error(t, json.Unmarshal([]byte(`{"start":"7.30"}`), &w))
}

func TestClockYAML(t *testing.T) {
	var a Activity
	src := "id: sleep\nname: Sleep\ntype: sleep\nfixed: true\nfixed_start: \"22:00\"\nfixed_end: \"06:00\"\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &a))

	require.NotNil(t, a.FixedStart)
	assert.Equal(t, "22:00", a.FixedStart.String())
	assert.Equal(t, Clock(360), *a.FixedEnd)

	err := yaml.Unmarshal([]byte("fixed_start: \"25:00\"\n"), &a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
