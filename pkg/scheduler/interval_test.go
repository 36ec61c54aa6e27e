package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtract(t *testing.T) {
	free := Interval{Start: 480, End: 720}

	tests := []struct {
		name     string
		occupied Interval
		want     []Interval
	}{
		{"no overlap", Interval{Start: 720, End: 800}, []Interval{free}},
		{"full coverage", Interval{Start: 400, End: 800}, nil},
		{"exact coverage", free, nil},
		{"strictly inside", Interval{Start: 540, End: 600}, []Interval{{480, 540}, {600, 720}}},
		{"overlaps start", Interval{Start: 420, End: 500}, []Interval{{500, 720}}},
		{"overlaps end", Interval{Start: 700, End: 800}, []Interval{{480, 700}}},
		{"empty occupied", Interval{Start: 500, End: 500}, []Interval{free}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(free, tt.occupied))
		})
	}
}

func TestSubtractAll_FoldsOverFragments(t *testing.T) {
	got := SubtractAll(Interval{Start: 360, End: 720}, []Interval{
		{Start: 480, End: 540},
		{Start: 600, End: 630},
		{Start: 350, End: 400},
	})

	assert.Equal(t, []Interval{{400, 480}, {540, 600}, {630, 720}}, got)
}

func TestSubtractAll_DropsZeroLength(t *testing.T) {
	got := SubtractAll(Interval{Start: 360, End: 420}, []Interval{
		{Start: 360, End: 390},
		{Start: 390, End: 420},
	})

	assert.Empty(t, got)
}

func TestIntervalPredicates(t *testing.T) {
	a := Interval{Start: 60, End: 120}

	assert.True(t, a.Overlaps(Interval{Start: 119, End: 130}))
	assert.False(t, a.Overlaps(Interval{Start: 120, End: 130}), "touching spans do not overlap")
	assert.True(t, a.Contains(Interval{Start: 60, End: 90}))
	assert.False(t, a.Contains(Interval{Start: 50, End: 90}))
	assert.Equal(t, Interval{Start: 90, End: 120}, a.Clip(Interval{Start: 90, End: 200}))
	assert.True(t, a.Clip(Interval{Start: 200, End: 300}).Empty())
	assert.Equal(t, 0, Interval{Start: 10, End: 5}.Len())
}
