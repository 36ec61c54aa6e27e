package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

type blockSpan struct {
	start, end string
	ref        string
}

func spans(blocks []models.TimeBlock) []blockSpan {
	out := make([]blockSpan, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, blockSpan{b.Start.String(), b.End.String(), b.RefID})
	}
	return out
}

func TestAllocateActivities_SplitsIntoMaxBlocks(t *testing.T) {
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Morning, []Interval{{360, 720}})

	pa.allocateActivities([]models.Activity{{ID: "run", Name: "Run", DailyHours: 1.5, Period: models.Morning}})

	assert.Equal(t, []blockSpan{{"06:00", "07:00", "run"}, {"07:00", "07:30", "run"}}, spans(pa.blocks))
	assert.Equal(t, []Interval{{450, 720}}, pa.intervals)
}

func TestAllocateActivities_SkipsShortIntervals(t *testing.T) {
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Morning, []Interval{{480, 500}, {540, 720}})

	pa.allocateActivities([]models.Activity{{ID: "gym", Name: "Gym", DailyHours: 1, Period: models.Morning}})

	require.Len(t, pa.blocks, 1)
	assert.Equal(t, "09:00", pa.blocks[0].Start.String())
	assert.Equal(t, []Interval{{480, 500}, {600, 720}}, pa.intervals)
}

func TestAllocateActivities_TakesWholeShortInterval(t *testing.T) {
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Evening, []Interval{{960, 1000}, {1100, 1200}})

	pa.allocateActivities([]models.Activity{{ID: "read", Name: "Read", DailyHours: 1, Period: models.Evening}})

	assert.Equal(t, []blockSpan{{"16:00", "16:40", "read"}, {"18:20", "18:40", "read"}}, spans(pa.blocks))
}

func TestAllocateSubjects_RoundRobin(t *testing.T) {
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Morning, []Interval{{480, 720}})
	subjects := []models.Subject{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}

	pa.allocateSubjects(subjects, 180)

	assert.Equal(t, []blockSpan{
		{"08:00", "09:00", "a"},
		{"09:00", "10:00", "b"},
		{"10:00", "10:30", "a"},
		{"10:30", "11:00", "b"},
	}, spans(pa.blocks))
	assert.Equal(t, []Interval{{660, 720}}, pa.intervals)
}

func TestAllocateSubjects_RespectsThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SubjectMinBlock = 60
	pa := newPeriodAllocator(cfg, models.Monday, models.Afternoon, []Interval{{720, 765}, {800, 900}})

	pa.allocateSubjects([]models.Subject{{ID: "a", Name: "A"}}, 120)

	assert.Equal(t, []blockSpan{{"13:20", "14:20", "a"}}, spans(pa.blocks))
	assert.Equal(t, []Interval{{720, 765}, {860, 900}}, pa.intervals)
}

func TestAllocateSubjects_NothingBelowThreshold(t *testing.T) {
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Morning, []Interval{{580, 600}})

	pa.allocateSubjects([]models.Subject{{ID: "a", Name: "A"}}, 40)

	assert.Empty(t, pa.blocks)
}

func TestNextWithNeed(t *testing.T) {
	assert.Equal(t, 2, nextWithNeed([]int{0, 0, 30}, 0))
	assert.Equal(t, 0, nextWithNeed([]int{30, 0, 0}, 1))
	assert.Equal(t, 1, nextWithNeed([]int{30, 30, 0}, 1))
	assert.Equal(t, -1, nextWithNeed([]int{0, 0}, 1))
}

func TestLabelFree(t *testing.T) {
	placeholder := &models.Activity{ID: "free", Name: "Free time", Type: models.ActivityFree, Color: "#cccccc"}

	t.Run("labels intervals of at least the minimum", func(t *testing.T) {
		pa := newPeriodAllocator(DefaultConfig(), models.Sunday, models.Evening, []Interval{{960, 970}, {1000, 1015}})
		pa.labelFree(placeholder)

		require.Len(t, pa.blocks, 1)
		b := pa.blocks[0]
		assert.Equal(t, models.KindFree, b.Kind)
		assert.Equal(t, "Sunday-16:40-free", b.ID)
		assert.Equal(t, "Free time", b.Label)
		assert.Equal(t, 15, b.Duration())
		assert.Empty(t, pa.intervals)
	})

	t.Run("no placeholder leaves time unscheduled", func(t *testing.T) {
		pa := newPeriodAllocator(DefaultConfig(), models.Sunday, models.Evening, []Interval{{960, 1200}})
		pa.labelFree(nil)

		assert.Empty(t, pa.blocks)
	})
}

func TestNewPeriodAllocator_CopiesIntervals(t *testing.T) {
	free := []Interval{{480, 720}}
	pa := newPeriodAllocator(DefaultConfig(), models.Monday, models.Morning, free)

	pa.take(0, 60, models.KindSubject, "a", "A", "")

	assert.Equal(t, Interval{480, 720}, free[0])
}
