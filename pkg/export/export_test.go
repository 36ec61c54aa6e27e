package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

func sampleBlocks() []models.TimeBlock {
	return []models.TimeBlock{
		{ID: "Monday-08:00-school", Day: models.Monday, Start: 480, End: 660, Kind: models.KindActivity, RefID: "school", Label: "School", Period: models.Morning, Fixed: true},
		{ID: "Monday-11:00-math", Day: models.Monday, Start: 660, End: 720, Kind: models.KindSubject, RefID: "math", Label: "Math, advanced", Period: models.Morning, Color: "#3366ff"},
	}
}

func TestCSVExporter_RendersWeek(t *testing.T) {
	out, err := NewCSVExporter().Render(WeekDataset(sampleBlocks()))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, WeekHeaders, records[0])
	assert.Equal(t, []string{"Monday", "08:00", "11:00", "180", "activity", "school", "School", "morning", "true"}, records[1])
	assert.Equal(t, "Math, advanced", records[2][6])
}

func TestCSVExporter_RequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporter_Renders(t *testing.T) {
	out, err := NewPDFExporter().Render(WeekDataset(sampleBlocks()), "Weekly timetable", []models.Warning{
		{Code: models.WarnStudyShortfall, Message: "could not allocate 2.0 study hours"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestTint(t *testing.T) {
	r, g, b, ok := tint("#000000")
	require.True(t, ok)
	assert.Equal(t, []int{170, 170, 170}, []int{r, g, b})

	_, _, _, ok = tint("blue")
	assert.False(t, ok)
}
