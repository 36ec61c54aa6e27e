package export

import (
	"fmt"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Fills optionally carries a "#rrggbb" background per row.
	Fills []string
}

// WeekHeaders are the columns of an exported week.
var WeekHeaders = []string{"day", "start", "end", "duration_minutes", "kind", "ref_id", "label", "period", "fixed"}

// WeekDataset flattens blocks in the order given.
func WeekDataset(blocks []models.TimeBlock) Dataset {
	data := Dataset{Headers: WeekHeaders}
	for _, b := range blocks {
		data.Rows = append(data.Rows, map[string]string{
			"day":              string(b.Day),
			"start":            b.Start.String(),
			"end":              b.End.String(),
			"duration_minutes": fmt.Sprintf("%d", b.Duration()),
			"kind":             string(b.Kind),
			"ref_id":           b.RefID,
			"label":            b.Label,
			"period":           string(b.Period),
			"fixed":            fmt.Sprintf("%t", b.Fixed),
		})
		data.Fills = append(data.Fills, b.Color)
	}
	return data
}
