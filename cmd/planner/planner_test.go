package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outputFormat, outFile, subjectMinBlock, verbose = "table", "", 0, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodePlan(t *testing.T) {
	input, err := readPlan(filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)

	require.Len(t, input.Days, 4)
	assert.Equal(t, models.MustClock("07:00"), input.Days[0].Start)
	require.NotNil(t, input.Activities[0].FixedStart)
	assert.Equal(t, "22:30", input.Activities[0].FixedStart.String())
	assert.Equal(t, models.Morning, input.Activities[2].Period)
	assert.NoError(t, input.Validate())

	_, err = decodePlan([]byte("days: []\nsubjcts: []\n"), ".yaml")
	assert.ErrorContains(t, err, "subjcts")

	_, err = decodePlan([]byte(`{"days":[{"day":"Monday","start":"07:00","end":"09:00"}],"extra":1}`), ".json")
	assert.ErrorContains(t, err, "extra")

	_, err = decodePlan(nil, ".toml")
	assert.Error(t, err)
}

func TestGenerateTable(t *testing.T) {
	out, err := execute(t, "generate", "-f", filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "DAY"))
	assert.Contains(t, lines[1], "Monday")
	assert.Contains(t, out, "School *")
	assert.Contains(t, out, "Orchestra *")
	assert.NotContains(t, out, "Sunday")
	assert.Contains(t, out, "warning [study-shortfall]")
}

func TestGenerateJSON(t *testing.T) {
	out, err := execute(t, "generate", "-f", filepath.Join("testdata", "plan.yaml"), "-o", "json")
	require.NoError(t, err)

	var resp struct {
		Blocks   []models.TimeBlock `json:"blocks"`
		Warnings []models.Warning   `json:"warnings"`
		Summary  models.Summary     `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Summary.ActiveDays)
	assert.Equal(t, "Monday-07:00-run", resp.Blocks[0].ID)
}

func TestGeneratePDFToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "week.pdf")

	_, err := execute(t, "generate", "-f", filepath.Join("testdata", "plan.yaml"), "-o", "pdf", "--out", target)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))

	_, err = execute(t, "generate", "-f", filepath.Join("testdata", "plan.yaml"), "-o", "pdf")
	assert.ErrorContains(t, err, "--out")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "-f", filepath.Join("testdata", "plan.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid: 4 days, 3 subjects, 5 activities")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`days:
  - day: Monday
    start: "08:00"
    end: "18:00"
activities:
  - id: a
    name: A
    type: leisure
    fixed: true
    fixed_start: "09:00"
    fixed_end: "11:00"
  - id: b
    name: B
    type: leisure
    fixed: true
    fixed_start: "10:00"
    fixed_end: "12:00"
  - id: c
    name: C
    type: exercise
    daily_hours: 1
`), 0o644))

	out, err = execute(t, "validate", "-f", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "note: Monday: A and B overlap 10:00-11:00")
	assert.Contains(t, out, "problem: activities[2]: flexible activity needs period_affinity")
}
