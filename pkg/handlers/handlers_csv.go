package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/arnavshah/timetable-api-go/pkg/errors"
	"github.com/arnavshah/timetable-api-go/pkg/export"
	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/response"
)

// ScheduleCSV handles CSV file uploads for scheduling. days_file and
// subjects_file are required; activities_file is optional.
func (h *Handler) ScheduleCSV(c *gin.Context) {
	daysFile, _ := c.FormFile("days_file")
	subjectsFile, _ := c.FormFile("subjects_file")
	activitiesFile, _ := c.FormFile("activities_file")

	if daysFile == nil || subjectsFile == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "days_file and subjects_file are required"))
		return
	}

	var input models.ScheduleInput
	var err error
	if input.Days, err = parseUpload(daysFile, parseDayRow); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "days_file: "+err.Error()))
		return
	}
	if input.Subjects, err = parseUpload(subjectsFile, parseSubjectRow); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "subjects_file: "+err.Error()))
		return
	}
	if activitiesFile != nil {
		if input.Activities, err = parseUpload(activitiesFile, parseActivityRow); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "activities_file: "+err.Error()))
			return
		}
	}

	resp, err := h.plan(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.RecordUsage(c, &input, resp)

	out, err := export.NewCSVExporter().Render(export.WeekDataset(resp.Blocks))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generation_id": resp.GenerationID,
		"csv":           string(out),
		"warnings":      resp.Warnings,
	})
}

// row is one CSV record addressed by header name.
type row map[string]string

func (r row) str(col string) string { return strings.TrimSpace(r[col]) }

func (r row) clock(col string) (*models.Clock, error) {
	v := r.str(col)
	if v == "" {
		return nil, nil
	}
	c, err := models.ParseClock(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", col, err)
	}
	return &c, nil
}

func (r row) number(col string) (float64, error) {
	v := r.str(col)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, v)
	}
	return f, nil
}

func (r row) integer(col string) (int, error) {
	v := r.str(col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", col, v)
	}
	return n, nil
}

func (r row) flag(col string) (bool, error) {
	v := r.str(col)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", col, v)
	}
	return b, nil
}

func parseUpload[T any](fh *multipart.FileHeader, parse func(row) (T, error)) ([]T, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return parseCSV(f, parse)
}

// parseCSV reads a header row then converts every record. Errors name the
// 1-based line they occurred on.
func parseCSV[T any](r io.Reader, parse func(row) (T, error)) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var out []T
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec := make(row, len(header))
		for i, col := range header {
			if i < len(record) {
				rec[col] = record[i]
			}
		}
		item, err := parse(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func parseDayRow(r row) (models.DayWindow, error) {
	d := models.DayWindow{Day: models.Weekday(r.str("day"))}
	start, err := r.clock("start")
	if err != nil {
		return d, err
	}
	end, err := r.clock("end")
	if err != nil {
		return d, err
	}
	if start == nil || end == nil {
		return d, errors.New("start and end are required")
	}
	d.Start, d.End = *start, *end
	if d.BreakStart, err = r.clock("break_start"); err != nil {
		return d, err
	}
	if d.BreakEnd, err = r.clock("break_end"); err != nil {
		return d, err
	}
	return d, nil
}

func parseSubjectRow(r row) (models.Subject, error) {
	s := models.Subject{ID: r.str("id"), Name: r.str("name"), Color: r.str("color")}
	var err error
	if s.WeeklyHours, err = r.number("weekly_hours"); err != nil {
		return s, err
	}
	if s.Fixed, err = r.flag("fixed"); err != nil {
		return s, err
	}
	if s.FixedStart, err = r.clock("fixed_start"); err != nil {
		return s, err
	}
	if s.FixedEnd, err = r.clock("fixed_end"); err != nil {
		return s, err
	}
	return s, nil
}

func parseActivityRow(r row) (models.Activity, error) {
	a := models.Activity{
		ID:     r.str("id"),
		Name:   r.str("name"),
		Type:   models.ActivityType(r.str("type")),
		Period: models.Period(r.str("period_affinity")),
		Color:  r.str("color"),
	}
	var err error
	if a.DailyHours, err = r.number("daily_hours"); err != nil {
		return a, err
	}
	if a.Fixed, err = r.flag("fixed"); err != nil {
		return a, err
	}
	if a.FixedStart, err = r.clock("fixed_start"); err != nil {
		return a, err
	}
	if a.FixedEnd, err = r.clock("fixed_end"); err != nil {
		return a, err
	}
	if a.Priority, err = r.integer("priority"); err != nil {
		return a, err
	}
	return a, nil
}
