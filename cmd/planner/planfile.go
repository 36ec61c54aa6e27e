package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arnavshah/timetable-api-go/pkg/models"
)

// readPlan decodes a plan file by extension. Unknown fields are rejected so
// typos do not silently drop obligations.
func readPlan(path string) (*models.ScheduleInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return decodePlan(raw, filepath.Ext(path))
}

func decodePlan(raw []byte, ext string) (*models.ScheduleInput, error) {
	var input models.ScheduleInput
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&input); err != nil {
			return nil, fmt.Errorf("decode json plan: %w", err)
		}
	case ".yaml", ".yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&input); err != nil {
			return nil, fmt.Errorf("decode yaml plan: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported plan format %q", ext)
	}
	return &input, nil
}
