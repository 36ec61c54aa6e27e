package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arnavshah/timetable-api-go/pkg/export"
	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

var (
	outputFormat    string
	outFile         string
	subjectMinBlock int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the week described by a plan file",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, csv, json or pdf")
	generateCmd.Flags().StringVar(&outFile, "out", "", "write to this file instead of stdout (required for pdf)")
	generateCmd.Flags().IntVar(&subjectMinBlock, "subject-min-block", 0, "override the minimum free interval for a subject block, in minutes")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if outputFormat == "pdf" && outFile == "" {
		return fmt.Errorf("pdf output needs --out")
	}

	input, err := readPlan(planFile)
	if err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	schedCfg := scheduler.ConfigFrom(cfg.Scheduler)
	if subjectMinBlock > 0 {
		schedCfg.SubjectMinBlock = subjectMinBlock
	}
	s := scheduler.NewScheduler(schedCfg, log)
	blocks, warnings := s.Generate(input.Days, input.Subjects, input.Activities)

	body, err := render(outputFormat, blocks, warnings)
	if err != nil {
		return err
	}

	if outFile == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(outFile, body, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d blocks and %d warnings to %s\n", len(blocks), len(warnings), outFile)
	return nil
}

func render(format string, blocks []models.TimeBlock, warnings []models.Warning) ([]byte, error) {
	switch format {
	case "table":
		var buf bytes.Buffer
		writeTable(&buf, blocks, warnings)
		return buf.Bytes(), nil
	case "csv":
		return export.NewCSVExporter().Render(export.WeekDataset(blocks))
	case "pdf":
		return export.NewPDFExporter().Render(export.WeekDataset(blocks), "Weekly timetable", warnings)
	case "json":
		out, err := json.MarshalIndent(struct {
			Blocks   []models.TimeBlock `json:"blocks"`
			Warnings []models.Warning   `json:"warnings"`
			Summary  models.Summary     `json:"summary"`
		}{blocks, warnings, scheduler.Summarize(blocks)}, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, blocks []models.TimeBlock, warnings []models.Warning) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tSTART\tEND\tKIND\tLABEL\tPERIOD")
	var prev models.Weekday
	for _, b := range blocks {
		day := string(b.Day)
		if b.Day == prev {
			day = ""
		}
		prev = b.Day
		label := b.Label
		if b.Fixed {
			label += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", day, b.Start, b.End, b.Kind, label, b.Period)
	}
	tw.Flush()

	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning [%s] %s\n", warn.Code, warn.Message)
	}
}
