package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavshah/timetable-api-go/pkg/models"
	"github.com/arnavshah/timetable-api-go/pkg/scheduler"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a plan file without generating it",
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	input, err := readPlan(planFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	overlaps := scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log).FixedOverlaps(input.Days, input.Subjects, input.Activities)
	for _, o := range overlaps {
		fmt.Fprintf(out, "note: %s: %s and %s overlap %s-%s\n", o.Day, o.First, o.Second, o.Start, o.End)
	}

	if err := input.Validate(); err != nil {
		verr := err.(*models.ValidationError)
		for _, p := range verr.Problems {
			fmt.Fprintf(out, "problem: %s\n", p)
		}
		return fmt.Errorf("%d problem(s) in %s", len(verr.Problems), planFile)
	}

	fmt.Fprintf(out, "%s is valid: %d days, %d subjects, %d activities\n", planFile, len(input.Days), len(input.Subjects), len(input.Activities))
	return nil
}
