package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/logger"
)

var (
	planFile string
	verbose  bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Generate weekly study timetables from a plan file",
	Long: "planner reads day windows, subjects and activities from a YAML or JSON plan file " +
		"and prints the generated week together with any warnings.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&planFile, "file", "f", "plan.yaml", "plan file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine decisions to stderr")
	rootCmd.AddCommand(generateCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by every command)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !verbose {
		log = zap.NewNop()
		return nil
	}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "console"
	log, err = logger.New(cfg)
	return err
}
