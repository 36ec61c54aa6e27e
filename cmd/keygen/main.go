package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavshah/timetable-api-go/pkg/auth"
	"github.com/arnavshah/timetable-api-go/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "keygen <userID>",
	Short: "Print an HMAC-signed API key for a user ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeygen,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runKeygen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if os.Getenv("API_MASTER_SECRET") == "" && cfg.Auth.MasterSecret == "dev_master_secret" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: API_MASTER_SECRET not set, signing with the development secret")
	}

	userID := args[0]
	if userID == "" {
		return errors.New("userID must not be empty")
	}

	key := auth.New(cfg.Auth).GenerateHMACKey(userID)
	fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", userID, key)
	return nil
}
