// Package cli implements the exposured commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exposure/internal/platform/config"
)

var (
	dbPath   string
	addrFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "exposured",
	Short: "Exposure notification core",
	Long:  "Runs the exposure notification core: framework registration, diagnosis key matching and quarantine status.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $EXPOSURE_DB or ~/.exposure/exposure.db)")
	RootCmd.PersistentFlags().StringVarP(&addrFlag, "addr", "a", "", "Status server address (default: $EXPOSURE_ADDR or 127.0.0.1:8780)")
}

// loadConfig reads the environment and applies the command line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}
	return cfg, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
