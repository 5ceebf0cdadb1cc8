package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"exposure/internal/platform/sqlite"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|version]",
		Short: "Manage the local database schema",
		Args:  cobra.MaximumNArgs(1),
		Run:   runMigrate,
	}

	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	if action == "version" {
		v, dirty, err := sqlite.Version(cfg.Store.Path)
		if err != nil {
			exitErr("version", err)
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		return
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o700); err != nil {
		exitErr("create db dir", err)
	}
	m, err := sqlite.NewMigrator(cfg.Store.Path)
	if err != nil {
		exitErr("migrator", err)
	}
	defer m.Close()

	switch action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		exitErr("migrate", fmt.Errorf("unknown action %q", action))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		exitErr("migrate "+action, err)
	}
	fmt.Printf("migrate %s: ok\n", action)
}
