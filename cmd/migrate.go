package cmd

import (
	"fmt"

	"filament-sync/core/database"
	"filament-sync/feature/swatch/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkOnly bool

// migrateCmd creates or updates the catalog schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	Long:  `Runs the schema migration and prints the resulting column layout of every catalog table. With --check it only reports missing tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only report missing tables, do not migrate")
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	missing := database.MissingTables(rt.db, models.Tables()...)
	if checkOnly {
		if len(missing) > 0 {
			return fmt.Errorf("missing tables: %v", missing)
		}
		rt.logger.Info("Schema is complete", zap.Strings("tables", models.Tables()))
		return nil
	}

	if len(missing) > 0 {
		rt.logger.Info("Creating tables", zap.Strings("tables", missing))
	}
	if err := models.Migrate(rt.db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	for _, table := range models.Tables() {
		columns, err := database.GetTableColumns(rt.db, table)
		if err != nil {
			return fmt.Errorf("failed to inspect %s: %w", table, err)
		}
		names := make([]string, 0, len(columns))
		for _, c := range columns {
			names = append(names, c.Field+" "+c.Type)
		}
		rt.logger.Info("Table ready", zap.String("table", table), zap.Strings("columns", names))
	}
	return nil
}
