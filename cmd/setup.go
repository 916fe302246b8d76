package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/shared"
)

// SetupDatabase initializes the database and runs migrations.
//
// A missing config file is created from the embedded template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if r.config == nil {
		if _, err := os.Stat(configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", configPath)
			if err := shared.CreateConfigFile(configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", configPath)
			}
		}
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	_, closeDB, err := r.database(config)
	if err != nil {
		return err
	}
	defer closeDB()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return nil
}

// SetupConfig writes the embedded example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Configuration written to %s\n", configPath)
	return nil
}

// SetupStatus lists every known migration and whether it has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, closeDB, err := r.database(config)
	if err != nil {
		return err
	}
	defer closeDB()

	statuses, err := shared.MigrationStatuses(db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.writePlainHeader("Migrations")
	for _, s := range statuses {
		mark := " "
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("%s %04d %s\n", mark, s.Version, s.Name)
	}
	return nil
}
