package main

import (
	"context"
	"fmt"

	"humanaid/internal/db"
	"humanaid/internal/store"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create or update the database schema",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return err
		}

		logger.Info("schema is up to date")
		return nil
	},
}

var backfillCommand = &cli.Command{
	Name:  "backfill-locations",
	Usage: "Give resources without a location the configured placeholder point",
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		point := defaultPoint(cfg)
		updated, err := store.NewResourceRepository(pool).BackfillLocations(ctx, point)
		if err != nil {
			return err
		}

		logger.WithField("updated", updated).
			WithField("latitude", point.Latitude).
			WithField("longitude", point.Longitude).
			Info("backfilled missing locations")
		return nil
	},
}
