package main

import (
	"context"
	"fmt"

	"humanaid/internal/db"
	"humanaid/internal/seed"
	"humanaid/internal/store"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the canonical categories and optionally promote admins",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "admin",
			Usage: "Email of an already synced user to promote to admin (repeatable)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, logger, err := setup()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("seeding categories")
		if err := seed.SeedCategories(ctx, store.NewCategoryRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		if admins := c.StringSlice("admin"); len(admins) > 0 {
			if err := seed.PromoteAdmins(ctx, store.NewUserRepository(pool), admins); err != nil {
				return err
			}
		}

		logger.Info("seed complete")
		return nil
	},
}
