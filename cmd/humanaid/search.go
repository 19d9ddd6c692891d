package main

import (
	"context"
	"fmt"

	"humanaid/internal/db"
	"humanaid/internal/search"
	"humanaid/internal/store"
	"humanaid/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "Run a search against the database and print the result",
	ArgsUsage: "<query>",
	Flags: []cli.Flag{
		&cli.Float64Flag{Name: "lat", Usage: "Latitude of the searcher"},
		&cli.Float64Flag{Name: "lon", Usage: "Longitude of the searcher"},
		&cli.Float64Flag{Name: "radius", Usage: "Local radius in miles", Value: search.DefaultRadiusMiles},
		&cli.Uint64Flag{Name: "limit", Usage: "Maximum results", Value: search.DefaultLimit},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("a search query is required")
		}

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

		req := types.SearchRequest{
			Query:       c.Args().First(),
			RadiusMiles: c.Float64("radius"),
			Limit:       c.Uint64("limit"),
		}
		if c.IsSet("lat") && c.IsSet("lon") {
			req.Near = &types.GeoPoint{Latitude: c.Float64("lat"), Longitude: c.Float64("lon")}
		}

		result, err := search.New(logger, store.NewSearchRepository(pool), nil).Search(ctx, req)
		if err != nil {
			return err
		}

		pp.Println(result)
		return nil
	},
}
