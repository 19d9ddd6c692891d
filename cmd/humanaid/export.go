package main

import (
	"context"
	"fmt"
	"time"

	"humanaid/internal/db"
	"humanaid/internal/export"
	"humanaid/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Export published resources as xlsx or json",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "xlsx or json",
			Value:   string(export.FormatXLSX),
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "File path, or object key when a bucket is set",
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "S3 bucket to upload to, overrides EXPORT_BUCKET",
		},
	},
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

		format := export.Format(c.String("format"))
		bucket := c.String("bucket")
		if bucket == "" {
			bucket = cfg.ExportBucket
		}

		dest := c.String("out")

		var uploader export.Uploader
		if bucket != "" {
			awsConfig, err := loadAWSConfig(ctx)
			if err != nil {
				return err
			}
			uploader = s3.NewFromConfig(awsConfig)

			if dest == "" {
				dest = fmt.Sprintf("exports/resources-%d.%s", time.Now().Unix(), format)
			}
		}

		exporter := export.New(logger, store.NewResourceRepository(pool), uploader, bucket)

		location, err := exporter.Export(ctx, format, dest)
		if err != nil {
			return err
		}

		fmt.Println(location)
		return nil
	},
}
