package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "humanaid",
		Usage: "Humanitarian aid resource directory",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			backfillCommand,
			searchCommand,
			exportCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
