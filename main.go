package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"retrocat/internal/crawl"
)

var version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "retrocat",
		Usage:   "incrementally crawl a retro-game catalog site into a JSON document",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "retrocat.yaml",
				Usage: "path to the config file",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "crawl a console category and merge it into the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "console",
						Aliases: []string{"c"},
						Usage:   "console category to crawl (nes, snes, gb, ...)",
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "fetch a single listing page",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "walk every listing page until the source is exhausted",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "catalog document path",
					},
					&cli.IntFlag{
						Name:  "start-id",
						Usage: "override the next record id (non-positive values are ignored)",
					},
					&cli.BoolFlag{
						Name:  "details",
						Value: true,
						Usage: "enrich records from their detail pages",
					},
					&cli.BoolFlag{
						Name:  "download",
						Usage: "download game assets after fetching",
					},
					&cli.StringFlag{
						Name:  "download-dir",
						Usage: "directory for downloaded assets",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Value: 500 * time.Millisecond,
						Usage: "politeness delay between requests",
					},
					&cli.StringFlag{
						Name:  "base-url",
						Usage: "catalog site base URL",
					},
				},
				Action: crawl.FetchAction,
			},
			{
				Name:  "stats",
				Usage: "print per-console totals of the catalog document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "catalog document path",
					},
				},
				Action: crawl.StatsAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded crawl runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to show",
					},
				},
				Action: crawl.RunsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
