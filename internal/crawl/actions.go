package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"retrocat/models"
	"retrocat/pkg/caching"
	"retrocat/pkg/catalog"
	"retrocat/pkg/db"
	"retrocat/pkg/download"
	"retrocat/pkg/fetcher"
	"retrocat/pkg/ids"
	"retrocat/pkg/scrape"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func loadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("delay") {
		cfg.RequestDelay = c.Duration("delay")
	}
	if c.IsSet("download-dir") {
		cfg.DownloadDir = c.String("download-dir")
	}
	return cfg, nil
}

// FetchAction crawls one console category and merges the result into the
// catalog document. Per-record failures degrade gracefully; only setup
// errors (missing console, bad config, unwritable catalog) are fatal.
func FetchAction(c *cli.Context) error {
	logger := newLogger(c)
	startTime := time.Now()

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	console := c.String("console")
	if console == "" {
		fmt.Fprintln(os.Stderr, "Error: No console provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  retrocat fetch --console nes --all`)
		fmt.Fprintln(os.Stderr, `  retrocat fetch --console snes --page 3`)
		os.Exit(1)
	}

	page := c.Int("page")
	fetchAll := c.Bool("all") || page <= 0
	pageLabel := models.AllPages
	if !fetchAll {
		pageLabel = models.PageLabelFor(page)
	}

	alloc := ids.NewAllocator(cfg.StatePath, logger)
	if c.IsSet("start-id") {
		alloc.SetStart(c.Int("start-id"))
	}

	f := fetcher.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent)
	scraper, err := scrape.NewScraper(f, cfg.BaseURL, alloc, logger)
	if err != nil {
		logger.Error("failed to initialize scraper", "error", err)
		os.Exit(2)
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			logger.Warn("failed to initialize page cache, continuing without it", "error", err)
		} else {
			scraper.SetCache(cache)
		}
	}

	// Crawl history is diagnostic; a broken history DB never blocks a run.
	var history *db.DB
	var runID int64
	if history, err = db.Open(cfg.HistoryDB); err != nil {
		logger.Warn("failed to open history database, continuing without it", "error", err)
		history = nil
	} else {
		defer history.Close()
		if runID, err = history.InsertRun(console, pageLabel); err != nil {
			logger.Warn("failed to record run", "error", err)
			history = nil
		}
	}

	crawler := NewCrawler(scraper, cfg.RequestDelay, logger)
	if history != nil {
		crawler.OnPage = func(page, records, newCount int, status string) {
			if err := history.InsertPageFetch(runID, page, records, newCount, status); err != nil {
				logger.Warn("failed to record page fetch", "error", err)
			}
		}
	}

	ctx := context.Background()
	var games []models.Game
	if fetchAll {
		games = crawler.FetchAll(ctx, console)
	} else {
		games = crawler.FetchOne(ctx, console, page)
	}

	var enriched, enrichFailed int
	if c.Bool("details") && len(games) > 0 {
		logger.Info("enriching records from detail pages", "count", len(games))
		enriched, enrichFailed = crawler.EnrichAll(ctx, games)
	}

	// One state write per batch, not per allocation.
	alloc.Persist()

	doc := catalog.Load(cfg.OutputPath, logger)
	catalog.MergePage(doc, console, pageLabel, games)
	if err := catalog.Save(doc, cfg.OutputPath); err != nil {
		logger.Error("failed to save catalog", "error", err)
		os.Exit(2)
	}

	var downloaded, downloadFailed int
	if c.Bool("download") && len(games) > 0 {
		dl, err := download.NewDownloader(f, cfg.DownloadDir, logger)
		if err != nil {
			logger.Error("failed to initialize downloader", "error", err)
		} else {
			for _, g := range games {
				if err := dl.Download(ctx, g); err != nil {
					logger.Warn("download failed", "title", g.Title, "error", err)
					downloadFailed++
					continue
				}
				downloaded++
			}
		}
	}

	elapsed := time.Since(startTime)
	if history != nil {
		if err := history.FinishRun(runID, len(games), len(games), enrichFailed+downloadFailed, elapsed); err != nil {
			logger.Warn("failed to finish run record", "error", err)
		}
	}

	fmt.Printf("Fetched %d records for %s (page %s) in %.1fs\n",
		len(games), console, pageLabel, elapsed.Seconds())
	if c.Bool("details") {
		fmt.Printf("Details: %d enriched, %d failed\n", enriched, enrichFailed)
	}
	if c.Bool("download") {
		fmt.Printf("Downloads: %d saved, %d failed\n", downloaded, downloadFailed)
	}
	fmt.Printf("Catalog: %s\n", cfg.OutputPath)

	return nil
}

// StatsAction prints per-category totals of the catalog document.
func StatsAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	doc := catalog.Load(cfg.OutputPath, logger)
	if len(doc.Categories) == 0 {
		fmt.Printf("Catalog %s is empty\n", cfg.OutputPath)
		return nil
	}

	fmt.Printf("%-10s %8s %8s  %s\n", "CONSOLE", "PAGES", "RECORDS", "UPDATED")
	for console, cat := range doc.Categories {
		fmt.Printf("%-10s %8d %8d  %s\n",
			console, cat.TotalPages, cat.TotalRecords,
			cat.LastUpdated.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d categories, last updated %s\n",
		doc.TotalCategories, doc.LastUpdated.Format("2006-01-02 15:04"))
	return nil
}

// RunsAction lists recorded crawl runs, newest first.
func RunsAction(c *cli.Context) error {
	logger := newLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	history, err := db.Open(cfg.HistoryDB)
	if err != nil {
		logger.Error("failed to open history database", "error", err)
		os.Exit(2)
	}
	defer history.Close()

	runs, err := history.ListRuns(c.Int("limit"))
	if err != nil {
		logger.Error("failed to list runs", "error", err)
		os.Exit(2)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-5s %-10s %-6s %8s %8s %8s  %s\n",
		"RUN", "CONSOLE", "PAGE", "RECORDS", "NEW", "FAILED", "STARTED")
	for _, r := range runs {
		fmt.Printf("%-5d %-10s %-6s %8d %8d %8d  %s\n",
			r.RunID, r.Console, r.PageSelector,
			r.TotalRecords, r.NewRecords, r.FailedRecords,
			r.StartedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
