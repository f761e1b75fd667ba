// Package crawl drives the page-by-page traversal of a console category
// and the detail enrichment of its records.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"retrocat/models"
)

// PageFetcher is the page fetch adapter consumed by the crawler. FetchPage
// must not return two records with the same source URL within one page;
// cross-page duplicates are handled here.
type PageFetcher interface {
	FetchPage(ctx context.Context, console string, page int) ([]models.Game, error)
	FetchDetail(ctx context.Context, sourceURL string) (*models.Game, error)
}

// DefaultMaxPages is a defensive ceiling on the traversal. The source does
// not expose a page count, so termination normally relies on the empty-page
// and repeated-page stop conditions; the ceiling only guards against a
// source that never signals either.
const DefaultMaxPages = 1000

type Crawler struct {
	fetcher  PageFetcher
	delay    time.Duration
	maxPages int
	logger   *slog.Logger

	// OnPage, when set, is called once per requested listing page with the
	// page number, raw record count, new-record count and outcome status.
	OnPage func(page, records, newCount int, status string)
}

func NewCrawler(fetcher PageFetcher, delay time.Duration, logger *slog.Logger) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		delay:    delay,
		maxPages: DefaultMaxPages,
		logger:   logger,
	}
}

// FetchAll walks listing pages from 1 until the source is exhausted and
// returns the deduplicated records in discovery order.
//
// Two stop conditions, in order of checking:
//   - empty: the adapter returned zero records (or failed, which degrades
//     to an empty result).
//   - repeat: every record on the page was already seen. The site answers
//     requests past the last page with the last page's content again, and
//     the absence of any new record is the only reliable end signal.
//
// First occurrence wins: a record seen on an earlier page keeps its
// originally assigned id, later duplicates are dropped.
func (c *Crawler) FetchAll(ctx context.Context, console string) []models.Game {
	var all []models.Game
	seen := map[string]bool{}

	for page := 1; page <= c.maxPages; page++ {
		games, err := c.fetcher.FetchPage(ctx, console, page)
		if err != nil {
			c.logger.Warn("page fetch failed, treating as end of category",
				"console", console, "page", page, "error", err)
			c.reportPage(page, 0, 0, "failed")
			break
		}
		if len(games) == 0 {
			c.logger.Info("empty page, stopping", "console", console, "page", page)
			c.reportPage(page, 0, 0, "empty")
			break
		}

		newCount := 0
		for _, g := range games {
			if !seen[g.SourceURL] {
				newCount++
			}
		}
		if newCount == 0 {
			c.logger.Info("page repeated previous content, stopping",
				"console", console, "page", page, "records", len(games))
			c.reportPage(page, len(games), 0, "repeat")
			break
		}

		for _, g := range games {
			if seen[g.SourceURL] {
				continue
			}
			seen[g.SourceURL] = true
			all = append(all, g)
		}

		c.logger.Info("page fetched",
			"console", console, "page", page,
			"records", len(games), "new", newCount, "total", len(all))
		c.reportPage(page, len(games), newCount, "fetched")

		c.pause(ctx)
	}

	return all
}

// FetchOne fetches a single listing page with no dedup or stop logic. A
// fetch failure degrades to an empty result.
func (c *Crawler) FetchOne(ctx context.Context, console string, page int) []models.Game {
	games, err := c.fetcher.FetchPage(ctx, console, page)
	if err != nil {
		c.logger.Warn("page fetch failed", "console", console, "page", page, "error", err)
		c.reportPage(page, 0, 0, "failed")
		return nil
	}
	c.reportPage(page, len(games), len(games), "fetched")
	return games
}

// EnrichAll fetches each record's detail page in listing order and merges
// the detail fields into the existing record, keeping its id. Returns the
// number of records enriched and the number that failed.
func (c *Crawler) EnrichAll(ctx context.Context, games []models.Game) (enriched, failed int) {
	for i := range games {
		detail, err := c.fetcher.FetchDetail(ctx, games[i].SourceURL)
		if err != nil {
			c.logger.Warn("detail fetch failed, keeping listing record",
				"url", games[i].SourceURL, "error", err)
			failed++
			continue
		}
		games[i].MergeDetail(detail)
		enriched++

		c.pause(ctx)
	}
	return enriched, failed
}

func (c *Crawler) reportPage(page, records, newCount int, status string) {
	if c.OnPage != nil {
		c.OnPage(page, records, newCount, status)
	}
}

// pause sleeps for the politeness delay, returning early on cancellation.
func (c *Crawler) pause(ctx context.Context) {
	if c.delay <= 0 {
		return
	}
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
	}
}
