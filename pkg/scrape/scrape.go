// Package scrape turns listing and detail pages of the catalog site into
// Game records. Extraction is best effort: markup the selectors do not
// match simply leaves fields empty, and a page that fails to fetch or
// parse yields an empty result rather than an error that would abort a
// traversal.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"retrocat/internal/common"
	"retrocat/models"
	"retrocat/pkg/caching"
	"retrocat/pkg/fetcher"
	"retrocat/pkg/ids"
)

type Scraper struct {
	fetcher  *fetcher.Fetcher
	base     *url.URL
	ids      *ids.Allocator
	cache    *caching.Cache
	detector lingua.LanguageDetector
	logger   *slog.Logger
}

func NewScraper(f *fetcher.Fetcher, baseURL string, alloc *ids.Allocator, logger *slog.Logger) (*Scraper, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.Japanese, lingua.French,
			lingua.German, lingua.Spanish, lingua.Italian,
		).
		Build()

	return &Scraper{
		fetcher:  f,
		base:     base,
		ids:      alloc,
		detector: detector,
		logger:   logger,
	}, nil
}

// SetCache enables the detail-page cache. Listing pages are never served
// from cache: the traversal's stop conditions need the live listing.
func (s *Scraper) SetCache(cache *caching.Cache) {
	s.cache = cache
}

// ListingURL returns the URL of one listing page for a console category.
func (s *Scraper) ListingURL(console string, page int) string {
	return fmt.Sprintf("%s://%s/vault/%s?p=%d", s.base.Scheme, s.base.Host, console, page)
}

// FetchPage fetches one listing page and extracts its game records, with
// ids assigned in discovery order. Records are deduplicated by source URL
// within the page; cross-page deduplication is the traversal engine's job.
func (s *Scraper) FetchPage(ctx context.Context, console string, page int) ([]models.Game, error) {
	pageURL := s.ListingURL(console, page)
	doc, err := s.fetcher.GetDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("listing page %d for %s: %w", page, console, err)
	}
	return s.parseListing(doc, console), nil
}

// parseListing extracts games from a listing page document.
func (s *Scraper) parseListing(doc *goquery.Document, console string) []models.Game {
	var games []models.Game
	seen := map[string]bool{}

	doc.Find("table.catalog tbody tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("td.title a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		sourceURL, err := common.ResolveURL(s.base, href)
		if err != nil {
			s.logger.Warn("skipping row with bad href", "href", href, "error", err)
			return
		}
		sourceURL = common.NormalizeURL(sourceURL)
		if seen[sourceURL] {
			return
		}
		seen[sourceURL] = true

		g := models.Game{
			ID:        s.ids.Next(),
			Title:     title,
			Console:   console,
			SourceURL: sourceURL,
			// Refined to the real asset location at detail-fetch time.
			AssetURL: sourceURL,
			Region:   strings.TrimSpace(row.Find("td.region").Text()),
		}
		if rating := strings.TrimSpace(row.Find("td.rating").Text()); rating != "" {
			if v, err := strconv.ParseFloat(rating, 64); err == nil {
				g.Rating = v
			}
		}
		games = append(games, g)
	})

	return games
}

// FetchDetail fetches a game's detail page and extracts a full record.
// The returned record carries its own freshly allocated id; callers that
// are enriching an existing record must merge fields and keep the old id.
func (s *Scraper) FetchDetail(ctx context.Context, sourceURL string) (*models.Game, error) {
	var body []byte
	if s.cache != nil {
		body, _ = s.cache.Get(sourceURL)
	}
	if body == nil {
		var err error
		body, err = s.fetcher.GetBytes(ctx, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("detail page %s: %w", sourceURL, err)
		}
		if s.cache != nil {
			if err := s.cache.Set(sourceURL, body); err != nil {
				s.logger.Warn("failed to cache detail page", "url", sourceURL, "error", err)
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("detail page %s: %w", sourceURL, err)
	}

	g := s.parseDetail(doc, sourceURL)

	if g.Description == "" {
		g.Description = s.readableExcerpt(string(body), sourceURL)
	}
	if g.Description != "" {
		if lang, ok := s.detector.DetectLanguageOf(g.Description); ok {
			g.Language = lang.String()
		}
	}
	return g, nil
}

// parseDetail extracts the structured fields of a detail page.
func (s *Scraper) parseDetail(doc *goquery.Document, sourceURL string) *models.Game {
	g := &models.Game{
		ID:        s.ids.Next(),
		Title:     strings.TrimSpace(doc.Find("h1.game-title").First().Text()),
		SourceURL: common.NormalizeURL(sourceURL),
	}

	if href, ok := doc.Find("a#download").Attr("href"); ok {
		if resolved, err := common.ResolveURL(s.base, href); err == nil {
			g.AssetURL = resolved
		}
	}
	if src, ok := doc.Find("img.box-art").Attr("src"); ok {
		if resolved, err := common.ResolveURL(s.base, src); err == nil {
			g.Image = resolved
		}
	}

	// Info table rows are th/td pairs; unknown keys are ignored.
	doc.Find("table.game-info tr").Each(func(_ int, row *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(row.Find("th").Text()))
		val := strings.TrimSpace(row.Find("td").Text())
		if val == "" {
			return
		}
		switch key {
		case "region":
			g.Region = val
		case "year":
			g.Year = val
		case "publisher":
			g.Publisher = val
		case "file size", "size":
			g.FileSize = val
		case "rating":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				g.Rating = v
			}
		}
	})

	g.Description = strings.TrimSpace(doc.Find("div.description").Text())

	doc.Find("ul.related a").Each(func(_ int, a *goquery.Selection) {
		if title := strings.TrimSpace(a.Text()); title != "" {
			g.Related = append(g.Related, title)
		}
	})

	return g
}

// readableExcerpt falls back to go-readability when the description div is
// missing, pulling whatever prose the page's main content carries.
func (s *Scraper) readableExcerpt(html, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), u)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.Excerpt)
}
