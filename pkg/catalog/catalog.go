// Package catalog loads, merges and saves the persisted catalog document.
// The document is a single JSON file keyed by console category; each save
// is a full read-modify-write with last-write-wins semantics and no
// locking (concurrent runs against the same output file are unsupported).
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"retrocat/models"
)

// Load reads the catalog document at path. A missing or corrupt file is
// not fatal: a fresh empty document is returned and a warning logged, and
// the corrupt content will be overwritten on the next save.
func Load(path string, logger *slog.Logger) *models.CatalogDocument {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read catalog, starting fresh", "path", path, "error", err)
		}
		return models.NewCatalogDocument()
	}

	var doc models.CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("corrupt catalog, starting fresh", "path", path, "error", err)
		return models.NewCatalogDocument()
	}
	if doc.Categories == nil {
		doc.Categories = map[string]*models.CategoryDocument{}
	}
	return &doc
}

// MergePage merges one fetched page into the document. An entry with the
// same page label is replaced in place; later fetches fully supersede
// earlier ones, including any detail enrichment the old entry carried.
func MergePage(doc *models.CatalogDocument, console, pageLabel string, games []models.Game) {
	cat := doc.Categories[console]
	if cat == nil {
		cat = &models.CategoryDocument{}
		doc.Categories[console] = cat
	}

	entry := models.PageEntry{
		PageLabel:   pageLabel,
		RecordCount: len(games),
		FetchedAt:   time.Now().UTC(),
		Games:       games,
	}

	replaced := false
	for i := range cat.Pages {
		if cat.Pages[i].PageLabel == pageLabel {
			cat.Pages[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		cat.Pages = append(cat.Pages, entry)
	}

	sortPages(cat.Pages)
	recompute(doc, cat)
}

// sortPages orders numeric labels ascending with the "all" sentinel last.
func sortPages(pages []models.PageEntry) {
	sort.SliceStable(pages, func(i, j int) bool {
		a, aNum := pageNumber(pages[i].PageLabel)
		b, bNum := pageNumber(pages[j].PageLabel)
		if aNum && bNum {
			return a < b
		}
		return aNum && !bNum
	})
}

func pageNumber(label string) (int, bool) {
	if label == models.AllPages {
		return 0, false
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return n, true
}

// recompute refreshes the aggregate counters from scratch.
func recompute(doc *models.CatalogDocument, cat *models.CategoryDocument) {
	now := time.Now().UTC()

	cat.TotalPages = 0
	cat.TotalRecords = 0
	for _, p := range cat.Pages {
		if _, ok := pageNumber(p.PageLabel); ok {
			cat.TotalPages++
		}
		cat.TotalRecords += p.RecordCount
	}
	cat.LastUpdated = now

	doc.TotalCategories = len(doc.Categories)
	doc.LastUpdated = now
}

// Save writes the document back to disk. Unlike allocator state, a write
// failure here is the operation's terminal error: the document is the
// primary deliverable and fetched data must not be lost silently.
func Save(doc *models.CatalogDocument, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	return nil
}
