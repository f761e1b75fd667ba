// Package models defines the data structures shared between the scraper,
// the traversal engine and the catalog persistence layer.
package models

// Game represents one catalog entry. Listing pages produce a sparse Game
// (id, title, console, source URL); a later detail fetch fills in the
// optional fields. Any subset of the optional fields may be absent.
type Game struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Console   string `json:"console"`
	SourceURL string `json:"source_url"`
	AssetURL  string `json:"asset_url,omitempty"`

	// Detail-page fields, best effort.
	Image       string   `json:"image,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Region      string   `json:"region,omitempty"`
	Year        string   `json:"year,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	FileSize    string   `json:"file_size,omitempty"`
	Description string   `json:"description,omitempty"`
	Language    string   `json:"language,omitempty"`
	Related     []string `json:"related,omitempty"`
}

// MergeDetail copies detail-fetch fields from src into g, keeping g's
// identifier and source URL. Enrichment must never mint a new id; the
// detail path allocates ids for its own records, which are discarded here.
func (g *Game) MergeDetail(src *Game) {
	if src == nil {
		return
	}
	if src.Title != "" {
		g.Title = src.Title
	}
	if src.AssetURL != "" {
		g.AssetURL = src.AssetURL
	}
	if src.Image != "" {
		g.Image = src.Image
	}
	if src.Rating != 0 {
		g.Rating = src.Rating
	}
	if src.Region != "" {
		g.Region = src.Region
	}
	if src.Year != "" {
		g.Year = src.Year
	}
	if src.Publisher != "" {
		g.Publisher = src.Publisher
	}
	if src.FileSize != "" {
		g.FileSize = src.FileSize
	}
	if src.Description != "" {
		g.Description = src.Description
	}
	if src.Language != "" {
		g.Language = src.Language
	}
	if len(src.Related) > 0 {
		g.Related = src.Related
	}
}
