package models

import (
	"strconv"
	"time"
)

// AllPages is the page label used when a whole category was fetched in one
// traversal rather than page by page. It sorts after every numeric label.
const AllPages = "all"

// PageLabelFor returns the label for a numeric page, or AllPages when the
// caller requested a full-category traversal (page <= 0).
func PageLabelFor(page int) string {
	if page <= 0 {
		return AllPages
	}
	return strconv.Itoa(page)
}

// PageEntry holds one fetched page's worth of games for a category.
// Games are kept in discovery order.
type PageEntry struct {
	PageLabel   string    `json:"page"`
	RecordCount int       `json:"record_count"`
	FetchedAt   time.Time `json:"fetched_at"`
	Games       []Game    `json:"games"`
}

// CategoryDocument aggregates the fetched pages of one console category.
type CategoryDocument struct {
	Pages        []PageEntry `json:"pages"`
	TotalPages   int         `json:"total_pages"`
	TotalRecords int         `json:"total_records"`
	LastUpdated  time.Time   `json:"last_updated"`
}

// CatalogDocument is the root persisted artifact, keyed by console.
type CatalogDocument struct {
	Categories      map[string]*CategoryDocument `json:"categories"`
	TotalCategories int                          `json:"total_categories"`
	LastUpdated     time.Time                    `json:"last_updated"`
}

// NewCatalogDocument returns an empty document ready for merging.
func NewCatalogDocument() *CatalogDocument {
	return &CatalogDocument{Categories: map[string]*CategoryDocument{}}
}
