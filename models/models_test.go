package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPageLabelFor(t *testing.T) {
	tests := []struct {
		page int
		want string
	}{
		{page: 1, want: "1"},
		{page: 12, want: "12"},
		{page: 0, want: AllPages},
		{page: -1, want: AllPages},
	}
	for _, tt := range tests {
		if got := PageLabelFor(tt.page); got != tt.want {
			t.Errorf("PageLabelFor(%d) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestMergeDetail(t *testing.T) {
	g := Game{
		ID:        7,
		Title:     "Star Courier",
		Console:   "nes",
		SourceURL: "https://www.retrosium.org/vault/101",
		AssetURL:  "https://www.retrosium.org/vault/101",
	}

	g.MergeDetail(&Game{
		ID:       999, // detail path's own id, must not leak through
		AssetURL: "https://www.retrosium.org/dl/101.zip",
		Region:   "US",
		Year:     "1991",
	})

	if g.ID != 7 {
		t.Errorf("ID = %d, want 7 preserved", g.ID)
	}
	if g.AssetURL != "https://www.retrosium.org/dl/101.zip" {
		t.Errorf("AssetURL = %q", g.AssetURL)
	}
	if g.Region != "US" || g.Year != "1991" {
		t.Errorf("detail fields not merged: %+v", g)
	}
	if g.Title != "Star Courier" {
		t.Errorf("empty detail title must not clear the listing title, got %q", g.Title)
	}
}

func TestMergeDetail_Nil(t *testing.T) {
	g := Game{ID: 1, Title: "a"}
	g.MergeDetail(nil)
	if g.ID != 1 || g.Title != "a" {
		t.Errorf("MergeDetail(nil) must be a no-op, got %+v", g)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, missing file must yield defaults", err)
	}
	if cfg.OutputPath != "catalog.json" {
		t.Errorf("OutputPath = %q, want default", cfg.OutputPath)
	}
	if cfg.RequestDelay != 500*time.Millisecond {
		t.Errorf("RequestDelay = %v, want 500ms default", cfg.RequestDelay)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrocat.yaml")
	content := `
base_url: https://mirror.example.net
request_delay: 2s
output: out/catalog.json
cache_max_age: 1h
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "https://mirror.example.net" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RequestDelay != 2*time.Second {
		t.Errorf("RequestDelay = %v, want 2s", cfg.RequestDelay)
	}
	if cfg.CacheMaxAge != time.Hour {
		t.Errorf("CacheMaxAge = %v, want 1h", cfg.CacheMaxAge)
	}
	// Unspecified fields keep their defaults.
	if cfg.HistoryDB != "retrocat.db" {
		t.Errorf("HistoryDB = %q, want default", cfg.HistoryDB)
	}
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retrocat.yaml")
	if err := os.WriteFile(path, []byte("request_delay: fast\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() with invalid duration must error")
	}
}
