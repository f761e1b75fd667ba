// Package download streams game assets to disk. Downloads are best
// effort: a failed asset is logged and skipped, never fatal to the run.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"retrocat/models"
	"retrocat/pkg/fetcher"
)

type Downloader struct {
	fetcher *fetcher.Fetcher
	dir     string
	logger  *slog.Logger
}

func NewDownloader(f *fetcher.Fetcher, dir string, logger *slog.Logger) (*Downloader, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	return &Downloader{fetcher: f, dir: dir, logger: logger}, nil
}

// Download streams a game's asset into the download directory. Files that
// already exist are skipped so interrupted batches can be resumed.
func (d *Downloader) Download(ctx context.Context, game models.Game) error {
	if game.AssetURL == "" {
		return fmt.Errorf("game %d has no asset URL", game.ID)
	}

	path := filepath.Join(d.dir, game.Console, assetFilename(game))
	if _, err := os.Stat(path); err == nil {
		d.logger.Info("asset already downloaded, skipping", "path", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create console directory: %w", err)
	}

	body, err := d.fetcher.GetStream(ctx, game.AssetURL)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create asset file: %w", err)
	}

	n, err := io.Copy(out, body)
	closeErr := out.Close()
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write asset: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close asset file: %w", closeErr)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize asset file: %w", err)
	}

	d.logger.Info("asset downloaded", "title", game.Title, "bytes", n, "path", path)
	return nil
}

var invalidFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// assetFilename builds a filesystem-safe name from the game title plus the
// asset URL's extension, falling back to the game id when the title
// sanitizes to nothing.
func assetFilename(game models.Game) string {
	slug := invalidFilenameChar.ReplaceAllString(game.Title, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = fmt.Sprintf("game_%d", game.ID)
	}

	ext := assetExt(game.AssetURL)
	return slug + ext
}

func assetExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return filepath.Ext(u.Path)
}
