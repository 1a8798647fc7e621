package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PoYuTsai/TravelAPP-sub000/internal/common"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/entity"
	"github.com/PoYuTsai/TravelAPP-sub000/internal/trips"
)

// MaxFileSize caps a single ingested file.
const MaxFileSize = 4 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store is the part of the itinerary service the ingestor writes through.
type Store interface {
	FindByHash(ctx context.Context, hash string) (*entity.Itinerary, error)
	Save(ctx context.Context, req trips.SaveRequest) (*entity.Itinerary, error)
}

// FSIngestor reads itinerary text files from the local filesystem.
type FSIngestor struct {
	Store  Store
	Year   int
	Logger *slog.Logger
}

func NewFSIngestor(store Store, year int, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Store: store, Year: year, Logger: logger}
}

// IngestPath stores one file. Content already stored under the same hash
// is reported as deduplicated instead of being parsed again.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, fmt.Errorf("abs path: %w", err)
	}
	out.SourcePath = abs

	ext := NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.Logger.Warn("ingest.skip.extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension %q: %w", ext, common.ErrInvalidInput)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return out, err
	}
	if info.Size() > MaxFileSize {
		return out, fmt.Errorf("%s is %d bytes, limit %d: %w", abs, info.Size(), MaxFileSize, common.ErrInvalidInput)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return out, err
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	out.HashHex = HashHex(content)

	existing, err := i.Store.FindByHash(ctx, out.HashHex)
	switch {
	case err == nil:
		out.ItineraryID = existing.ID.String()
		out.Deduplicated = true
		out.Days = existing.DayCount()
		out.IngestedAt = existing.CreatedAt
		i.Logger.Info("ingest.dedup", "path", abs, "itinerary_id", out.ItineraryID)
		return out, nil
	case !errors.Is(err, common.ErrNotFound):
		return out, fmt.Errorf("lookup hash: %w", err)
	}

	rec, err := i.Store.Save(ctx, trips.SaveRequest{
		Text:        strings.ToValidUTF8(string(content), "�"),
		Year:        i.Year,
		SourcePath:  abs,
		ContentHash: out.HashHex,
	})
	if err != nil {
		i.Logger.Error("ingest.failed", "path", abs, "error", err)
		return out, err
	}

	out.ItineraryID = rec.ID.String()
	out.Days = rec.DayCount()
	out.IngestedAt = rec.CreatedAt
	i.Logger.Info("ingest.ok", "path", abs, "itinerary_id", out.ItineraryID, "days", out.Days)
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("root_path is required: %w", common.ErrInvalidInput)
	}

	var results []IngestionResult
	var stats DirStats
	start := time.Now()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			r.SourcePath = path
			r.Err = err.Error()
			results = append(results, r)
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}

	i.Logger.Info("ingest.directory.done",
		"root", root,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results, stats, nil
}
