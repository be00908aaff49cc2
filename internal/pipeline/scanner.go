package pipeline

import (
	"context"
	"log/slog"
	"os"

	"poolconv/internal/catalog"
	"poolconv/internal/convert"
	"poolconv/internal/logging"
	"poolconv/internal/probecache"
	"poolconv/internal/processed"
)

// Scanner selects clips whose audio needs rewriting.
type Scanner struct {
	catalog   catalog.Catalog
	cache     *probecache.Cache
	probe     probecache.ProbeFunc
	processed *processed.Set
	logger    *slog.Logger
}

// NewScanner constructs a Scanner. probe resolves a file's audio codec on
// cache miss.
func NewScanner(cat catalog.Catalog, cache *probecache.Cache, probe probecache.ProbeFunc, set *processed.Set, logger *slog.Logger) *Scanner {
	return &Scanner{
		catalog:   cat,
		cache:     cache,
		probe:     probe,
		processed: set,
		logger:    logging.NewComponentLogger(logger, "scanner"),
	}
}

// Candidates lists clips that exist on disk, are not yet processed, and carry
// a targeted audio codec. Probe failures skip the clip for this poll; the
// failure is not cached so the clip is retried next time.
func (s *Scanner) Candidates(ctx context.Context) ([]Task, error) {
	clips, err := s.catalog.ListClips(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	for _, clip := range clips {
		if ctx.Err() != nil {
			return tasks, ctx.Err()
		}
		if clip.FilePath == "" {
			continue
		}
		if _, err := os.Stat(clip.FilePath); err != nil {
			// Offline or relinked media, nothing to convert yet.
			continue
		}

		baseName := convert.BaseName(clip.FilePath)
		if s.processed.Contains(baseName) {
			continue
		}

		codec, err := s.cache.Resolve(ctx, clip.FilePath, s.probe)
		if err != nil {
			s.logger.Warn("codec probe failed",
				logging.String(logging.FieldClip, baseName),
				logging.String(logging.FieldSource, clip.FilePath),
				logging.Error(err))
			continue
		}
		if !NeedsConversion(codec) {
			continue
		}

		tasks = append(tasks, Task{Clip: clip, BaseName: baseName, Codec: codec})
	}
	return tasks, nil
}
