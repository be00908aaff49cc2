package processed

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"poolconv/internal/convert"
	"poolconv/internal/logging"
)

// Set is a thread-safe collection of base names with converted output.
type Set struct {
	mu     sync.RWMutex
	names  map[string]struct{}
	logger *slog.Logger
}

// NewSet returns an empty set.
func NewSet(logger *slog.Logger) *Set {
	return &Set{
		names:  make(map[string]struct{}),
		logger: logging.NewComponentLogger(logger, "processed"),
	}
}

// LoadFromOutputDir seeds the set from converted files already present in
// outputDir. A missing directory is not an error; the set just starts empty.
func LoadFromOutputDir(outputDir string, logger *slog.Logger) (*Set, error) {
	set := NewSet(logger)

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("scan output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, convert.OutputSuffix) {
			continue
		}
		set.Mark(strings.TrimSuffix(name, convert.OutputSuffix))
	}

	set.logger.Info("loaded processed set",
		logging.Int("count", set.Len()),
		logging.String("output_dir", outputDir))
	return set, nil
}

// Contains reports whether baseName has already been converted.
func (s *Set) Contains(baseName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[baseName]
	return ok
}

// Mark records baseName as converted.
func (s *Set) Mark(baseName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[baseName] = struct{}{}
}

// Len returns the number of tracked base names.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}
