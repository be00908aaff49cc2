package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"poolconv/internal/config"
	"poolconv/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Ledger.Enabled = false
	return &cfg
}

func TestNewRequiresConfigAndCatalog(t *testing.T) {
	if _, err := New(nil, &loopCatalog{}, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := New(testConfig(t), nil, nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testConfig(t)

	held := flock.New(filepath.Join(cfg.Paths.LogDir, "poolconv.lock"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("seed lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	d, err := New(cfg, &loopCatalog{}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	runErr := d.Run(context.Background())
	if !errors.Is(runErr, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker for duplicate instance, got %v", runErr)
	}
}

type failingInitCatalog struct {
	loopCatalog
}

func (c *failingInitCatalog) Initialize(ctx context.Context) error {
	return services.Wrap(services.ErrNotFound, "catalog", "gateway request", "no active project", nil)
}

func TestRunSurfacesMissingProject(t *testing.T) {
	cfg := testConfig(t)
	d, err := New(cfg, &failingInitCatalog{}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	runErr := d.Run(context.Background())
	if !errors.Is(runErr, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", runErr)
	}
}
