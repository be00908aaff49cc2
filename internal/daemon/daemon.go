package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"poolconv/internal/catalog"
	"poolconv/internal/config"
	"poolconv/internal/convert"
	"poolconv/internal/hwaccel"
	"poolconv/internal/ledger"
	"poolconv/internal/logging"
	"poolconv/internal/media/ffprobe"
	"poolconv/internal/pipeline"
	"poolconv/internal/probecache"
	"poolconv/internal/processed"
	"poolconv/internal/services"
)

// Daemon wires the conversion pipeline together and runs it until shutdown.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  catalog.Catalog
	lock     *flock.Flock
	lockPath string
}

// New constructs a Daemon. The catalog is injected so the CLI can share the
// gateway client and tests can substitute a fake.
func New(cfg *config.Config, cat catalog.Catalog, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "poolconv.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		catalog:  cat,
		lock:     flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// Run acquires the instance lock, connects to the media pool, negotiates
// hardware acceleration, and polls until ctx is canceled.
//
// A missing project is an expected startup condition: it is logged and
// returned as services.ErrNotFound so the caller can exit cleanly.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return services.Wrap(services.ErrConfiguration, "daemon", "start", "another poolconv instance is already running", nil)
	}
	defer func() { _ = d.lock.Unlock() }()

	d.logger.Info("poolconv daemon started", logging.String("lock", d.lockPath))

	if err := d.catalog.Initialize(ctx); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			d.logger.Error("no active project, exiting", logging.Error(err))
		} else {
			d.logger.Error("media pool initialization failed", logging.Error(err))
		}
		return err
	}

	detector := hwaccel.NewDetector(d.cfg.FFmpegBinary(), d.cfg.FFmpeg.HWAccelPriority, d.logger)
	hwMode := detector.Detect(ctx)

	prober := ffprobe.New(d.cfg.FFprobeBinary(), time.Duration(d.cfg.FFmpeg.ProbeTimeout)*time.Second)
	cache := probecache.New(d.cfg.Cache.CodecCacheSize, d.logger)

	set := processed.NewSet(d.logger)
	if d.cfg.Cache.SkipAlreadyProcessed {
		set, err = processed.LoadFromOutputDir(d.cfg.Paths.OutputDir, d.logger)
		if err != nil {
			return fmt.Errorf("load processed set: %w", err)
		}
	}

	var recorder pipeline.Recorder
	if d.cfg.Ledger.Enabled {
		store, err := ledger.Open(d.cfg.Paths.LogDir)
		if err != nil {
			return fmt.Errorf("open conversion ledger: %w", err)
		}
		defer store.Close()
		recorder = store
	}

	converter := convert.New(convert.Options{
		Binary:    d.cfg.FFmpegBinary(),
		OutputDir: d.cfg.Paths.OutputDir,
		Threads:   d.cfg.FFmpeg.Threads,
		HWAccel:   hwMode,
		Logger:    d.logger,
	})

	scanner := pipeline.NewScanner(d.catalog, cache, prober.AudioCodec, set, d.logger)
	processor := pipeline.NewProcessor(pipeline.ProcessorOptions{
		Converter: converter,
		Catalog:   d.catalog,
		Processed: set,
		Recorder:  recorder,
		Replace:   d.cfg.Catalog.ReplaceInMediaPool,
		HWAccel:   hwMode,
		Logger:    d.logger,
	})

	d.logger.Info("monitoring media pool",
		logging.String("output_dir", d.cfg.Paths.OutputDir),
		logging.Int("workers", d.cfg.Workers.MaxWorkers),
		logging.String(logging.FieldHWAccel, hwMode))

	loop := &Loop{
		Lister:       scanner,
		Pool:         pipeline.NewPool(d.cfg.Workers.MaxWorkers, d.logger),
		Process:      processor.Process,
		BatchSize:    d.cfg.Workers.BatchSize,
		PollInterval: time.Duration(d.cfg.Workers.PollInterval) * time.Second,
		BatchTimeout: time.Duration(d.cfg.Workers.BatchTimeout) * time.Second,
		Logger:       d.logger,
	}
	err = loop.Run(ctx)
	d.logger.Info("poolconv daemon shutting down")
	return err
}
