package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"poolconv/internal/catalog"
	"poolconv/internal/convert"
	"poolconv/internal/ledger"
	"poolconv/internal/logging"
	"poolconv/internal/processed"
)

const errorExcerptLimit = 200

// Recorder persists conversion attempts. *ledger.Store satisfies it; a nil
// Recorder disables history.
type Recorder interface {
	Record(ctx context.Context, attempt ledger.Attempt) (string, error)
}

// Processor converts a single task and finalizes the bookkeeping around it.
type Processor struct {
	converter *convert.Converter
	catalog   catalog.Catalog
	processed *processed.Set
	recorder  Recorder
	replace   bool
	hwMode    string
	logger    *slog.Logger
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	Converter *convert.Converter
	Catalog   catalog.Catalog
	Processed *processed.Set
	Recorder  Recorder
	Replace   bool
	HWAccel   string
	Logger    *slog.Logger
}

// NewProcessor constructs a Processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	return &Processor{
		converter: opts.Converter,
		catalog:   opts.Catalog,
		processed: opts.Processed,
		recorder:  opts.Recorder,
		replace:   opts.Replace,
		hwMode:    opts.HWAccel,
		logger:    logging.NewComponentLogger(opts.Logger, "processor"),
	}
}

// Process converts task's clip, optionally swaps it into the media pool, and
// marks the base name processed. A failed catalog replace is logged and does
// not undo any of that; the converted file on disk is authoritative.
func (p *Processor) Process(ctx context.Context, task Task) error {
	attemptID := uuid.NewString()
	clipLogger := p.logger.With(
		logging.String(logging.FieldClip, task.BaseName),
		logging.String(logging.FieldAttemptID, attemptID),
	)

	clipLogger.Info("converting clip",
		logging.String(logging.FieldCodec, task.Codec),
		logging.String(logging.FieldSource, task.Clip.FilePath))

	started := time.Now()
	result, err := p.converter.Convert(ctx, task.Clip.FilePath)
	if err != nil {
		clipLogger.Error("conversion failed", logging.Error(err))
		p.record(ctx, ledger.Attempt{
			AttemptID:    attemptID,
			BaseName:     task.BaseName,
			SourcePath:   task.Clip.FilePath,
			Codec:        task.Codec,
			HWAccel:      p.hwMode,
			Status:       ledger.StatusFailed,
			ErrorExcerpt: truncateError(err),
			Duration:     time.Since(started),
		})
		return err
	}

	if p.replace {
		if replaceErr := p.catalog.Replace(ctx, task.Clip, result.OutputPath); replaceErr != nil {
			clipLogger.Warn("could not replace clip in media pool", logging.Error(replaceErr))
		} else {
			clipLogger.Info("replaced clip in media pool")
		}
	}

	p.processed.Mark(task.BaseName)

	status := ledger.StatusCompleted
	if result.Skipped {
		status = ledger.StatusSkipped
	}
	p.record(ctx, ledger.Attempt{
		AttemptID:  attemptID,
		BaseName:   task.BaseName,
		SourcePath: task.Clip.FilePath,
		OutputPath: result.OutputPath,
		Codec:      task.Codec,
		HWAccel:    p.hwMode,
		Status:     status,
		Duration:   time.Since(started),
	})

	clipLogger.Info("conversion complete",
		logging.String(logging.FieldOutput, result.OutputPath),
		logging.Bool("skipped", result.Skipped),
		logging.Duration(logging.FieldDuration, time.Since(started)))
	return nil
}

func (p *Processor) record(ctx context.Context, attempt ledger.Attempt) {
	if p.recorder == nil {
		return
	}
	if _, err := p.recorder.Record(ctx, attempt); err != nil {
		p.logger.Warn("failed to record conversion attempt", logging.Error(err))
	}
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) <= errorExcerptLimit {
		return msg
	}
	return msg[:errorExcerptLimit] + "..."
}
