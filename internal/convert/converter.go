package convert

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"poolconv/internal/hwaccel"
	"poolconv/internal/logging"
	"poolconv/internal/services"
)

// OutputSuffix is appended to a clip's base name to form its converted file.
const OutputSuffix = "_converted.mov"

const stderrExcerptLimit = 200

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options configures a Converter.
type Options struct {
	Binary    string
	OutputDir string
	Threads   int
	HWAccel   string
	Logger    *slog.Logger
}

// Result describes a completed conversion.
type Result struct {
	OutputPath string
	Skipped    bool
	Duration   time.Duration
}

// Converter invokes ffmpeg to produce PCM-audio copies of clips.
type Converter struct {
	binary    string
	outputDir string
	threads   int
	hwMode    string
	logger    *slog.Logger
	run       commandRunner
}

// New constructs a Converter from options.
func New(opts Options) *Converter {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	threads := opts.Threads
	if threads < 0 {
		threads = 0
	}
	mode := strings.TrimSpace(opts.HWAccel)
	if mode == "" {
		mode = hwaccel.ModeNone
	}
	return &Converter{
		binary:    binary,
		outputDir: opts.OutputDir,
		threads:   threads,
		hwMode:    mode,
		logger:    logging.NewComponentLogger(opts.Logger, "converter"),
		run:       runCaptureStderr,
	}
}

// WithCommandRunner replaces process execution, for tests. The runner returns
// the encoder's stderr alongside its exit error.
func (c *Converter) WithCommandRunner(run func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	if run != nil {
		c.run = run
	}
}

// OutputPath returns the deterministic converted-file path for sourcePath.
func (c *Converter) OutputPath(sourcePath string) string {
	return filepath.Join(c.outputDir, BaseName(sourcePath)+OutputSuffix)
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Convert transcodes sourcePath into the output directory. When the output
// file already exists the encoder is skipped and the existing path returned.
//
// The conversion itself is not bounded by a timeout; cancellation of ctx is
// the only way to interrupt a running encode.
func (c *Converter) Convert(ctx context.Context, sourcePath string) (Result, error) {
	outputPath := c.OutputPath(sourcePath)

	if _, err := os.Stat(outputPath); err == nil {
		c.logger.Debug("output already exists",
			logging.String(logging.FieldOutput, outputPath))
		return Result{OutputPath: outputPath, Skipped: true}, nil
	}

	args := []string{"-y"}
	if c.hwMode != hwaccel.ModeNone {
		args = append(args, "-hwaccel", c.hwMode)
	}
	args = append(args,
		"-i", sourcePath,
		"-threads", strconv.Itoa(c.threads),
		"-c:v", "copy",
		"-c:a", "pcm_s16le",
		"-avoid_negative_ts", "make_zero",
		outputPath,
	)

	started := time.Now()
	stderr, err := c.run(ctx, c.binary, args...)
	elapsed := time.Since(started)

	if err != nil {
		c.logger.Error("encoder failed",
			logging.String(logging.FieldSource, sourcePath),
			logging.String("stderr", excerpt(stderr)),
			logging.Error(err))
		c.removePartial(outputPath)
		return Result{}, services.Wrap(services.ErrExternalTool, "converter", "transcode", sourcePath, err)
	}

	if _, statErr := os.Stat(outputPath); statErr != nil {
		// Zero exit without the expected file. Nothing to clean up.
		c.logger.Error("encoder exited cleanly but produced no output",
			logging.String(logging.FieldSource, sourcePath),
			logging.String(logging.FieldOutput, outputPath))
		return Result{}, services.Wrap(services.ErrExternalTool, "converter", "transcode", "output file missing after encode", statErr)
	}

	return Result{OutputPath: outputPath, Duration: elapsed}, nil
}

func (c *Converter) removePartial(outputPath string) {
	if _, err := os.Stat(outputPath); err != nil {
		return
	}
	if err := os.Remove(outputPath); err != nil {
		c.logger.Warn("failed to remove partial output",
			logging.String(logging.FieldOutput, outputPath),
			logging.Error(err))
	}
}

func excerpt(stderr []byte) string {
	trimmed := strings.TrimSpace(string(stderr))
	if len(trimmed) <= stderrExcerptLimit {
		return trimmed
	}
	return trimmed[:stderrExcerptLimit] + "..."
}

func runCaptureStderr(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}
