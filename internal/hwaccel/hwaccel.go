package hwaccel

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"poolconv/internal/logging"
)

// ModeNone is the software-only sentinel. It always "works" and carries no
// ffmpeg flag.
const ModeNone = "none"

const probeTimeout = 10 * time.Second

type commandRunner func(ctx context.Context, name string, args ...string) error

// Detector probes acceleration backends with the configured ffmpeg binary.
type Detector struct {
	binary   string
	priority []string
	logger   *slog.Logger
	run      commandRunner
}

// NewDetector constructs a Detector. An empty priority list falls back to the
// software sentinel only.
func NewDetector(binary string, priority []string, logger *slog.Logger) *Detector {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if len(priority) == 0 {
		priority = []string{ModeNone}
	}
	return &Detector{
		binary:   binary,
		priority: append([]string(nil), priority...),
		logger:   logging.NewComponentLogger(logger, "hwaccel"),
		run:      runSilent,
	}
}

// WithCommandRunner replaces process execution, for tests.
func (d *Detector) WithCommandRunner(run func(ctx context.Context, name string, args ...string) error) {
	if run != nil {
		d.run = run
	}
}

// Detect returns the first backend whose synthetic encode succeeds. Reaching
// the software sentinel in the list selects it immediately; exhausting the
// list falls back to it. Detect never fails.
func (d *Detector) Detect(ctx context.Context) string {
	for _, mode := range d.priority {
		if mode == ModeNone {
			d.logger.Info("using software encoding")
			return ModeNone
		}

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := d.run(probeCtx, d.binary,
			"-f", "lavfi",
			"-i", "testsrc=duration=1:size=320x240:rate=1",
			"-hwaccel", mode,
			"-f", "null", "-",
		)
		cancel()
		if err == nil {
			d.logger.Info("using hardware acceleration", logging.String(logging.FieldHWAccel, mode))
			return mode
		}
		d.logger.Debug("acceleration backend unavailable",
			logging.String(logging.FieldHWAccel, mode),
			logging.Error(err))
	}

	d.logger.Warn("no hardware acceleration available, using software encoding")
	return ModeNone
}

func runSilent(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	_, err := cmd.CombinedOutput()
	return err
}
