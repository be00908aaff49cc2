package ffprobe

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"poolconv/internal/services"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Prober inspects media files with an external ffprobe binary.
type Prober struct {
	binary  string
	timeout time.Duration
	run     commandRunner
}

// New constructs a Prober. An empty binary falls back to "ffprobe" on PATH;
// a non-positive timeout falls back to five seconds.
func New(binary string, timeout time.Duration) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{binary: binary, timeout: timeout, run: runCombined}
}

// WithCommandRunner replaces process execution, for tests.
func (p *Prober) WithCommandRunner(run func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	if run != nil {
		p.run = run
	}
}

// Binary returns the prober executable name.
func (p *Prober) Binary() string {
	return p.binary
}

// AudioCodec returns the lowercased codec name of the first audio stream in
// path. Files without an audio stream yield an empty codec and no error.
func (p *Prober) AudioCodec(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Wrap(services.ErrValidation, "probe", "audio codec", "empty path", nil)
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	output, err := p.run(probeCtx, p.binary,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		excerpt := strings.TrimSpace(string(output))
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "probe", "audio codec", path, err)
		}
		if excerpt != "" {
			err = errors.Join(err, errors.New(excerpt))
		}
		return "", services.Wrap(services.ErrExternalTool, "probe", "audio codec", path, err)
	}

	codec := strings.ToLower(strings.TrimSpace(firstLine(string(output))))
	return codec, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
