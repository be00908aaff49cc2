package hwaccel

import (
	"context"
	"errors"
	"testing"
)

func TestDetectFirstSuccessWins(t *testing.T) {
	detector := NewDetector("ffmpeg", []string{"cuda", "vaapi", "none"}, nil)
	var tried []string
	detector.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		mode := modeFromArgs(args)
		tried = append(tried, mode)
		if mode == "vaapi" {
			return nil
		}
		return errors.New("exit status 1")
	})

	if got := detector.Detect(context.Background()); got != "vaapi" {
		t.Fatalf("expected vaapi, got %q", got)
	}
	if len(tried) != 2 || tried[0] != "cuda" || tried[1] != "vaapi" {
		t.Fatalf("unexpected probe order: %v", tried)
	}
}

func TestDetectStopsAtSoftwareSentinel(t *testing.T) {
	detector := NewDetector("ffmpeg", []string{"none", "cuda"}, nil)
	detector.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("sentinel must not be probed")
		return nil
	})

	if got := detector.Detect(context.Background()); got != ModeNone {
		t.Fatalf("expected software sentinel, got %q", got)
	}
}

func TestDetectFallsBackWhenAllFail(t *testing.T) {
	detector := NewDetector("ffmpeg", []string{"cuda", "vaapi", "qsv"}, nil)
	detector.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	if got := detector.Detect(context.Background()); got != ModeNone {
		t.Fatalf("expected fallback to software, got %q", got)
	}
}

func TestDetectProbeArgv(t *testing.T) {
	detector := NewDetector("ffmpeg6", []string{"cuda"}, nil)
	var gotName string
	var gotArgs []string
	detector.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	detector.Detect(context.Background())

	if gotName != "ffmpeg6" {
		t.Fatalf("unexpected binary: %q", gotName)
	}
	want := []string{
		"-f", "lavfi",
		"-i", "testsrc=duration=1:size=320x240:rate=1",
		"-hwaccel", "cuda",
		"-f", "null", "-",
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("unexpected argv: %v", gotArgs)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Fatalf("argv[%d] = %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func modeFromArgs(args []string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-hwaccel" {
			return args[i+1]
		}
	}
	return ""
}
