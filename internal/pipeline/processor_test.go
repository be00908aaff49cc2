package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"poolconv/internal/catalog"
	"poolconv/internal/convert"
	"poolconv/internal/ledger"
	"poolconv/internal/processed"
)

type memoryRecorder struct {
	attempts []ledger.Attempt
}

func (m *memoryRecorder) Record(ctx context.Context, attempt ledger.Attempt) (string, error) {
	m.attempts = append(m.attempts, attempt)
	return attempt.AttemptID, nil
}

func newWorkingConverter(t *testing.T) *convert.Converter {
	t.Helper()
	converter := convert.New(convert.Options{OutputDir: t.TempDir()})
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		output := args[len(args)-1]
		return nil, os.WriteFile(output, []byte("mov"), 0o644)
	})
	return converter
}

func newFailingConverter(t *testing.T) *convert.Converter {
	t.Helper()
	converter := convert.New(convert.Options{OutputDir: t.TempDir()})
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("Invalid data"), errors.New("exit status 1")
	})
	return converter
}

func taskFixture() Task {
	return Task{
		Clip:     catalog.Clip{ID: "c1", Name: "interview", FilePath: "/media/interview.mp4"},
		BaseName: "interview",
		Codec:    "aac",
	}
}

func TestProcessSuccessMarksProcessedAndReplaces(t *testing.T) {
	cat := &fakeCatalog{}
	set := processed.NewSet(nil)
	recorder := &memoryRecorder{}

	processor := NewProcessor(ProcessorOptions{
		Converter: newWorkingConverter(t),
		Catalog:   cat,
		Processed: set,
		Recorder:  recorder,
		Replace:   true,
		HWAccel:   "cuda",
	})

	if err := processor.Process(context.Background(), taskFixture()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if !set.Contains("interview") {
		t.Fatal("expected base name marked processed")
	}
	if len(cat.replaced) != 1 || cat.replaced[0].ID != "c1" {
		t.Fatalf("expected clip replaced, got %+v", cat.replaced)
	}
	if filepath.Base(cat.replacePath[0]) != "interview_converted.mov" {
		t.Fatalf("unexpected replacement path: %q", cat.replacePath[0])
	}
	if len(recorder.attempts) != 1 {
		t.Fatalf("expected 1 ledger attempt, got %d", len(recorder.attempts))
	}
	attempt := recorder.attempts[0]
	if attempt.Status != ledger.StatusCompleted || attempt.Codec != "aac" || attempt.HWAccel != "cuda" {
		t.Fatalf("unexpected attempt: %+v", attempt)
	}
}

func TestProcessFailureLeavesClipUnprocessed(t *testing.T) {
	cat := &fakeCatalog{}
	set := processed.NewSet(nil)
	recorder := &memoryRecorder{}

	processor := NewProcessor(ProcessorOptions{
		Converter: newFailingConverter(t),
		Catalog:   cat,
		Processed: set,
		Recorder:  recorder,
		Replace:   true,
	})

	if err := processor.Process(context.Background(), taskFixture()); err == nil {
		t.Fatal("expected error")
	}

	if set.Contains("interview") {
		t.Fatal("failed conversion must not mark processed")
	}
	if len(cat.replaced) != 0 {
		t.Fatal("failed conversion must not touch the catalog")
	}
	if len(recorder.attempts) != 1 || recorder.attempts[0].Status != ledger.StatusFailed {
		t.Fatalf("expected failed attempt recorded, got %+v", recorder.attempts)
	}
	if recorder.attempts[0].ErrorExcerpt == "" {
		t.Fatal("expected error excerpt in ledger")
	}
}

func TestProcessReplaceFailureIsBestEffort(t *testing.T) {
	cat := &fakeCatalog{replaceErr: errors.New("gateway down")}
	set := processed.NewSet(nil)

	processor := NewProcessor(ProcessorOptions{
		Converter: newWorkingConverter(t),
		Catalog:   cat,
		Processed: set,
		Replace:   true,
	})

	if err := processor.Process(context.Background(), taskFixture()); err != nil {
		t.Fatalf("replace failure must not fail the task: %v", err)
	}
	if !set.Contains("interview") {
		t.Fatal("expected processed mark despite replace failure")
	}
}

func TestProcessWithReplaceDisabledSkipsCatalog(t *testing.T) {
	cat := &fakeCatalog{replaceErr: errors.New("must not be called")}
	set := processed.NewSet(nil)

	processor := NewProcessor(ProcessorOptions{
		Converter: newWorkingConverter(t),
		Catalog:   cat,
		Processed: set,
		Replace:   false,
	})

	if err := processor.Process(context.Background(), taskFixture()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(cat.replaced) != 0 {
		t.Fatal("catalog must not be touched with replace disabled")
	}
}

func TestProcessExistingOutputRecordsSkip(t *testing.T) {
	converter := convert.New(convert.Options{OutputDir: t.TempDir()})
	existing := converter.OutputPath("/media/interview.mp4")
	if err := os.WriteFile(existing, []byte("mov"), 0o644); err != nil {
		t.Fatalf("seed output: %v", err)
	}
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("encoder must not run")
		return nil, nil
	})

	recorder := &memoryRecorder{}
	processor := NewProcessor(ProcessorOptions{
		Converter: converter,
		Catalog:   &fakeCatalog{},
		Processed: processed.NewSet(nil),
		Recorder:  recorder,
	})

	if err := processor.Process(context.Background(), taskFixture()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(recorder.attempts) != 1 || recorder.attempts[0].Status != ledger.StatusSkipped {
		t.Fatalf("expected skipped attempt, got %+v", recorder.attempts)
	}
}
