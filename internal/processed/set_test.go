package processed

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestLoadFromOutputDirSeedsBaseNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"interview_converted.mov",
		"broll_converted.mov",
		"notes.txt",
		"raw_clip.mp4",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub_converted.mov"), 0o755); err != nil {
		t.Fatalf("seed dir: %v", err)
	}

	set, err := LoadFromOutputDir(dir, nil)
	if err != nil {
		t.Fatalf("LoadFromOutputDir returned error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", set.Len())
	}
	for _, base := range []string{"interview", "broll"} {
		if !set.Contains(base) {
			t.Fatalf("expected %q in set", base)
		}
	}
	if set.Contains("notes") || set.Contains("raw_clip") {
		t.Fatal("unexpected entries from non-converted files")
	}
	if set.Contains("sub") {
		t.Fatal("directories must not seed the set")
	}
}

func TestLoadFromMissingDirStartsEmpty(t *testing.T) {
	set, err := LoadFromOutputDir(filepath.Join(t.TempDir(), "absent"), nil)
	if err != nil {
		t.Fatalf("expected missing dir tolerated, got %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d", set.Len())
	}
}

func TestMarkAndContains(t *testing.T) {
	set := NewSet(nil)
	if set.Contains("clip") {
		t.Fatal("expected empty set")
	}
	set.Mark("clip")
	if !set.Contains("clip") {
		t.Fatal("expected clip after Mark")
	}
}

func TestConcurrentMarkAndContains(t *testing.T) {
	set := NewSet(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				set.Mark("clip")
				set.Contains("clip")
			}
		}(i)
	}
	wg.Wait()
	if set.Len() != 1 {
		t.Fatalf("expected single entry, got %d", set.Len())
	}
}
