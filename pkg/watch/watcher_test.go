package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_DirectWrite(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "counter.jsx")
	if err := os.WriteFile(srcPath, []byte("const a = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var callCount atomic.Int32
	watcher := NewWatcher([]string{tmpDir}, func(changed []string) error {
		callCount.Add(1)
		return nil
	})
	watcher.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(srcPath, []byte("const a = 2;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce + processing
	time.Sleep(200 * time.Millisecond)

	if callCount.Load() != 1 {
		t.Errorf("expected onChange to be called once, got %d", callCount.Load())
	}

	cancel()
	<-errCh
}

func TestWatcher_AtomicSave(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "widget.tsx")
	if err := os.WriteFile(srcPath, []byte("const a = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var callCount atomic.Int32
	watcher := NewWatcher([]string{tmpDir}, func(changed []string) error {
		callCount.Add(1)
		return nil
	})
	watcher.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	// Simulate atomic save (write to temp, rename)
	tmpPath := filepath.Join(tmpDir, "widget.tsx.tmp")
	if err := os.WriteFile(tmpPath, []byte("const a = 2;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmpPath, srcPath); err != nil {
		t.Fatal(err)
	}

	// Wait for debounce + processing
	time.Sleep(500 * time.Millisecond)

	if callCount.Load() < 1 {
		t.Errorf("expected onChange to be called at least once for atomic save, got %d", callCount.Load())
	}

	cancel()
	<-errCh
}

func TestWatcher_MultipleWritesDebounced(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "app.jsx")
	if err := os.WriteFile(srcPath, []byte("const a = 0;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var callCount atomic.Int32
	watcher := NewWatcher([]string{tmpDir}, func(changed []string) error {
		callCount.Add(1)
		return nil
	})
	watcher.SetDebounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx)
	}()

	// Wait for watcher to start
	time.Sleep(100 * time.Millisecond)

	// Multiple rapid writes should be debounced to one call
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(srcPath, []byte("const a = "+string(rune('0'+i))+";\n"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Wait for debounce
	time.Sleep(300 * time.Millisecond)

	if callCount.Load() != 1 {
		t.Errorf("expected rapid writes to be debounced to 1 call, got %d", callCount.Load())
	}

	cancel()
	<-errCh
}

func TestWatcher_IgnoresNonSourceFiles(t *testing.T) {
	tmpDir := t.TempDir()

	var callCount atomic.Int32
	watcher := NewWatcher([]string{tmpDir}, func(changed []string) error {
		callCount.Add(1)
		return nil
	})
	watcher.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	// Swap files and logs should not trigger rebuilds
	if err := os.WriteFile(filepath.Join(tmpDir, "app.jsx.swp"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "build.log"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)

	if callCount.Load() != 0 {
		t.Errorf("expected no rebuilds for non-source files, got %d", callCount.Load())
	}

	cancel()
	<-errCh
}

func TestWatcher_ReportsChangedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "a.jsx")
	second := filepath.Join(tmpDir, "b.tsx")

	var mu sync.Mutex
	var got []string
	watcher := NewWatcher([]string{tmpDir}, func(changed []string) error {
		mu.Lock()
		got = append([]string(nil), changed...)
		mu.Unlock()
		return nil
	})
	watcher.SetDebounce(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Watch(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(first, []byte("const a = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("const b = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 {
		t.Fatalf("expected both files in one batch, got %v", got)
	}
	if got[0] != first || got[1] != second {
		t.Errorf("changed files should be sorted, got %v", got)
	}
}
