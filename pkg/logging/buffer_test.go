package logging

import (
	"log/slog"
	"testing"
)

func TestLogBuffer_AddAndRecent(t *testing.T) {
	buffer := NewLogBuffer(5)

	for i := 0; i < 3; i++ {
		buffer.Add(BufferedEntry{
			Level:   slog.LevelInfo,
			Message: "entry built",
		})
	}

	if buffer.Count() != 3 {
		t.Errorf("expected count 3, got %d", buffer.Count())
	}

	recent := buffer.Recent(2)
	if len(recent) != 2 {
		t.Errorf("expected 2 entries, got %d", len(recent))
	}

	// Get more than available
	recent = buffer.Recent(10)
	if len(recent) != 3 {
		t.Errorf("expected 3 entries, got %d", len(recent))
	}
}

func TestLogBuffer_EvictsOldest(t *testing.T) {
	buffer := NewLogBuffer(3)

	// Add more entries than the buffer holds
	for i := 0; i < 5; i++ {
		buffer.Add(BufferedEntry{
			Level:   slog.LevelInfo,
			Message: "rebuild",
			Attrs:   map[string]any{"index": i},
		})
	}

	if buffer.Count() != 3 {
		t.Errorf("expected count 3 after eviction, got %d", buffer.Count())
	}

	recent := buffer.Recent(3)
	if len(recent) != 3 {
		t.Errorf("expected 3 entries, got %d", len(recent))
	}

	// Verify we kept the most recent entries (indices 2, 3, 4)
	for i, entry := range recent {
		expectedIndex := i + 2
		if idx, ok := entry.Attrs["index"].(int); !ok || idx != expectedIndex {
			t.Errorf("entry %d: expected index %d, got %v", i, expectedIndex, entry.Attrs["index"])
		}
	}
}

func TestLogBuffer_EmptyBuffer(t *testing.T) {
	buffer := NewLogBuffer(5)

	recent := buffer.Recent(5)
	if len(recent) > 0 {
		t.Errorf("expected empty for empty buffer, got %v", recent)
	}
}

func TestLogBuffer_ZeroOrNegativeN(t *testing.T) {
	buffer := NewLogBuffer(5)

	buffer.Add(BufferedEntry{Level: slog.LevelInfo, Message: "first"})
	buffer.Add(BufferedEntry{Level: slog.LevelInfo, Message: "second"})

	// Zero n should return all
	recent := buffer.Recent(0)
	if len(recent) != 2 {
		t.Errorf("expected 2 entries for n=0, got %d", len(recent))
	}

	// Negative n should return all
	recent = buffer.Recent(-1)
	if len(recent) != 2 {
		t.Errorf("expected 2 entries for n=-1, got %d", len(recent))
	}
}

func TestLogBuffer_Problems(t *testing.T) {
	buffer := NewLogBuffer(10)

	buffer.Add(BufferedEntry{Level: slog.LevelInfo, Message: "entry built"})
	buffer.Add(BufferedEntry{Level: slog.LevelWarn, Message: "backend failed, retrying"})
	buffer.Add(BufferedEntry{Level: slog.LevelInfo, Message: "entry built"})
	buffer.Add(BufferedEntry{Level: slog.LevelError, Message: "build failed"})

	problems := buffer.Problems(0)
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	if problems[0].Message != "backend failed, retrying" || problems[1].Message != "build failed" {
		t.Errorf("problems in wrong order: %v", problems)
	}

	// Limit keeps the most recent
	problems = buffer.Problems(1)
	if len(problems) != 1 || problems[0].Message != "build failed" {
		t.Errorf("expected only the latest problem, got %v", problems)
	}
}

func TestBufferHandler_BasicLogging(t *testing.T) {
	buffer := NewLogBuffer(10)
	handler := NewBufferHandler(buffer, nil)
	logger := slog.New(handler)

	logger.Info("entry built", "entry", "counter.jsx")

	entries := buffer.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Level != slog.LevelInfo {
		t.Errorf("expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "entry built" {
		t.Errorf("expected message 'entry built', got %s", entry.Message)
	}
	if entry.Attrs["entry"] != "counter.jsx" {
		t.Errorf("expected entry=counter.jsx, got %v", entry.Attrs["entry"])
	}
}

func TestBufferHandler_ComponentAttr(t *testing.T) {
	buffer := NewLogBuffer(10)
	handler := NewBufferHandler(buffer, nil)
	logger := WithComponent(slog.New(handler), "watcher")

	logger.Info("watching for source changes")

	entries := buffer.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Component != "watcher" {
		t.Errorf("expected component 'watcher', got %s", entry.Component)
	}
	if _, ok := entry.Attrs["component"]; ok {
		t.Error("component should not be duplicated into attrs")
	}
}

func TestBufferHandler_GroupPrefix(t *testing.T) {
	buffer := NewLogBuffer(10)
	handler := NewBufferHandler(buffer, nil)
	logger := slog.New(handler).WithGroup("build")

	logger.Info("entry built", "duration", "12ms")

	entries := buffer.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Attrs["build.duration"] != "12ms" {
		t.Errorf("expected build.duration attr, got %v", entries[0].Attrs)
	}
}

func TestBufferHandler_MultipleLevels(t *testing.T) {
	buffer := NewLogBuffer(10)
	handler := NewBufferHandler(buffer, nil)
	logger := slog.New(handler)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := buffer.Recent(10)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	expectedLevels := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}
	for i, entry := range entries {
		if entry.Level != expectedLevels[i] {
			t.Errorf("entry %d: expected level %s, got %s", i, expectedLevels[i], entry.Level)
		}
	}
}
