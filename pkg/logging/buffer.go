package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BufferedEntry is one captured diagnostic record.
type BufferedEntry struct {
	Time      time.Time
	Level     slog.Level
	Component string
	Message   string
	Attrs     map[string]any
}

// LogBuffer keeps the most recent diagnostics of a build or watch
// session in memory, so the CLI can summarize what happened on exit
// without depending on terminal scrollback.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []BufferedEntry
	start   int // index of the oldest entry
	size    int
}

// NewLogBuffer creates a buffer holding at most max entries.
func NewLogBuffer(max int) *LogBuffer {
	if max <= 0 {
		max = 1000
	}
	return &LogBuffer{entries: make([]BufferedEntry, max)}
}

// Add appends an entry, evicting the oldest once the buffer is full.
func (b *LogBuffer) Add(e BufferedEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[(b.start+b.size)%len(b.entries)] = e
	if b.size < len(b.entries) {
		b.size++
	} else {
		b.start = (b.start + 1) % len(b.entries)
	}
}

// Recent returns up to n of the most recent entries, oldest first.
// n <= 0 returns everything buffered.
func (b *LogBuffer) Recent(n int) []BufferedEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || n > b.size {
		n = b.size
	}
	if n == 0 {
		return nil
	}
	out := make([]BufferedEntry, n)
	first := b.start + b.size - n
	for i := range out {
		out[i] = b.entries[(first+i)%len(b.entries)]
	}
	return out
}

// Problems returns up to n of the most recent entries at warn level or
// worse, oldest first. n <= 0 returns all of them.
func (b *LogBuffer) Problems(n int) []BufferedEntry {
	all := b.Recent(0)
	var out []BufferedEntry
	for _, e := range all {
		if e.Level >= slog.LevelWarn {
			out = append(out, e)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Count returns the number of entries currently buffered.
func (b *LogBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// BufferHandler is a slog.Handler that captures records into a
// LogBuffer while forwarding them to an inner handler.
type BufferHandler struct {
	buffer *LogBuffer
	inner  slog.Handler
	attrs  []slog.Attr
	prefix string // dotted group prefix for record attrs
}

// NewBufferHandler creates a handler capturing into buffer. If inner is
// nil, records are only buffered.
func NewBufferHandler(buffer *LogBuffer, inner slog.Handler) *BufferHandler {
	return &BufferHandler{
		buffer: buffer,
		inner:  inner,
	}
}

// Enabled defers to the inner handler; without one everything is kept.
func (h *BufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.inner != nil {
		return h.inner.Enabled(ctx, level)
	}
	return true
}

// Handle captures the record and forwards it.
func (h *BufferHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := BufferedEntry{
		Time:    r.Time,
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any),
	}

	add := func(a slog.Attr, prefixed bool) {
		if a.Key == "component" {
			entry.Component = a.Value.String()
			return
		}
		key := a.Key
		if prefixed && h.prefix != "" {
			key = h.prefix + "." + key
		}
		entry.Attrs[key] = attrValue(a.Value)
	}

	for _, a := range h.attrs {
		add(a, false)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a, true)
		return true
	})
	if len(entry.Attrs) == 0 {
		entry.Attrs = nil
	}

	h.buffer.Add(entry)

	if h.inner != nil {
		return h.inner.Handle(ctx, r)
	}
	return nil
}

// WithAttrs returns a handler whose captures carry the given attributes.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandler := &BufferHandler{
		buffer: h.buffer,
		prefix: h.prefix,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
	if h.inner != nil {
		newHandler.inner = h.inner.WithAttrs(attrs)
	}
	return newHandler
}

// WithGroup returns a handler that prefixes record attribute keys with
// the group name.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	prefix := name
	if h.prefix != "" {
		prefix = h.prefix + "." + name
	}
	newHandler := &BufferHandler{
		buffer: h.buffer,
		inner:  h.inner,
		attrs:  h.attrs,
		prefix: prefix,
	}
	if h.inner != nil {
		newHandler.inner = h.inner.WithGroup(name)
	}
	return newHandler
}

// attrValue resolves a slog.Value to a plain Go value for the entry map.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindGroup:
		attrs := v.Group()
		m := make(map[string]any, len(attrs))
		for _, a := range attrs {
			m[a.Key] = attrValue(a.Value)
		}
		return m
	default:
		return v.Any()
	}
}
