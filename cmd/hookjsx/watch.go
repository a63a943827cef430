package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookjsx/transpiler/pkg/config"
	"github.com/hookjsx/transpiler/pkg/logging"
	"github.com/hookjsx/transpiler/pkg/output"
	"github.com/hookjsx/transpiler/pkg/watch"
)

var (
	watchConfig string
	watchQuiet  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the project when sources change",
	Long: `Builds the project, then watches the configured paths and rebuilds
entries as their sources change. Changes are debounced per the project's
watch.debounce_ms setting.

Stops on Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchConfig, "config", "c", "", "Path to project config file")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress progress output")
}

func runWatch() error {
	path := watchConfig
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		path, err = config.Find(cwd)
		if err != nil {
			return err
		}
	}
	project, err := config.Load(path)
	if err != nil {
		return err
	}

	var printer *output.Printer
	if !watchQuiet {
		printer = output.New()
		printer.Banner(version)
	}

	// Watcher events are buffered so the session can be summarized on
	// exit even when progress output is suppressed.
	logBuffer := logging.NewLogBuffer(1000)
	inner := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(logging.NewBufferHandler(logBuffer, inner))

	be, err := selectBackend(project.Backend, logger)
	if err != nil {
		return err
	}

	rebuild := func(changed []string) error {
		entries := entriesFor(project, changed)
		summaries, failed := buildEntries(project, entries, be, logger, false)
		if printer != nil {
			printer.Builds(summaries)
		}
		if failed > 0 {
			logger.Warn("rebuild finished with failures", "failed", failed)
		}
		return nil
	}

	// Initial full build
	if err := rebuild(nil); err != nil {
		return err
	}

	watcher := watch.NewWatcher(project.Watch.Paths, rebuild)
	watcher.SetLogger(logging.WithComponent(logger, "watcher"))
	watcher.SetDebounce(time.Duration(project.Watch.DebounceMS) * time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watcher.Watch(ctx)
	if printer != nil {
		// Replay the session's problems so failures are not lost in
		// scrollback.
		for _, e := range logBuffer.Problems(5) {
			printer.Warn(e.Message, entryKeyvals(e)...)
		}
		printer.Info("watch stopped", "events_logged", logBuffer.Count())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// entriesFor maps changed files back to project entries. A change in a
// file that is not itself an entry rebuilds everything, since it may be
// imported by any entry.
func entriesFor(project *config.Project, changed []string) []config.Entry {
	if len(changed) == 0 {
		return project.Entries
	}
	byPath := make(map[string]config.Entry, len(project.Entries))
	for _, e := range project.Entries {
		byPath[e.Path] = e
	}
	var entries []config.Entry
	for _, f := range changed {
		e, ok := byPath[f]
		if !ok {
			return project.Entries
		}
		entries = append(entries, e)
	}
	return entries
}

// entryKeyvals flattens a buffered entry's attributes for the printer.
func entryKeyvals(e logging.BufferedEntry) []any {
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, e.Attrs[k])
	}
	return kv
}
