package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hookjsx/transpiler/pkg/backend"
	"github.com/hookjsx/transpiler/pkg/config"
	"github.com/hookjsx/transpiler/pkg/logging"
	"github.com/hookjsx/transpiler/pkg/modules"
	"github.com/hookjsx/transpiler/pkg/output"
	"github.com/hookjsx/transpiler/pkg/transpiler"
)

var (
	buildConfig   string
	buildOutDir   string
	buildBackend  string
	buildTarget   string
	buildTS       bool
	buildCommonJS bool
	buildQuiet    bool
	buildDebug    string
	buildMetadata bool
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Transpile hook sources to JavaScript",
	Long: `Transpiles the project's entries (or the given files) to JavaScript.

Without arguments the project config is located in the current directory
(hook.yaml, hook.yml, or hookconfig.json). Explicit files are built with
the command-line flags alone. A single "-" reads from stdin and writes
the result to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd, args)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildConfig, "config", "c", "", "Path to project config file")
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "Output directory (overrides config)")
	buildCmd.Flags().StringVar(&buildBackend, "backend", "", "Transpile backend: builtin or esbuild")
	buildCmd.Flags().StringVar(&buildTarget, "target", "", "Build target: web or android")
	buildCmd.Flags().BoolVar(&buildTS, "typescript", false, "Treat sources as TypeScript")
	buildCmd.Flags().BoolVar(&buildCommonJS, "commonjs", false, "Convert ES6 modules to CommonJS")
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Suppress progress output (show only final result)")
	buildCmd.Flags().StringVar(&buildDebug, "debug", "", "Diagnostics level: off, error, warn, info, trace, verbose")
	buildCmd.Flags().BoolVar(&buildMetadata, "metadata", false, "Write a .meta.json import manifest next to each output")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && args[0] == "-" {
		return buildStdin()
	}

	project, err := resolveProject(cmd, args)
	if err != nil {
		return err
	}

	var printer *output.Printer
	if !buildQuiet {
		printer = output.New()
		printer.Banner(version)
	}

	logger := buildLogger(project)
	be, err := selectBackend(project.Backend, logger)
	if err != nil {
		return err
	}

	summaries, failed := buildEntries(project, project.Entries, be, logger, buildMetadata)
	if printer != nil {
		printer.Builds(summaries)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(project.Entries))
	}
	return nil
}

// buildStdin transpiles stdin to stdout using the command-line flags.
func buildStdin() error {
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	level, err := transpiler.ParseDebugLevel(buildDebug)
	if err != nil {
		level = transpiler.DebugOff
	}
	opts := transpiler.Options{
		IsTypeScript: buildTS,
		Target:       transpiler.Target(buildTarget),
		Filename:     "stdin",
		ToCommonJS:   buildCommonJS,
		DebugLevel:   level,
	}
	if opts.Target == "" {
		opts.Target = transpiler.TargetWeb
	}

	name := buildBackend
	if name == "" {
		name = "builtin"
	}
	be, err := selectBackend(name, logging.NewDiscardLogger())
	if err != nil {
		return err
	}

	code, err := be.Transpile(string(source), opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(code)
	return err
}

// resolveProject loads the project config, or synthesizes one from
// explicit file arguments, and applies flag overrides.
func resolveProject(cmd *cobra.Command, args []string) (*config.Project, error) {
	var project *config.Project

	switch {
	case len(args) > 0:
		p := &config.Project{Name: "cli"}
		for _, a := range args {
			abs, err := filepath.Abs(a)
			if err != nil {
				return nil, err
			}
			p.Entries = append(p.Entries, config.Entry{Path: abs})
		}
		p.SetDefaults()
		if p.Output.Dir == "dist" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			p.Output.Dir = filepath.Join(cwd, "dist")
		}
		project = p
	case buildConfig != "":
		p, err := config.Load(buildConfig)
		if err != nil {
			return nil, err
		}
		project = p
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, err := config.Find(cwd)
		if err != nil {
			return nil, err
		}
		p, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		project = p
	}

	if cmd.Flags().Changed("out-dir") {
		project.Output.Dir = buildOutDir
	}
	if cmd.Flags().Changed("backend") {
		project.Backend = buildBackend
	}
	if cmd.Flags().Changed("target") {
		project.Target = buildTarget
	}
	if cmd.Flags().Changed("typescript") {
		project.TypeScript = buildTS
	}
	if cmd.Flags().Changed("commonjs") {
		project.Output.CommonJS = buildCommonJS
	}
	if cmd.Flags().Changed("debug") {
		project.Debug = buildDebug
	}
	if err := config.Validate(project); err != nil {
		return nil, err
	}
	return project, nil
}

// buildLogger creates the diagnostics logger for one invocation, tagged
// with a short build id so concurrent runs can be told apart in logs.
func buildLogger(project *config.Project) *slog.Logger {
	level, err := transpiler.ParseDebugLevel(project.Debug)
	if err != nil || level == transpiler.DebugOff {
		return logging.NewDiscardLogger()
	}
	logger := logging.NewStructuredLogger(logging.Config{
		Level:     level.SlogLevel(),
		Format:    logging.FormatText,
		Output:    os.Stderr,
		Component: "build",
	})
	return logging.WithTraceID(logger, uuid.NewString()[:8])
}

// selectBackend resolves the configured backend. The esbuild backend is
// wrapped so a backend failure retries with the builtin pipeline.
func selectBackend(name string, logger *slog.Logger) (backend.Backend, error) {
	be, err := backend.For(name)
	if err != nil {
		return nil, err
	}
	if name == "esbuild" {
		return &backend.Fallback{Primary: be, Logger: logger}, nil
	}
	return be, nil
}

// buildEntries transpiles the given entries and reports one summary
// row per entry plus the failure count.
func buildEntries(project *config.Project, entries []config.Entry, be backend.Backend, logger *slog.Logger, withMetadata bool) ([]output.BuildSummary, int) {
	summaries := make([]output.BuildSummary, 0, len(entries))
	failed := 0

	for _, entry := range entries {
		summary, err := buildEntry(project, entry, be, logger, withMetadata)
		if err != nil {
			logger.Error("build failed", "entry", entry.Path, "error", err)
			summary.Status = "failed"
			failed++
		}
		summaries = append(summaries, summary)
	}
	return summaries, failed
}

func buildEntry(project *config.Project, entry config.Entry, be backend.Backend, logger *slog.Logger, withMetadata bool) (output.BuildSummary, error) {
	summary := output.BuildSummary{
		Entry:   entry.Path,
		Target:  project.Target,
		Backend: be.Name(),
	}

	source, err := os.ReadFile(entry.Path)
	if err != nil {
		return summary, err
	}

	opts := project.Options(entry)
	if opts.DebugLevel != transpiler.DebugOff {
		opts.Logger = logger
	}

	start := time.Now()
	code, err := be.Transpile(string(source), opts)
	summary.Duration = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		return summary, err
	}

	if err := os.MkdirAll(project.Output.Dir, 0o755); err != nil {
		return summary, err
	}
	outPath := outputPath(project.Output.Dir, entry.Path)
	if err := os.WriteFile(outPath, []byte(code), 0o644); err != nil {
		return summary, err
	}
	summary.Output = outPath
	summary.Status = "built"

	if withMetadata {
		if err := writeMetadata(outPath, string(source)); err != nil {
			return summary, err
		}
	}

	logger.Info("entry built", "entry", entry.Path, "output", outPath, "duration", summary.Duration)
	return summary, nil
}

// outputPath maps an entry to its output file: the entry's base name
// with a .js extension inside the output directory.
func outputPath(dir, entryPath string) string {
	base := filepath.Base(entryPath)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".js")
}

// writeMetadata writes the import manifest next to the output file.
func writeMetadata(outPath, source string) error {
	meta := modules.Metadata{
		Imports:          modules.ImportRecords(source),
		HasJSX:           transpiler.HasJSX(source),
		HasDynamicImport: strings.Contains(source, "import("),
		Version:          transpiler.Version,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	metaPath := strings.TrimSuffix(outPath, ".js") + ".meta.json"
	return os.WriteFile(metaPath, append(data, '\n'), 0o644)
}
