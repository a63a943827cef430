package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hookjsx/transpiler/pkg/modules"
	"github.com/hookjsx/transpiler/pkg/output"
	"github.com/hookjsx/transpiler/pkg/sandbox"
	"github.com/hookjsx/transpiler/pkg/transpiler"
)

var (
	runTimeout time.Duration
	runTS      bool
	runQuiet   bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Transpile and execute a hook source in a sandbox",
	Long: `Transpiles a hook source and executes it in an isolated JavaScript
sandbox. Console output is captured and the completion value is printed
as JSON.

The sandbox provides the JSX runtime factories but no host access; only
preloaded modules can be required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(cmd, args[0])
	},
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Second, "Execution timeout")
	runCmd.Flags().BoolVar(&runTS, "typescript", false, "Treat the source as TypeScript")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Print only the completion value")
}

func runRun(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	opts := transpiler.Options{
		IsTypeScript: runTS || ext == ".ts" || ext == ".tsx",
		Filename:     filepath.Base(path),
	}

	code, err := transpiler.Transpile(string(data), opts)
	if err != nil {
		return fmt.Errorf("transpiling: %w", err)
	}

	// The sandbox resolves modules through require(), so static imports
	// are converted and dynamic imports lowered before execution.
	code = modules.TransformES6Modules(code)
	code = modules.RewriteDynamicImports(code)

	sb := sandbox.New(runTimeout)
	result, err := sb.Execute(context.Background(), code)
	if err != nil {
		return fmt.Errorf("executing: %w", err)
	}

	if runQuiet {
		fmt.Println(result.Value)
		return nil
	}

	printer := output.New()
	for _, line := range result.Console {
		printer.Println(line)
	}
	printer.Info("hook executed", "file", path, "console_lines", len(result.Console))
	printer.Println(result.Value)
	return nil
}
