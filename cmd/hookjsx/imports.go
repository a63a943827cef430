package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hookjsx/transpiler/pkg/modules"
	"github.com/hookjsx/transpiler/pkg/output"
	"github.com/hookjsx/transpiler/pkg/transpiler"
)

var importsJSON bool

var importsCmd = &cobra.Command{
	Use:   "imports <file>",
	Short: "Analyze the imports of a hook source",
	Long: `Extracts the import statements of a hook source without executing it.

Each import is classified as builtin (node: modules), special (packages
the runtime supplies itself), or module, so clients can schedule module
pre-fetching before the hook runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImports(args[0])
	},
}

func init() {
	importsCmd.Flags().BoolVar(&importsJSON, "json", false, "Print the import manifest as JSON")
}

func runImports(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	source := string(data)

	meta := modules.Metadata{
		Imports:          modules.ImportRecords(source),
		HasJSX:           transpiler.HasJSX(source),
		HasDynamicImport: strings.Contains(source, "import("),
		Version:          transpiler.Version,
	}

	if importsJSON {
		out, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printer := output.New()
	if len(meta.Imports) == 0 {
		printer.Info("no imports found", "file", path)
		return nil
	}
	printer.Imports(output.ImportRowsFromRecords(meta.Imports))
	printer.Info("source analyzed", "file", path, "jsx", meta.HasJSX, "dynamic_import", meta.HasDynamicImport)
	return nil
}
