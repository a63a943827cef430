package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hookjsx",
	Short: "JSX/TypeScript transpiler for hooks",
	Long: `Hookjsx transpiles JSX and TypeScript hook sources to plain JavaScript.

It lowers JSX to __hook_jsx_runtime factory calls, strips TypeScript
types, downlevels modern syntax for Android JavaScriptCore targets, and
can convert ES6 modules to CommonJS. Projects are described in a
hook.yaml or hookconfig.json file.`,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
