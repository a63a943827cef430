package backend

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/hookjsx/transpiler/pkg/modules"
	"github.com/hookjsx/transpiler/pkg/transpiler"
)

// ESBuild compiles hooks with esbuild's transform API. It parses real
// JSX/TSX grammar rather than the heuristics of the built-in pipeline,
// at the cost of a heavier dependency.
type ESBuild struct{}

func (*ESBuild) Name() string { return "esbuild" }

// Transpile compiles one source unit. The automatic JSX runtime is
// pointed at the hook runtime so output calls the same factory as the
// built-in pipeline. On the Android target, dynamic import() is lowered
// to __hook_import before esbuild runs, so the loader calls survive the
// CommonJS conversion.
func (b *ESBuild) Transpile(source string, opts transpiler.Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &transpiler.BackendError{Backend: b.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if opts.Target == transpiler.TargetAndroid {
		source = modules.RewriteDynamicImports(source)
	}

	result := api.Transform(source, transformOptions(opts))
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		loc := ""
		if msg.Location != nil {
			loc = fmt.Sprintf(" at line %d, column %d", msg.Location.Line, msg.Location.Column)
		}
		return "", &transpiler.BackendError{
			Backend: b.Name(),
			Err:     fmt.Errorf("syntax error%s: %s", loc, msg.Text),
		}
	}
	return string(result.Code), nil
}

// transformOptions maps the shared options onto esbuild's transform
// configuration.
func transformOptions(opts transpiler.Options) api.TransformOptions {
	loader := api.LoaderJSX
	if opts.IsTypeScript {
		loader = api.LoaderTSX
	}

	filename := opts.Filename
	if filename == "" {
		filename = "hook.jsx"
	}

	target := api.ES2020
	if opts.CompatForJSC || opts.Target == transpiler.TargetAndroid {
		target = api.ES2015
	}

	format := api.FormatDefault
	if opts.ToCommonJS {
		format = api.FormatCommonJS
	}

	sourcemap := api.SourceMapNone
	if opts.SourceMaps && opts.InlineSourceMap {
		sourcemap = api.SourceMapInline
	}

	return api.TransformOptions{
		Loader:            loader,
		Target:            target,
		Format:            format,
		Sourcemap:         sourcemap,
		Sourcefile:        filename,
		JSX:               api.JSXAutomatic,
		JSXImportSource:   transpiler.RuntimeFactory,
		MinifySyntax:      false,
		MinifyWhitespace:  false,
		MinifyIdentifiers: false,
	}
}
