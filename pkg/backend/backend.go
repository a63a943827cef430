// Package backend hosts the interchangeable full-fidelity compiler
// backends. A Backend accepts the same options as the built-in pipeline
// and emits calls to the same runtime factory, so callers can swap one
// in without touching anything downstream.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/hookjsx/transpiler/pkg/modules"
	"github.com/hookjsx/transpiler/pkg/transpiler"
)

//go:generate mockgen -destination=mock_backend_test.go -package=backend . Backend

// Backend compiles one source unit under the shared options contract.
type Backend interface {
	// Name identifies the backend in diagnostics and errors.
	Name() string
	Transpile(source string, opts transpiler.Options) (string, error)
}

// For returns the backend registered under name. The empty string and
// "builtin" both select the hand-written pipeline.
func For(name string) (Backend, error) {
	switch name {
	case "", "builtin":
		return Builtin{}, nil
	case "esbuild":
		return &ESBuild{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (have builtin, esbuild)", name)
	}
}

// Builtin adapts the hand-written pipeline to the Backend interface.
// The core pipeline leaves module syntax alone, so ToCommonJS is
// applied here as a post-pass, mirroring what esbuild's CommonJS
// format does on the other backend.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

func (Builtin) Transpile(source string, opts transpiler.Options) (string, error) {
	out, err := transpiler.Transpile(source, opts)
	if err != nil {
		return "", err
	}
	if opts.ToCommonJS {
		out = modules.TransformES6Modules(out)
	}
	return out, nil
}

// Fallback tries a primary backend first and reruns the built-in
// pipeline when it fails. A hook the full compiler chokes on can still
// ship if the simpler pipeline handles it.
type Fallback struct {
	Primary Backend
	Logger  *slog.Logger
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+builtin"
}

func (f *Fallback) Transpile(source string, opts transpiler.Options) (string, error) {
	out, err := f.Primary.Transpile(source, opts)
	if err == nil {
		return out, nil
	}
	if f.Logger != nil {
		f.Logger.Warn("backend failed, retrying with builtin pipeline",
			"backend", f.Primary.Name(),
			"error", err)
	}
	return Builtin{}.Transpile(source, opts)
}
