// Package modules provides static import analysis and module-format
// rewriting for hook sources: ES6 to CommonJS conversion, dynamic import
// lowering, and per-import metadata used for pre-fetching.
package modules

import (
	"strings"

	"github.com/hookjsx/transpiler/pkg/transpiler"
)

// ImportKind classifies where an import specifier resolves.
type ImportKind string

const (
	// KindBuiltin is a host-provided module (node: specifiers).
	KindBuiltin ImportKind = "builtin"
	// KindSpecialPackage is a package the runtime supplies itself, such
	// as react or anything under the @hookjsx scope.
	KindSpecialPackage ImportKind = "special"
	// KindModule is everything else: relative paths and npm packages.
	KindModule ImportKind = "module"
)

// BindingType distinguishes how an import binding is introduced.
type BindingType string

const (
	BindingDefault   BindingType = "default"
	BindingNamed     BindingType = "named"
	BindingNamespace BindingType = "namespace"
)

// ImportBinding is a single name introduced by an import statement.
// Alias is set for renamed named imports; Name is always the exported name.
type ImportBinding struct {
	Type  BindingType `json:"type"`
	Name  string      `json:"name"`
	Alias string      `json:"alias,omitempty"`
}

// ImportRecord describes one import statement with its resolved kind and
// binding structure.
type ImportRecord struct {
	Source   string          `json:"source"`
	Kind     ImportKind      `json:"kind"`
	Bindings []ImportBinding `json:"bindings,omitempty"`
	Lazy     bool            `json:"lazy,omitempty"`
}

// ClassifyImport resolves an import specifier to its kind.
func ClassifyImport(source string) ImportKind {
	switch {
	case strings.HasPrefix(source, "node:"):
		return KindBuiltin
	case source == "react" || source == "react-dom" || source == "react-native":
		return KindSpecialPackage
	case strings.HasPrefix(source, "@hookjsx/"):
		return KindSpecialPackage
	default:
		return KindModule
	}
}

// ImportRecords extracts imports from source and resolves each one to its
// kind and binding structure. Lazy imports appear with no bindings.
func ImportRecords(source string) []ImportRecord {
	parsed := parseImports(source)
	out := make([]ImportRecord, 0, len(parsed))
	for _, p := range parsed {
		rec := ImportRecord{Source: p.module, Kind: ClassifyImport(p.module), Lazy: p.lazy}
		switch {
		case p.def != "":
			rec.Bindings = []ImportBinding{{Type: BindingDefault, Name: p.def}}
		case p.ns != "":
			rec.Bindings = []ImportBinding{{Type: BindingNamespace, Name: p.ns}}
		default:
			for _, n := range p.named {
				rec.Bindings = append(rec.Bindings, ImportBinding{Type: BindingNamed, Name: n.name, Alias: n.alias})
			}
		}
		out = append(out, rec)
	}
	return out
}

// Metadata summarizes a transpiled source unit for clients that schedule
// module pre-fetching or decide between execution paths.
type Metadata struct {
	Imports          []ImportRecord `json:"imports"`
	HasJSX           bool           `json:"has_jsx"`
	HasDynamicImport bool           `json:"has_dynamic_import"`
	Version          string         `json:"version"`
}

// TranspileResult pairs generated code with its metadata.
type TranspileResult struct {
	Code     string   `json:"code"`
	Metadata Metadata `json:"metadata"`
}

// TranspileWithMetadata transpiles source and reports import and JSX
// metadata alongside the generated code. Metadata is computed from the
// original source, not the output.
func TranspileWithMetadata(source string, opts transpiler.Options) (*TranspileResult, error) {
	code, err := transpiler.Transpile(source, opts)
	if err != nil {
		return nil, err
	}
	return &TranspileResult{
		Code: code,
		Metadata: Metadata{
			Imports:          ImportRecords(source),
			HasJSX:           transpiler.HasJSX(source),
			HasDynamicImport: strings.Contains(source, "import("),
			Version:          transpiler.Version,
		},
	}, nil
}
