package config

import (
	"path/filepath"
	"strings"

	"github.com/hookjsx/transpiler/pkg/transpiler"
)

// Project represents the complete hookjsx project configuration, loaded
// from hook.yaml or hookconfig.json.
type Project struct {
	Name       string  `yaml:"name" json:"name"`
	Target     string  `yaml:"target,omitempty" json:"target,omitempty"`         // "web" (default) or "android"
	TypeScript bool    `yaml:"typescript,omitempty" json:"typescript,omitempty"` // project-wide default; entries can override
	Backend    string  `yaml:"backend,omitempty" json:"backend,omitempty"`       // "builtin" (default) or "esbuild"
	Debug      string  `yaml:"debug,omitempty" json:"debug,omitempty"`           // off|error|warn|info|trace|verbose
	Output     Output  `yaml:"output,omitempty" json:"output,omitempty"`
	Entries    []Entry `yaml:"entries" json:"entries"`
	Watch      Watch   `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// Output controls what gets written and in which module format.
type Output struct {
	Dir             string `yaml:"dir,omitempty" json:"dir,omitempty"`
	CommonJS        bool   `yaml:"commonjs,omitempty" json:"commonjs,omitempty"`
	SourceMaps      bool   `yaml:"source_maps,omitempty" json:"source_maps,omitempty"`
	InlineSourceMap bool   `yaml:"inline_source_map,omitempty" json:"inline_source_map,omitempty"`
	CompatJSC       bool   `yaml:"compat_jsc,omitempty" json:"compat_jsc,omitempty"`
}

// Entry is one source unit to transpile.
type Entry struct {
	Path string `yaml:"path" json:"path"`
	// TypeScript overrides the project-wide setting for this entry.
	// When absent, .ts/.tsx extensions imply TypeScript.
	TypeScript *bool `yaml:"typescript,omitempty" json:"typescript,omitempty"`
}

// Watch configures the rebuild watcher.
type Watch struct {
	Paths      []string `yaml:"paths,omitempty" json:"paths,omitempty"`
	DebounceMS int      `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`
}

// SetDefaults fills in unset fields.
func (p *Project) SetDefaults() {
	if p.Target == "" {
		p.Target = string(transpiler.TargetWeb)
	}
	if p.Backend == "" {
		p.Backend = "builtin"
	}
	if p.Debug == "" {
		p.Debug = "off"
	}
	if p.Output.Dir == "" {
		p.Output.Dir = "dist"
	}
	if p.Watch.DebounceMS == 0 {
		p.Watch.DebounceMS = 300
	}
	if len(p.Watch.Paths) == 0 {
		p.Watch.Paths = []string{"."}
	}
}

// IsTypeScript resolves the effective TypeScript setting for an entry.
func (p *Project) IsTypeScript(e Entry) bool {
	if e.TypeScript != nil {
		return *e.TypeScript
	}
	if p.TypeScript {
		return true
	}
	ext := strings.ToLower(filepath.Ext(e.Path))
	return ext == ".ts" || ext == ".tsx"
}

// Options resolves the transpile options for one entry.
func (p *Project) Options(e Entry) transpiler.Options {
	level, err := transpiler.ParseDebugLevel(p.Debug)
	if err != nil {
		level = transpiler.DebugOff
	}
	return transpiler.Options{
		IsTypeScript:    p.IsTypeScript(e),
		Target:          transpiler.Target(p.Target),
		Filename:        filepath.Base(e.Path),
		ToCommonJS:      p.Output.CommonJS,
		SourceMaps:      p.Output.SourceMaps,
		InlineSourceMap: p.Output.InlineSourceMap,
		CompatForJSC:    p.Output.CompatJSC,
		DebugLevel:      level,
	}
}
