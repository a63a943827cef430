package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hookjsx/transpiler/pkg/transpiler"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "hook.yaml", `
name: demo-hooks
target: android
typescript: true
output:
  commonjs: true
entries:
  - path: hooks/counter.jsx
  - path: hooks/widget.tsx
    typescript: false
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if p.Name != "demo-hooks" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Target != "android" {
		t.Errorf("target = %q", p.Target)
	}
	if !p.Output.CommonJS {
		t.Error("commonjs should be set")
	}

	// Defaults
	if p.Backend != "builtin" {
		t.Errorf("backend default = %q, want builtin", p.Backend)
	}
	if p.Debug != "off" {
		t.Errorf("debug default = %q, want off", p.Debug)
	}
	if p.Watch.DebounceMS != 300 {
		t.Errorf("debounce default = %d, want 300", p.Watch.DebounceMS)
	}

	// Paths resolved relative to the config file
	base := filepath.Dir(path)
	if want := filepath.Join(base, "hooks/counter.jsx"); p.Entries[0].Path != want {
		t.Errorf("entry path = %q, want %q", p.Entries[0].Path, want)
	}
	if want := filepath.Join(base, "dist"); p.Output.Dir != want {
		t.Errorf("output dir = %q, want %q", p.Output.Dir, want)
	}

	// Per-entry TypeScript override beats the project-wide setting
	if !p.IsTypeScript(p.Entries[0]) {
		t.Error("entry 0 should inherit project typescript")
	}
	if p.IsTypeScript(p.Entries[1]) {
		t.Error("entry 1 override should disable typescript")
	}
}

func TestLoadJSONC(t *testing.T) {
	path := writeConfig(t, "hookconfig.json", `{
  // comments are fine in config files
  "name": "jsonc-demo",
  "entries": [
    { "path": "app.jsx" }, // trailing comma below too
  ],
}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "jsonc-demo" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Entries) != 1 {
		t.Fatalf("entries = %+v", p.Entries)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("HOOK_PROJECT", "env-demo")
	path := writeConfig(t, "hook.yaml", `
name: ${HOOK_PROJECT}
entries:
  - path: app.jsx
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "env-demo" {
		t.Errorf("name = %q, want env-demo", p.Name)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeConfig(t, "hook.yaml", `
target: web
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"project.name: is required", "project.entries"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err == nil {
		t.Error("expected error for empty dir")
	}

	path := filepath.Join(dir, "hook.yml")
	if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found != path {
		t.Errorf("found %q, want %q", found, path)
	}
}

func validProject() *Project {
	p := &Project{
		Name:    "demo",
		Entries: []Entry{{Path: "app.jsx"}},
	}
	p.SetDefaults()
	return p
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Project)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(p *Project) {},
		},
		{
			name:    "bad target",
			mutate:  func(p *Project) { p.Target = "ios" },
			wantErr: "project.target",
		},
		{
			name:    "bad backend",
			mutate:  func(p *Project) { p.Backend = "swc" },
			wantErr: "project.backend",
		},
		{
			name:    "bad debug level",
			mutate:  func(p *Project) { p.Debug = "loud" },
			wantErr: "project.debug",
		},
		{
			name:    "inline map without source maps",
			mutate:  func(p *Project) { p.Output.InlineSourceMap = true },
			wantErr: "inline_source_map",
		},
		{
			name:    "duplicate entries",
			mutate:  func(p *Project) { p.Entries = append(p.Entries, Entry{Path: "app.jsx"}) },
			wantErr: "duplicate entry",
		},
		{
			name:    "bad extension",
			mutate:  func(p *Project) { p.Entries = []Entry{{Path: "app.vue"}} },
			wantErr: "must end in",
		},
		{
			name:    "negative debounce",
			mutate:  func(p *Project) { p.Watch.DebounceMS = -1 },
			wantErr: "debounce_ms",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(p)
			err := Validate(p)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	p := &Project{
		Name:   "demo",
		Target: "android",
		Debug:  "trace",
		Output: Output{CommonJS: true, SourceMaps: true, InlineSourceMap: true, CompatJSC: true},
	}
	opts := p.Options(Entry{Path: "hooks/widget.tsx"})

	if !opts.IsTypeScript {
		t.Error("tsx extension should imply typescript")
	}
	if opts.Target != transpiler.TargetAndroid {
		t.Errorf("target = %q", opts.Target)
	}
	if opts.Filename != "widget.tsx" {
		t.Errorf("filename = %q", opts.Filename)
	}
	if !opts.ToCommonJS || !opts.SourceMaps || !opts.InlineSourceMap || !opts.CompatForJSC {
		t.Errorf("output flags not carried over: %+v", opts)
	}
	if opts.DebugLevel != transpiler.DebugTrace {
		t.Errorf("debug level = %v", opts.DebugLevel)
	}
}
