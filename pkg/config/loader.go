package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Candidate config file names, checked in order by Find.
var candidates = []string{"hook.yaml", "hook.yml", "hookconfig.json"}

// Load reads and parses a project configuration file. JSON files may
// carry comments and trailing commas (JSONC), matching what editors
// produce for tsconfig-style files; everything else is parsed as YAML.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var project Project
	if strings.EqualFold(filepath.Ext(path), ".json") {
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parsing config JSONC: %w", err)
		}
		if err := json.Unmarshal(std, &project); err != nil {
			return nil, fmt.Errorf("parsing config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &project); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	// Expand environment variables in string values
	expandEnvVars(&project)

	// Apply defaults
	project.SetDefaults()

	// Resolve relative paths based on config file location
	resolveRelativePaths(&project, filepath.Dir(path))

	// Validate the project
	if err := Validate(&project); err != nil {
		return nil, err
	}

	return &project, nil
}

// Find locates a project config file in dir. It returns an error when
// none of the candidate names exist.
func Find(dir string) (string, error) {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no config file found in %s (looked for %s)", dir, strings.Join(candidates, ", "))
}

// expandEnvVars expands environment variables in the project.
func expandEnvVars(p *Project) {
	p.Name = os.ExpandEnv(p.Name)
	p.Output.Dir = os.ExpandEnv(p.Output.Dir)
	for i := range p.Entries {
		p.Entries[i].Path = os.ExpandEnv(p.Entries[i].Path)
	}
	for i := range p.Watch.Paths {
		p.Watch.Paths[i] = os.ExpandEnv(p.Watch.Paths[i])
	}
}

// resolveRelativePaths resolves entry, watch, and output paths relative
// to the config file.
func resolveRelativePaths(p *Project, basePath string) {
	if !filepath.IsAbs(p.Output.Dir) {
		p.Output.Dir = filepath.Join(basePath, p.Output.Dir)
	}
	for i := range p.Entries {
		if !filepath.IsAbs(p.Entries[i].Path) {
			p.Entries[i].Path = filepath.Join(basePath, p.Entries[i].Path)
		}
	}
	for i := range p.Watch.Paths {
		if !filepath.IsAbs(p.Watch.Paths[i]) {
			p.Watch.Paths[i] = filepath.Join(basePath, p.Watch.Paths[i])
		}
	}
}
