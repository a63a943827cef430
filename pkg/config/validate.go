package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hookjsx/transpiler/pkg/transpiler"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return "validation errors:\n  - " + strings.Join(msgs, "\n  - ")
}

var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// Validate checks the project configuration for errors.
func Validate(p *Project) error {
	var errs ValidationErrors

	if p.Name == "" {
		errs = append(errs, ValidationError{"project.name", "is required"})
	}

	switch transpiler.Target(p.Target) {
	case transpiler.TargetWeb, transpiler.TargetAndroid:
	default:
		errs = append(errs, ValidationError{"project.target", "must be 'web' or 'android'"})
	}

	if p.Backend != "builtin" && p.Backend != "esbuild" {
		errs = append(errs, ValidationError{"project.backend", "must be 'builtin' or 'esbuild'"})
	}

	if _, err := transpiler.ParseDebugLevel(p.Debug); err != nil {
		errs = append(errs, ValidationError{"project.debug", "must be off, error, warn, info, trace, or verbose"})
	}

	if p.Output.InlineSourceMap && !p.Output.SourceMaps {
		errs = append(errs, ValidationError{"project.output.inline_source_map", "requires source_maps"})
	}

	if len(p.Entries) == 0 {
		errs = append(errs, ValidationError{"project.entries", "at least one entry is required"})
	}

	entryPaths := make(map[string]bool)
	for i, entry := range p.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)

		if entry.Path == "" {
			errs = append(errs, ValidationError{prefix + ".path", "is required"})
			continue
		}
		if entryPaths[entry.Path] {
			errs = append(errs, ValidationError{prefix + ".path", fmt.Sprintf("duplicate entry '%s'", entry.Path)})
		} else {
			entryPaths[entry.Path] = true
		}

		if ext := strings.ToLower(filepath.Ext(entry.Path)); !sourceExtensions[ext] {
			errs = append(errs, ValidationError{prefix + ".path", "must end in .js, .jsx, .ts, or .tsx"})
		}
	}

	if p.Watch.DebounceMS < 0 {
		errs = append(errs, ValidationError{"project.watch.debounce_ms", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
