package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hookjsx/transpiler/pkg/modules"
)

func TestPrinter_Builds_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Builds(nil)

	if buf.Len() != 0 {
		t.Errorf("Builds(nil) should output nothing, got %q", buf.String())
	}
}

func TestPrinter_Builds_WithResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	builds := []BuildSummary{
		{Entry: "hooks/counter.jsx", Target: "web", Backend: "builtin", Output: "dist/counter.js", Duration: "12ms", Status: "built"},
		{Entry: "hooks/broken.tsx", Target: "android", Backend: "esbuild", Duration: "3ms", Status: "failed"},
	}
	p.Builds(builds)

	got := buf.String()
	// Check headers (go-pretty uppercases headers)
	if !strings.Contains(got, "ENTRY") {
		t.Error("Builds() should contain ENTRY header")
	}
	if !strings.Contains(got, "BACKEND") {
		t.Error("Builds() should contain BACKEND header")
	}
	if !strings.Contains(got, "STATUS") {
		t.Error("Builds() should contain STATUS header")
	}
	// Check data
	if !strings.Contains(got, "hooks/counter.jsx") {
		t.Error("Builds() should contain entry path")
	}
	if !strings.Contains(got, "dist/counter.js") {
		t.Error("Builds() should contain output path")
	}
	if !strings.Contains(got, "failed") {
		t.Error("Builds() should contain failure status")
	}
}

func TestPrinter_Imports_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Imports(nil)

	if buf.Len() != 0 {
		t.Errorf("Imports(nil) should output nothing, got %q", buf.String())
	}
}

func TestPrinter_Imports_WithRows(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	rows := []ImportRow{
		{Module: "react", Kind: "special", Bindings: "useState, useEffect"},
		{Module: "./lazy.js", Kind: "module", Lazy: "lazy"},
	}
	p.Imports(rows)

	got := buf.String()
	// Check section header
	if !strings.Contains(got, "IMPORTS") {
		t.Error("Imports() should contain section header")
	}
	// Check table headers (go-pretty uppercases headers)
	if !strings.Contains(got, "MODULE") {
		t.Error("Imports() should contain MODULE header")
	}
	if !strings.Contains(got, "KIND") {
		t.Error("Imports() should contain KIND header")
	}
	// Check data
	if !strings.Contains(got, "react") {
		t.Error("Imports() should contain module name")
	}
	if !strings.Contains(got, "useState") {
		t.Error("Imports() should contain bindings")
	}
	if !strings.Contains(got, "lazy") {
		t.Error("Imports() should mark lazy loads")
	}
	if !strings.Contains(got, "static") {
		t.Error("Imports() should mark static loads")
	}
}

func TestImportRowsFromRecords(t *testing.T) {
	source := `
import App from './app';
import { useState as S, useEffect } from 'react';
import * as Utils from './utils';
import 'styles.css';
const widget = import('./widget.js');
`
	rows := ImportRowsFromRecords(modules.ImportRecords(source))
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d: %+v", len(rows), rows)
	}

	if rows[0].Bindings != "default App" {
		t.Errorf("default row = %q", rows[0].Bindings)
	}
	if rows[1].Bindings != "useState as S, useEffect" {
		t.Errorf("named row = %q", rows[1].Bindings)
	}
	if rows[2].Bindings != "* as Utils" {
		t.Errorf("namespace row = %q", rows[2].Bindings)
	}
	if rows[3].Bindings != "(side effect)" {
		t.Errorf("side-effect row = %q", rows[3].Bindings)
	}
	if rows[4].Lazy != "lazy" || rows[4].Module != "./widget.js" {
		t.Errorf("lazy row = %+v", rows[4])
	}
}

func TestColorStatus(t *testing.T) {
	tests := []struct {
		status   string
		contains string // Non-TTY won't have colors, but function should not panic
	}{
		{"built", "built"},
		{"ok", "ok"},
		{"executed", "executed"},
		{"failed", "failed"},
		{"error", "error"},
		{"building", "building"},
		{"pending", "pending"},
		{"skipped", "skipped"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			result := colorStatus(tt.status)
			if !strings.Contains(result, tt.contains) {
				t.Errorf("colorStatus(%q) = %q, should contain %q", tt.status, result, tt.contains)
			}
		})
	}
}
