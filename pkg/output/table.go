package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hookjsx/transpiler/pkg/modules"
)

// BuildSummary contains data for one row of the build result table.
type BuildSummary struct {
	Entry    string
	Target   string // web, android
	Backend  string // builtin, esbuild
	Output   string // written file, or empty on failure
	Duration string // human-readable elapsed time
	Status   string // built, failed, skipped
}

// ImportRow contains data for one row of the import analysis table.
type ImportRow struct {
	Module   string
	Kind     string // builtin, special, module
	Bindings string
	Lazy     string // "lazy" or empty
}

// Builds prints the build result table with violet styling.
func (p *Printer) Builds(builds []BuildSummary) {
	if len(builds) == 0 {
		return
	}

	p.Println()

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(p.tableStyle())

	t.AppendHeader(table.Row{"Entry", "Target", "Backend", "Output", "Duration", "Status"})

	for _, b := range builds {
		status := b.Status
		if p.isTTY {
			status = colorStatus(b.Status)
		}
		t.AppendRow(table.Row{b.Entry, b.Target, b.Backend, b.Output, b.Duration, status})
	}

	t.Render()
	p.Println()
}

// colorStatus applies color to a build status.
func colorStatus(status string) string {
	var style lipgloss.Style
	switch status {
	case "built", "ok", "executed":
		style = lipgloss.NewStyle().Foreground(ColorGreen)
	case "failed", "error":
		style = lipgloss.NewStyle().Foreground(ColorRed)
	case "building", "pending":
		style = lipgloss.NewStyle().Foreground(ColorViolet)
	case "skipped":
		style = lipgloss.NewStyle().Foreground(ColorMuted)
	default:
		style = lipgloss.NewStyle().Foreground(ColorGray)
	}
	return style.Render(status)
}

// Imports prints the import analysis table with violet styling.
func (p *Printer) Imports(rows []ImportRow) {
	if len(rows) == 0 {
		return
	}

	p.Section("IMPORTS")

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(p.tableStyle())

	t.AppendHeader(table.Row{"Module", "Kind", "Bindings", "Load"})

	for _, r := range rows {
		load := r.Lazy
		if load == "" {
			load = "static"
		}
		t.AppendRow(table.Row{r.Module, r.Kind, r.Bindings, load})
	}

	t.Render()
	p.Println()
}

// ImportRowsFromRecords converts analyzed import records into table rows.
func ImportRowsFromRecords(records []modules.ImportRecord) []ImportRow {
	rows := make([]ImportRow, 0, len(records))
	for _, rec := range records {
		var parts []string
		for _, b := range rec.Bindings {
			part := formatBinding(b)
			if part != "" {
				parts = append(parts, part)
			}
		}
		bindings := strings.Join(parts, ", ")
		if bindings == "" {
			bindings = "(side effect)"
		}
		row := ImportRow{
			Module:   rec.Source,
			Kind:     string(rec.Kind),
			Bindings: bindings,
		}
		if rec.Lazy {
			row.Lazy = "lazy"
			row.Bindings = ""
		}
		rows = append(rows, row)
	}
	return rows
}

func formatBinding(b modules.ImportBinding) string {
	switch b.Type {
	case modules.BindingDefault:
		return "default " + b.Name
	case modules.BindingNamespace:
		return "* as " + b.Name
	default:
		if b.Alias != "" && b.Alias != b.Name {
			return fmt.Sprintf("%s as %s", b.Name, b.Alias)
		}
		return b.Name
	}
}

// tableStyle returns the standard violet-themed table style.
func (p *Printer) tableStyle() table.Style {
	style := table.StyleRounded
	if p.isTTY {
		style.Color.Header = text.Colors{text.FgHiMagenta, text.Bold}
		style.Color.Border = text.Colors{text.FgHiBlack}
	}
	style.Options.SeparateRows = false
	return style
}

// Section prints a section header.
func (p *Printer) Section(title string) {
	if p.isTTY {
		style := lipgloss.NewStyle().Foreground(ColorViolet).Bold(true)
		p.Println(style.Render(title))
	} else {
		p.Println(title)
	}
}
