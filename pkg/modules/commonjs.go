package modules

import "strings"

// TransformES6Modules rewrites ES6 import and export statements to their
// CommonJS equivalents. The transform is line oriented: only lines that
// begin with an import or export keyword are touched, which keeps string
// contents and JSX text out of harm's way. Multiline import clauses and
// export lists are joined before rewriting.
//
// Exported declarations keep their declaration in place; the matching
// module.exports assignment is appended after the last line so that arrow
// function and class bodies stay intact.
func TransformES6Modules(source string) string {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var exported []string

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		if _, ok := keywordLine(trimmed, "import"); ok {
			stmt := trimmed
			for !importComplete(stmt) && i+1 < len(lines) {
				i++
				stmt += " " + strings.TrimSpace(lines[i])
			}
			out = append(out, indent+rewriteImport(stmt))
			continue
		}

		rest, ok := keywordLine(trimmed, "export")
		if !ok {
			out = append(out, line)
			continue
		}

		switch {
		case strings.HasPrefix(rest, "{"):
			stmt := rest
			for strings.Count(stmt, "{") > strings.Count(stmt, "}") && i+1 < len(lines) {
				i++
				stmt += " " + strings.TrimSpace(lines[i])
			}
			out = append(out, exportListLines(stmt, indent)...)
		case rest == "default":
			// Declaration continues on the next line.
			out = append(out, indent+"module.exports.default =")
		case strings.HasPrefix(rest, "default"):
			out = append(out, indent+"module.exports.default = "+strings.TrimSpace(rest[len("default"):]))
		default:
			name := exportedDeclName(rest)
			if name == "" {
				out = append(out, line)
				continue
			}
			out = append(out, indent+rest)
			exported = append(exported, name)
		}
	}

	for _, name := range exported {
		out = append(out, "module.exports."+name+" = "+name+";")
	}
	return strings.Join(out, "\n")
}

// keywordLine reports whether trimmed begins with the given statement
// keyword and returns the remainder. "import(" deliberately does not
// match: a dynamic import expression is not an import statement.
func keywordLine(trimmed, kw string) (string, bool) {
	if !strings.HasPrefix(trimmed, kw) {
		return "", false
	}
	rest := trimmed[len(kw):]
	if rest == "" {
		return "", true
	}
	switch rest[0] {
	case ' ', '\t', '{', '\'', '"', '*':
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// importComplete reports whether stmt is a whole import statement. A
// clause with an unclosed named list or a missing module specifier still
// needs more lines.
func importComplete(stmt string) bool {
	if strings.Count(stmt, "{") > strings.Count(stmt, "}") {
		return false
	}
	_, _, ok := parseImportAt([]rune(stmt), 0)
	return ok
}

// rewriteImport converts one complete import statement to require form.
// Statements that fail to parse are passed through untouched.
func rewriteImport(stmt string) string {
	recs, _, ok := parseImportAt([]rune(stmt), 0)
	if !ok || len(recs) == 0 {
		return stmt
	}

	q := string(recs[0].quote)
	req := "require(" + q + recs[0].module + q + ")"
	if recs[0].sideEffect {
		return req + ";"
	}

	var parts []string
	var defName string
	for _, r := range recs {
		switch {
		case r.def != "":
			defName = r.def
			parts = append(parts, "const "+r.def+" = "+req+";")
		case r.ns != "":
			parts = append(parts, "const "+r.ns+" = "+req+";")
		case len(r.named) > 0:
			names := make([]string, 0, len(r.named))
			for _, n := range r.named {
				if n.alias != "" {
					names = append(names, n.name+": "+n.alias)
				} else {
					names = append(names, n.name)
				}
			}
			// When a default binding precedes the named list, destructure
			// off it instead of calling require twice.
			src := req
			if defName != "" {
				src = defName
			}
			parts = append(parts, "const { "+strings.Join(names, ", ")+" } = "+src+";")
		}
	}
	return strings.Join(parts, "\n")
}

// exportListLines expands `export { a, b as c }` into one module.exports
// assignment per name. Re-exports with a from clause read the names off a
// fresh require call.
func exportListLines(stmt, indent string) []string {
	open := strings.Index(stmt, "{")
	end := strings.Index(stmt, "}")
	if open < 0 || end < open {
		return []string{indent + "export " + stmt}
	}

	var from, quote string
	rest := strings.TrimSpace(stmt[end+1:])
	if strings.HasPrefix(rest, "from") {
		m := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[len("from"):]), ";"))
		if len(m) >= 2 && (m[0] == '\'' || m[0] == '"') && m[len(m)-1] == m[0] {
			quote = string(m[0])
			from = m[1 : len(m)-1]
		}
	}

	var lines []string
	for _, part := range strings.Split(stmt[open+1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, alias := part, part
		if k := strings.Index(part, " as "); k >= 0 {
			name = strings.TrimSpace(part[:k])
			alias = strings.TrimSpace(part[k+len(" as "):])
		}
		if from != "" {
			lines = append(lines, indent+"module.exports."+alias+" = require("+quote+from+quote+")."+name+";")
		} else {
			lines = append(lines, indent+"module.exports."+alias+" = "+name+";")
		}
	}
	return lines
}

// exportedDeclName returns the declared name of an exported declaration,
// or "" when rest is not a declaration this transform understands.
func exportedDeclName(rest string) string {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return ""
	}
	switch fields[0] {
	case "const", "let", "var", "function", "class":
		return identPrefix(fields[1])
	case "async":
		if len(fields) >= 3 && fields[1] == "function" {
			return identPrefix(fields[2])
		}
	}
	return ""
}

func identPrefix(s string) string {
	for i, r := range s {
		if !isWordRune(r) {
			return s[:i]
		}
	}
	return s
}
