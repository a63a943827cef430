package modules

import "strings"

// StaticImport describes one import statement found in a source unit.
// Imported holds the local binding names, so an aliased name reports the
// alias rather than the exported name.
type StaticImport struct {
	Module      string   `json:"module"`
	Imported    []string `json:"imported"`
	IsDefault   bool     `json:"is_default"`
	IsNamespace bool     `json:"is_namespace"`
	IsLazy      bool     `json:"is_lazy"`
}

// ExtractImports scans source for import statements without executing it.
// Statements are reported in source order; a combined default and named
// clause yields one record per binding group, default first. Dynamic
// import(...) expressions with a literal specifier are reported as lazy.
func ExtractImports(source string) []StaticImport {
	parsed := parseImports(source)
	out := make([]StaticImport, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, p.static())
	}
	return out
}

// importName is a single named binding, optionally renamed.
type importName struct {
	name  string
	alias string
}

func (n importName) local() string {
	if n.alias != "" {
		return n.alias
	}
	return n.name
}

// parsedImport is one binding group of an import statement. Exactly one of
// def, named, ns, sideEffect, or lazy describes it.
type parsedImport struct {
	module     string
	quote      rune
	def        string
	named      []importName
	ns         string
	sideEffect bool
	lazy       bool
}

func (p parsedImport) static() StaticImport {
	s := StaticImport{
		Module:      p.module,
		IsDefault:   p.def != "",
		IsNamespace: p.ns != "",
		IsLazy:      p.lazy,
	}
	switch {
	case p.def != "":
		s.Imported = []string{p.def}
	case p.ns != "":
		s.Imported = []string{p.ns}
	default:
		for _, n := range p.named {
			s.Imported = append(s.Imported, n.local())
		}
	}
	return s
}

// parseImports walks the source skipping strings and comments and collects
// every import statement it can parse. Statements it cannot make sense of,
// type-only imports included, are skipped rather than guessed at.
func parseImports(source string) []parsedImport {
	src := []rune(source)
	var out []parsedImport
	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i++
		case ch == '\'' || ch == '"' || ch == '`':
			i = skipStringAt(src, i)
		case ch == 'i' && wordAt(src, i, "import"):
			recs, next, ok := parseImportAt(src, i)
			if !ok {
				i += len("import") - 1
				continue
			}
			out = append(out, recs...)
			i = next - 1
		}
	}
	return out
}

// parseImportAt parses one import statement starting at the import keyword.
// It returns the binding groups and the offset just past the statement.
func parseImportAt(src []rune, start int) ([]parsedImport, int, bool) {
	j := skipSpace(src, start+len("import"))
	if j >= len(src) {
		return nil, 0, false
	}

	switch src[j] {
	case '(':
		// Dynamic import; only literal specifiers are extractable.
		k := skipSpace(src, j+1)
		mod, q, next, ok := readLiteral(src, k)
		if !ok {
			return nil, 0, false
		}
		k = skipSpace(src, next)
		if k >= len(src) || src[k] != ')' {
			return nil, 0, false
		}
		return []parsedImport{{module: mod, quote: q, lazy: true}}, k + 1, true
	case '\'', '"':
		mod, q, next, ok := readLiteral(src, j)
		if !ok {
			return nil, 0, false
		}
		return []parsedImport{{module: mod, quote: q, sideEffect: true}}, consumeSemi(src, next), true
	}

	var def, ns string
	var named []importName
	for {
		j = skipSpace(src, j)
		if j >= len(src) {
			return nil, 0, false
		}
		switch {
		case src[j] == '{':
			j++
			for {
				j = skipSpace(src, j)
				if j < len(src) && src[j] == '}' {
					j++
					break
				}
				name, next, ok := readIdentAt(src, j)
				if !ok {
					return nil, 0, false
				}
				n := importName{name: name}
				j = skipSpace(src, next)
				if w, after, ok := readIdentAt(src, j); ok && w == "as" {
					alias, next2, ok := readIdentAt(src, skipSpace(src, after))
					if !ok {
						return nil, 0, false
					}
					n.alias = alias
					j = next2
				}
				named = append(named, n)
				j = skipSpace(src, j)
				switch {
				case j < len(src) && src[j] == ',':
					j++
				case j < len(src) && src[j] == '}':
				default:
					return nil, 0, false
				}
			}
		case src[j] == '*':
			j = skipSpace(src, j+1)
			w, next, ok := readIdentAt(src, j)
			if !ok || w != "as" {
				return nil, 0, false
			}
			name, next2, ok := readIdentAt(src, skipSpace(src, next))
			if !ok {
				return nil, 0, false
			}
			ns = name
			j = next2
		default:
			name, next, ok := readIdentAt(src, j)
			if !ok || def != "" {
				return nil, 0, false
			}
			def = name
			j = next
		}
		j = skipSpace(src, j)
		if j < len(src) && src[j] == ',' {
			j++
			continue
		}
		break
	}

	w, next, ok := readIdentAt(src, j)
	if !ok || w != "from" {
		return nil, 0, false
	}
	mod, q, next2, ok := readLiteral(src, skipSpace(src, next))
	if !ok {
		return nil, 0, false
	}
	end := consumeSemi(src, next2)

	var recs []parsedImport
	if def != "" {
		recs = append(recs, parsedImport{module: mod, quote: q, def: def})
	}
	if len(named) > 0 {
		recs = append(recs, parsedImport{module: mod, quote: q, named: named})
	}
	if ns != "" {
		recs = append(recs, parsedImport{module: mod, quote: q, ns: ns})
	}
	if len(recs) == 0 {
		return nil, 0, false
	}
	return recs, end, true
}

// readLiteral reads a single- or double-quoted string starting at src[i].
// Escape sequences are kept verbatim; the returned content excludes quotes.
func readLiteral(src []rune, i int) (string, rune, int, bool) {
	if i >= len(src) || (src[i] != '\'' && src[i] != '"') {
		return "", 0, i, false
	}
	quote := src[i]
	var b strings.Builder
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '\\' && j+1 < len(src):
			b.WriteRune(src[j])
			b.WriteRune(src[j+1])
			j++
		case src[j] == quote:
			return b.String(), quote, j + 1, true
		default:
			b.WriteRune(src[j])
		}
	}
	return "", 0, i, false
}

// skipStringAt returns the index of the closing quote for the string
// starting at src[i]. Template interpolations are skipped as balanced
// code, nested strings included.
func skipStringAt(src []rune, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '\\':
			j++
		case quote == '`' && src[j] == '$' && j+1 < len(src) && src[j+1] == '{':
			j = skipBracedCode(src, j+1)
		case src[j] == quote:
			return j
		}
	}
	return len(src) - 1
}

func skipBracedCode(src []rune, open int) int {
	depth := 0
	for j := open; j < len(src); j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		case '\'', '"', '`':
			j = skipStringAt(src, j)
		}
	}
	return len(src) - 1
}

// wordAt reports whether the keyword w starts at src[i] on its own word
// boundary. A preceding dot disqualifies it, so member accesses like
// foo.import never match.
func wordAt(src []rune, i int, w string) bool {
	for k, r := range w {
		if i+k >= len(src) || src[i+k] != r {
			return false
		}
	}
	if i > 0 && (isWordRune(src[i-1]) || src[i-1] == '.') {
		return false
	}
	if after := i + len(w); after < len(src) && isWordRune(src[after]) {
		return false
	}
	return true
}

func readIdentAt(src []rune, i int) (string, int, bool) {
	if i >= len(src) || !isIdentStartRune(src[i]) {
		return "", i, false
	}
	j := i
	for j < len(src) && isWordRune(src[j]) {
		j++
	}
	return string(src[i:j]), j, true
}

func consumeSemi(src []rune, i int) int {
	j := skipSpace(src, i)
	if j < len(src) && src[j] == ';' {
		return j + 1
	}
	return i
}

func skipSpace(src []rune, i int) int {
	for i < len(src) && isSpaceRune(src[i]) {
		i++
	}
	return i
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
