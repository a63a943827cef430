package modules

import "strings"

// RewriteDynamicImports replaces dynamic import(...) expressions with calls
// to the host loader __hook_import. Whitespace around the argument is
// collapsed, the argument itself is copied verbatim so query strings and
// fragments survive, and calls that already target __hook_import are left
// alone. String and comment contents are never rewritten.
func RewriteDynamicImports(source string) string {
	src := []rune(source)
	var out strings.Builder
	out.Grow(len(source))

	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			out.WriteString(string(src[i:j]))
			i = j - 1
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			j := i + 2
			for j+1 < len(src) && !(src[j] == '*' && src[j+1] == '/') {
				j++
			}
			if j+1 < len(src) {
				j++
			}
			out.WriteString(string(src[i : j+1]))
			i = j
		case ch == '\'' || ch == '"' || ch == '`':
			j := skipStringAt(src, i)
			out.WriteString(string(src[i : j+1]))
			i = j
		case ch == 'i' && wordAt(src, i, "import"):
			j := skipSpace(src, i+len("import"))
			if j < len(src) && src[j] == '(' {
				if arg, end, ok := callArgument(src, j); ok {
					out.WriteString("__hook_import(")
					out.WriteString(RewriteDynamicImports(strings.TrimSpace(arg)))
					out.WriteString(")")
					i = end
					continue
				}
			}
			out.WriteString("import")
			i += len("import") - 1
		default:
			out.WriteRune(ch)
		}
	}
	return out.String()
}

// callArgument returns the text between a call's parentheses, given the
// index of the opening paren, along with the index of the matching close.
func callArgument(src []rune, open int) (string, int, bool) {
	depth := 0
	for j := open; j < len(src); j++ {
		switch src[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return string(src[open+1 : j]), j, true
			}
		case '\'', '"', '`':
			j = skipStringAt(src, j)
		}
	}
	return "", 0, false
}
