package transpiler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// builtinTypeNames are the type keywords the colon-annotation heuristic
// recognizes in addition to uppercase-leading identifiers.
var builtinTypeNames = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"any":     true,
	"void":    true,
	"unknown": true,
	"never":   true,
	"object":  true,
}

// StripTypes deletes TypeScript-only syntax from source, replacing each
// removed construct with a single space so neighboring tokens stay
// separated. The rules are heuristic by contract: a colon followed by a
// type-looking name is treated as an annotation even when it is really
// an object-literal key or ternary branch. False positives are accepted
// over missed type syntax. Strings, comments, and JSX text are never
// touched; template interpolations and JSX expression blocks are
// re-entered recursively.
func StripTypes(source string) string {
	c := NewParseCursor(source)
	var out strings.Builder
	var prev rune // last significant code rune scanned
	importClause := false

	recurse := func(expr string) (string, error) {
		return StripTypes(expr), nil
	}

	for !c.EOF() {
		ch, _ := c.Current()
		switch {
		case c.AtLineComment():
			c.CopyLineComment(&out)
		case c.AtBlockComment():
			c.CopyBlockComment(&out)
		case ch == '"' || ch == '\'' || ch == '`':
			c.CopyString(&out, recurse)
			importClause = false
			prev = ch
		case ch == '<' && isJSXStart(c, prev, true):
			copyJSX(c, &out, recurse)
			prev = '>'
		case ch == '<' && genericSpanAhead(c) > 0:
			skipBalanced(c)
			out.WriteRune(' ')
		case ch == '?' && optionalMarkerAt(c, prev):
			c.Advance()
		case ch == ':' && annotationAhead(c, 0, prev, false):
			skipAnnotation(c)
			out.WriteRune(' ')
		case ch == '!' && nonNullAssertionAt(c, prev):
			c.Advance()
		case isIdentStart(ch) && atWordStart(c):
			word := readWord(c)
			if stripWordConstruct(c, word, &importClause) {
				out.WriteRune(' ')
			} else {
				out.WriteString(word)
				prev, _ = utf8.DecodeLastRuneInString(word)
			}
		default:
			out.WriteRune(ch)
			c.Advance()
			if !unicode.IsSpace(ch) {
				prev = ch
				if ch == ';' || ch == '}' {
					importClause = false
				}
			}
		}
	}
	return out.String()
}

// CheckNoTypeScript scans plain-JavaScript source and fails with a
// TypeScriptSyntaxError at the first type-only construct. JSX elements
// are skipped wholesale so their text content is never misread as code,
// and `as` inside import/export clauses is tolerated as renaming. The
// colon rule here only fires on builtin type names, since uppercase
// identifiers after a colon are ordinary values in JS object literals.
func CheckNoTypeScript(source string) error {
	c := NewParseCursor(source)
	var discard strings.Builder
	var prev rune
	importClause := false

	recheck := func(expr string) (string, error) {
		return expr, CheckNoTypeScript(expr)
	}

	for !c.EOF() {
		ch, _ := c.Current()
		pos := c.Pos()
		switch {
		case c.AtLineComment():
			c.CopyLineComment(&discard)
		case c.AtBlockComment():
			c.CopyBlockComment(&discard)
		case ch == '"' || ch == '\'' || ch == '`':
			if err := c.CopyString(&discard, recheck); err != nil {
				return err
			}
			importClause = false
			prev = ch
		case ch == '<' && isJSXStart(c, prev, false):
			if err := copyJSX(c, &discard, recheck); err != nil {
				return err
			}
			prev = '>'
		case ch == ':' && annotationAhead(c, 0, prev, true):
			return &TypeScriptSyntaxError{Construct: "type annotation", Pos: pos}
		case ch == '!' && nonNullAssertionAt(c, prev):
			return &TypeScriptSyntaxError{Construct: "non-null assertion", Pos: pos}
		case isIdentStart(ch) && atWordStart(c):
			word := readWord(c)
			switch {
			case (word == "interface" || word == "enum") && identAheadAfterWS(c):
				return &TypeScriptSyntaxError{Construct: word + " declaration", Pos: pos}
			case word == "type" && !importClause && aliasAhead(c):
				return &TypeScriptSyntaxError{Construct: "type alias", Pos: pos}
			case word == "as" && !importClause && typeExprAhead(c):
				return &TypeScriptSyntaxError{Construct: "type assertion", Pos: pos}
			case word == "declare" && identAheadAfterWS(c):
				return &TypeScriptSyntaxError{Construct: "ambient declaration", Pos: pos}
			case isAccessModifier(word) && identAheadAfterWS(c):
				return &TypeScriptSyntaxError{Construct: "access modifier", Pos: pos}
			case word == "import" || word == "export":
				importClause = true
			}
			prev, _ = utf8.DecodeLastRuneInString(word)
		default:
			c.Advance()
			if !unicode.IsSpace(ch) {
				prev = ch
				if ch == ';' || ch == '}' {
					importClause = false
				}
			}
		}
	}
	return nil
}

// stripWordConstruct handles a keyword-led construct starting right after
// word was consumed. It reports whether a construct was removed; when
// false the caller emits the word unchanged.
func stripWordConstruct(c *ParseCursor, word string, importClause *bool) bool {
	switch word {
	case "import":
		*importClause = true
		return false
	case "export":
		i := skipWSOffset(c, 0)
		if r, _ := c.Peek(i); r == '{' || r == '*' {
			*importClause = true
			return false
		}
		next, _ := peekWordAt(c, i)
		switch next {
		case "interface", "enum", "declare":
			// The declaration itself is stripped on the next iteration;
			// a dangling `export` would be left behind otherwise.
			return true
		case "type":
			j := skipWSOffset(c, i+len(next))
			if r, _ := c.Peek(j); r == '{' {
				*importClause = true // export type { X } re-export clause
				return false
			}
			return true
		}
		return false
	case "interface", "enum":
		if !identAheadAfterWS(c) {
			return false
		}
		c.SkipWhitespace()
		readWord(c)
		for {
			r, ok := c.Current()
			if !ok {
				return true
			}
			if r == '{' {
				break
			}
			c.Advance()
		}
		skipBalanced(c)
		return true
	case "type":
		if *importClause {
			// `import type { X }` and inline `{ type Foo }` specifiers.
			// A binding literally named type is followed by '}' or ','.
			i := skipWSOffset(c, 0)
			r, ok := c.Peek(i)
			return ok && (isIdentStart(r) || r == '{' || r == '*')
		}
		if aliasAhead(c) {
			skipStatement(c)
			return true
		}
		return false
	case "as":
		if *importClause || !typeExprAhead(c) {
			return false
		}
		c.SkipWhitespace()
		skipTypeExpr(c)
		return true
	case "declare":
		if !identAheadAfterWS(c) {
			return false
		}
		skipStatement(c)
		return true
	}
	if isAccessModifier(word) && identAheadAfterWS(c) {
		return true
	}
	return false
}

func isAccessModifier(word string) bool {
	switch word {
	case "public", "private", "protected", "readonly", "abstract":
		return true
	}
	return false
}

// copyJSX copies a whole JSX element (or fragment) verbatim, tracking
// tag depth. Expression blocks and prop values in braces are code, so
// their raw text goes through process and the result is emitted in
// their place. Quotes inside children are plain text.
func copyJSX(c *ParseCursor, out *strings.Builder, process func(string) (string, error)) error {
	depth := 0

	for !c.EOF() {
		ch, _ := c.Current()
		switch {
		case ch == '<':
			next, _ := c.Peek(1)
			if next == '/' {
				for {
					r, ok := c.Current()
					if !ok {
						return nil
					}
					out.WriteRune(r)
					c.Advance()
					if r == '>' {
						break
					}
				}
				depth--
				if depth <= 0 {
					return nil
				}
				continue
			}
			if next != '>' && !unicode.IsLetter(next) && next != '_' {
				// A bare '<' inside text content.
				out.WriteRune(ch)
				c.Advance()
				continue
			}
			selfClose := false
			for {
				r, ok := c.Current()
				if !ok {
					return nil
				}
				if r == '"' || r == '\'' || r == '`' {
					if err := c.CopyString(out, process); err != nil {
						return err
					}
					continue
				}
				if r == '{' {
					out.WriteRune('{')
					c.Advance()
					raw := c.readInterpolation()
					replaced, err := process(raw)
					if err != nil {
						return err
					}
					out.WriteString(replaced)
					out.WriteRune('}')
					continue
				}
				if r == '/' {
					if n, _ := c.Peek(1); n == '>' {
						selfClose = true
					}
				}
				out.WriteRune(r)
				c.Advance()
				if r == '>' {
					break
				}
			}
			if !selfClose {
				depth++
			} else if depth <= 0 {
				return nil
			}
		case ch == '{':
			out.WriteRune('{')
			c.Advance()
			raw := c.readInterpolation()
			replaced, err := process(raw)
			if err != nil {
				return err
			}
			out.WriteString(replaced)
			out.WriteRune('}')
		default:
			out.WriteRune(ch)
			c.Advance()
		}
	}
	return nil
}

// annotationAhead classifies the colon at offset base as a type
// annotation. builtinOnly restricts the match to builtin type names;
// otherwise uppercase-leading identifiers and object/tuple type openers
// also qualify.
func annotationAhead(c *ParseCursor, base int, prev rune, builtinOnly bool) bool {
	if !(isWordChar(prev) || prev == ')' || prev == ']') {
		return false
	}
	i := skipWSOffset(c, base+1)
	r, ok := c.Peek(i)
	if !ok {
		return false
	}
	if !builtinOnly {
		if r == '{' || r == '[' {
			return true
		}
		if isIdentStart(r) && unicode.IsUpper(r) {
			return true
		}
	}
	if !isIdentStart(r) {
		return false
	}
	word, _ := peekWordAt(c, i)
	return builtinTypeNames[word]
}

// optionalMarkerAt reports whether the '?' under the cursor is an
// optional-member marker directly in front of a type annotation.
func optionalMarkerAt(c *ParseCursor, prev rune) bool {
	if n, _ := c.Peek(1); n != ':' {
		return false
	}
	return annotationAhead(c, 1, prev, false)
}

// nonNullAssertionAt reports whether the '!' under the cursor is a
// non-null assertion: preceded by a value-ending rune, and not part of
// '!=', '!!', negation, or a spaced expression.
func nonNullAssertionAt(c *ParseCursor, prev rune) bool {
	if !(isWordChar(prev) || prev == ')' || prev == ']') {
		return false
	}
	next, ok := c.Peek(1)
	if !ok {
		return true
	}
	if isWordChar(next) || next == '=' || next == '!' || unicode.IsSpace(next) {
		return false
	}
	return true
}

// genericSpanAhead measures a balanced <...> span containing only
// type-parameter-looking content. Returns 0 when the span crosses a
// character that cannot appear in a generic list, which leaves the '<'
// to be read as a comparison.
func genericSpanAhead(c *ParseCursor) int {
	depth := 0
	for i := 0; ; i++ {
		r, ok := c.Peek(i)
		if !ok {
			return 0
		}
		switch {
		case r == '<':
			depth++
		case r == '>':
			depth--
			if depth == 0 {
				return i + 1
			}
		case isWordChar(r), unicode.IsSpace(r),
			r == ',', r == '.', r == '[', r == ']',
			r == '|', r == '&', r == '\'', r == '"':
		default:
			return 0
		}
	}
}

// skipAnnotation consumes ': <type>' starting at the colon.
func skipAnnotation(c *ParseCursor) {
	c.Advance()
	c.SkipWhitespace()
	skipTypeExpr(c)
}

// skipTypeExpr consumes a type expression including union and
// intersection arms.
func skipTypeExpr(c *ParseCursor) {
	for {
		c.SkipWhitespace()
		skipTypeTerm(c)
		c.SkipWhitespace()
		r, ok := c.Current()
		if !ok || (r != '|' && r != '&') {
			return
		}
		c.Advance()
	}
}

// skipTypeTerm consumes one type term: a possibly dotted identifier with
// generic arguments, a braced or parenthesized form (with a trailing
// '=>' return type), or a literal type, plus array suffixes.
func skipTypeTerm(c *ParseCursor) {
	r, ok := c.Current()
	if !ok {
		return
	}
	switch {
	case r == '{' || r == '[' || r == '(':
		skipBalanced(c)
		if r == '(' {
			i := skipWSOffset(c, 0)
			r1, _ := c.Peek(i)
			r2, _ := c.Peek(i + 1)
			if r1 == '=' && r2 == '>' {
				for n := 0; n < i+2; n++ {
					c.Advance()
				}
				c.SkipWhitespace()
				skipTypeTerm(c)
			}
		}
	case isIdentStart(r):
		word := readWord(c)
		if word == "typeof" || word == "keyof" || word == "new" {
			c.SkipWhitespace()
			skipTypeTerm(c)
			return
		}
		for {
			if d, ok := c.Current(); ok && d == '.' {
				c.Advance()
				readWord(c)
				continue
			}
			break
		}
		if g, ok := c.Current(); ok && g == '<' {
			skipBalanced(c)
		}
	case r == '\'' || r == '"' || r == '`':
		var discard strings.Builder
		c.CopyString(&discard, nil)
	}
	for {
		if s, ok := c.Current(); ok && s == '[' {
			skipBalanced(c)
			continue
		}
		break
	}
}

// skipBalanced consumes a bracketed group starting at the opener under
// the cursor, skipping string contents.
func skipBalanced(c *ParseCursor) {
	open, ok := c.Current()
	if !ok {
		return
	}
	var close rune
	switch open {
	case '{':
		close = '}'
	case '[':
		close = ']'
	case '(':
		close = ')'
	case '<':
		close = '>'
	default:
		return
	}
	depth := 0
	for {
		r, ok := c.Current()
		if !ok {
			return
		}
		if r == '\'' || r == '"' || r == '`' {
			var discard strings.Builder
			c.CopyString(&discard, nil)
			continue
		}
		if r == open {
			depth++
		} else if r == close {
			depth--
			if depth == 0 {
				c.Advance()
				return
			}
		}
		c.Advance()
	}
}

// skipStatement consumes through the terminating ';' at bracket depth
// zero, or to end of input.
func skipStatement(c *ParseCursor) {
	depth := 0
	for {
		r, ok := c.Current()
		if !ok {
			return
		}
		if r == '\'' || r == '"' || r == '`' {
			var discard strings.Builder
			c.CopyString(&discard, nil)
			continue
		}
		switch r {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				c.Advance()
				return
			}
		}
		c.Advance()
	}
}

// atWordStart reports whether the rune under the cursor begins a word.
func atWordStart(c *ParseCursor) bool {
	p, ok := c.Peek(-1)
	return !ok || !isWordChar(p)
}

// readWord consumes and returns the word under the cursor.
func readWord(c *ParseCursor) string {
	start := c.Pos()
	for {
		r, ok := c.Current()
		if !ok || !isWordChar(r) {
			break
		}
		c.Advance()
	}
	return c.Slice(start, c.Pos())
}

// skipWSOffset returns the first offset at or after i holding a
// non-whitespace rune.
func skipWSOffset(c *ParseCursor, i int) int {
	for {
		r, ok := c.Peek(i)
		if !ok || !unicode.IsSpace(r) {
			return i
		}
		i++
	}
}

// peekWordAt reads the word at offset i without moving the cursor,
// returning the word and the offset past it.
func peekWordAt(c *ParseCursor, i int) (string, int) {
	var b strings.Builder
	for {
		r, ok := c.Peek(i)
		if !ok || !isWordChar(r) {
			break
		}
		b.WriteRune(r)
		i++
	}
	return b.String(), i
}

// identAheadAfterWS reports whether the next significant rune starts an
// identifier.
func identAheadAfterWS(c *ParseCursor) bool {
	i := skipWSOffset(c, 0)
	r, ok := c.Peek(i)
	return ok && isIdentStart(r)
}

// aliasAhead matches the `Name =` pattern that distinguishes a type
// alias declaration from a variable or key literally named "type".
func aliasAhead(c *ParseCursor) bool {
	i := skipWSOffset(c, 0)
	r, ok := c.Peek(i)
	if !ok || !isIdentStart(r) {
		return false
	}
	_, i = peekWordAt(c, i)
	i = skipWSOffset(c, i)
	if r, ok := c.Peek(i); !ok || r != '=' {
		return false
	}
	next, _ := c.Peek(i + 1)
	return next != '=' && next != '>'
}

// typeExprAhead reports whether the next significant rune can start a
// type expression after `as`.
func typeExprAhead(c *ParseCursor) bool {
	i := skipWSOffset(c, 0)
	r, ok := c.Peek(i)
	return ok && (isIdentStart(r) || r == '{' || r == '[')
}
