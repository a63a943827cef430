// Package transpiler converts JSX (optionally TypeScript-flavored) source
// into plain JavaScript built on __hook_jsx_runtime.jsx calls, without
// constructing a syntax tree. Each pass re-scans the text with a fresh
// ParseCursor, so concurrent calls on independent inputs need no
// coordination.
package transpiler

import (
	"strings"
	"unicode"
)

// ParseCursor owns a source's rune sequence and the current offset.
// Every pass allocates its own cursor; cursors are never shared.
type ParseCursor struct {
	src []rune
	pos int
}

// NewParseCursor creates a cursor positioned at the start of source.
func NewParseCursor(source string) *ParseCursor {
	return &ParseCursor{src: []rune(source)}
}

// Current returns the rune at the cursor, or false at end of input.
func (c *ParseCursor) Current() (rune, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

// Peek returns the rune offset positions ahead of the cursor.
func (c *ParseCursor) Peek(offset int) (rune, bool) {
	if c.pos+offset >= len(c.src) || c.pos+offset < 0 {
		return 0, false
	}
	return c.src[c.pos+offset], true
}

// Advance moves the cursor one rune forward.
func (c *ParseCursor) Advance() { c.pos++ }

// Pos returns the current rune offset.
func (c *ParseCursor) Pos() int { return c.pos }

// EOF reports whether the cursor has passed the last rune.
func (c *ParseCursor) EOF() bool { return c.pos >= len(c.src) }

// SkipWhitespace advances past any run of whitespace.
func (c *ParseCursor) SkipWhitespace() {
	for {
		ch, ok := c.Current()
		if !ok || !unicode.IsSpace(ch) {
			return
		}
		c.Advance()
	}
}

// Consume advances past expected, or fails with UnexpectedCharacterError
// at the current position.
func (c *ParseCursor) Consume(expected rune) error {
	if ch, ok := c.Current(); ok && ch == expected {
		c.Advance()
		return nil
	}
	return &UnexpectedCharacterError{Expected: expected, Pos: c.pos}
}

// Slice returns the source text between two rune offsets.
func (c *ParseCursor) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.src) {
		end = len(c.src)
	}
	if start >= end {
		return ""
	}
	return string(c.src[start:end])
}

// AtLineComment reports whether the cursor sits on "//".
func (c *ParseCursor) AtLineComment() bool {
	ch, ok := c.Current()
	next, ok2 := c.Peek(1)
	return ok && ok2 && ch == '/' && next == '/'
}

// AtBlockComment reports whether the cursor sits on "/*".
func (c *ParseCursor) AtBlockComment() bool {
	ch, ok := c.Current()
	next, ok2 := c.Peek(1)
	return ok && ok2 && ch == '/' && next == '*'
}

// AtStringStart returns the quote rune if the cursor sits on a string or
// template-literal opener.
func (c *ParseCursor) AtStringStart() (rune, bool) {
	ch, ok := c.Current()
	if ok && (ch == '"' || ch == '\'' || ch == '`') {
		return ch, true
	}
	return 0, false
}

// CopyLineComment copies a "//" comment through its newline.
func (c *ParseCursor) CopyLineComment(out *strings.Builder) {
	for {
		ch, ok := c.Current()
		if !ok {
			return
		}
		out.WriteRune(ch)
		c.Advance()
		if ch == '\n' {
			return
		}
	}
}

// CopyBlockComment copies a "/*" comment through its closing "*/".
func (c *ParseCursor) CopyBlockComment(out *strings.Builder) {
	out.WriteString("/*")
	c.Advance()
	c.Advance()
	for {
		ch, ok := c.Current()
		if !ok {
			return
		}
		next, _ := c.Peek(1)
		out.WriteRune(ch)
		if ch == '*' && next == '/' {
			out.WriteRune('/')
			c.Advance()
			c.Advance()
			return
		}
		c.Advance()
	}
}

// CopyString copies a string or template literal, preserving escapes.
// Inside a template literal each ${...} interpolation is code, not text:
// its raw source is passed through interp (when non-nil) and the result
// is emitted in its place, so nested strings, JSX, and expressions get
// rescanned by whichever pass is running.
func (c *ParseCursor) CopyString(out *strings.Builder, interp func(string) (string, error)) error {
	quote, ok := c.Current()
	if !ok {
		return nil
	}
	out.WriteRune(quote)
	c.Advance()
	isTemplate := quote == '`'

	for {
		ch, ok := c.Current()
		if !ok {
			return nil // unterminated literal: copied through end of input
		}
		if ch == '\\' {
			out.WriteRune(ch)
			c.Advance()
			if esc, ok := c.Current(); ok {
				out.WriteRune(esc)
				c.Advance()
			}
			continue
		}
		if ch == quote {
			out.WriteRune(ch)
			c.Advance()
			return nil
		}
		if isTemplate && ch == '$' {
			if next, ok := c.Peek(1); ok && next == '{' {
				out.WriteString("${")
				c.Advance()
				c.Advance()
				raw := c.readInterpolation()
				if interp != nil {
					replaced, err := interp(raw)
					if err != nil {
						return err
					}
					out.WriteString(replaced)
				} else {
					out.WriteString(raw)
				}
				out.WriteRune('}')
				continue
			}
		}
		out.WriteRune(ch)
		c.Advance()
	}
}

// readInterpolation consumes a ${...} body through its matching brace,
// balancing nested braces and skipping string contents. The closing
// brace is consumed but not included in the returned text.
func (c *ParseCursor) readInterpolation() string {
	start := c.pos
	depth := 1
	var inStr rune

	for !c.EOF() {
		ch, _ := c.Current()
		if inStr != 0 {
			if ch == '\\' {
				c.Advance()
				c.Advance()
				continue
			}
			if ch == inStr {
				inStr = 0
			}
			c.Advance()
			continue
		}
		switch ch {
		case '\'', '"', '`':
			inStr = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := c.Slice(start, c.pos)
				c.Advance()
				return raw
			}
		}
		c.Advance()
	}
	return c.Slice(start, c.pos)
}

// isWordChar reports whether r can appear in a JS identifier.
func isWordChar(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isIdentStart reports whether r can start a JS identifier.
func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

// isTagNameChar reports whether r can appear in a JSX tag name.
func isTagNameChar(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isPropNameChar reports whether r can appear in a JSX prop name.
func isPropNameChar(r rune) bool {
	return r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
