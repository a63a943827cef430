package transpiler

import (
	"fmt"
	"strings"
	"unicode"
)

// RuntimeFactory is the fixed identifier of the element factory supplied
// by the execution environment. Every lowered element becomes a
// RuntimeFactory.jsx(tag, props) call.
const RuntimeFactory = "__hook_jsx_runtime"

// fragmentTag is the container element fragments lower to. Fragments
// carry no identity of their own.
const fragmentTag = "'div'"

// rewriteJSX scans source for JSX start positions and lowers every
// element into a runtime factory call, copying non-JSX code verbatim.
// Strings, comments, and template literals are opaque; template
// interpolations are re-entered as code.
func rewriteJSX(source string, opts *Options) (string, error) {
	c := NewParseCursor(source)
	var out strings.Builder
	var prev rune // last significant code rune, 0 at start of input

	for !c.EOF() {
		ch, _ := c.Current()
		switch {
		case c.AtLineComment():
			c.CopyLineComment(&out)
		case c.AtBlockComment():
			c.CopyBlockComment(&out)
		case ch == '"' || ch == '\'' || ch == '`':
			err := c.CopyString(&out, func(expr string) (string, error) {
				return rewriteJSX(expr, opts)
			})
			if err != nil {
				return "", err
			}
			prev = ch
		case ch == '<' && isJSXStart(c, prev, opts.IsTypeScript):
			element, err := parseElement(c, opts)
			if err != nil {
				return "", err
			}
			out.WriteString(element)
			prev = '>'
		default:
			out.WriteRune(ch)
			if !unicode.IsSpace(ch) {
				prev = ch
			}
			c.Advance()
		}
	}
	return out.String(), nil
}

// isJSXStart decides whether the '<' under the cursor begins JSX rather
// than a comparison or (in TypeScript) a generic parameter list.
//
//  1. '<' directly after an identifier-ish rune is never JSX.
//  2. "</" always is (closing tag or fragment close).
//  3. Otherwise a tag-name-like identifier followed by '>', '/', or an
//     attribute-name-looking identifier means JSX; "<T>(" means a generic
//     arrow function. This classification only runs in TypeScript mode.
//  4. Bare "<>" is a fragment open.
func isJSXStart(c *ParseCursor, prev rune, typescript bool) bool {
	if prev != 0 && isWordChar(prev) {
		return false
	}
	next, ok := c.Peek(1)
	if !ok {
		return false
	}
	if next == '/' || next == '>' {
		return true
	}
	if !unicode.IsLetter(next) {
		return false
	}
	if !typescript {
		return true
	}

	i := 1
	for {
		r, ok := c.Peek(i)
		if !ok || !isTagNameChar(r) {
			break
		}
		i++
	}
	for {
		r, ok := c.Peek(i)
		if !ok || !unicode.IsSpace(r) {
			break
		}
		i++
	}
	sig, ok := c.Peek(i)
	if !ok {
		return false
	}
	switch {
	case sig == '>':
		// <T>(...) is a generic arrow function, not an element.
		after, _ := c.Peek(i + 1)
		return after != '('
	case sig == '/':
		return true
	case isIdentStart(sig):
		return true
	}
	return false
}

// isCustomComponent reports whether tag is a user component (emitted as
// a bare identifier) instead of a host element (emitted quoted).
func isCustomComponent(tag string) bool {
	if tag == "" {
		return false
	}
	first := []rune(tag)[0]
	return unicode.IsUpper(first) || strings.Contains(tag, ".")
}

// tagRef renders the first argument of the factory call for a tag.
func tagRef(tag string) string {
	if isCustomComponent(tag) {
		return tag
	}
	return `"` + tag + `"`
}

// parseElement parses one element or fragment starting at '<' and
// returns its lowered factory call.
func parseElement(c *ParseCursor, opts *Options) (string, error) {
	if err := c.Consume('<'); err != nil {
		return "", err
	}

	if ch, ok := c.Current(); ok && ch == '>' {
		c.Advance()
		return parseFragment(c, opts)
	}

	if ch, ok := c.Current(); ok && ch == '/' {
		pos := c.Pos() - 1
		c.Advance()
		nameStart := c.Pos()
		for {
			r, ok := c.Current()
			if !ok || !isTagNameChar(r) {
				break
			}
			c.Advance()
		}
		return "", &MismatchedClosingTagError{Closed: c.Slice(nameStart, c.Pos()), Pos: pos}
	}

	tagStart := c.Pos()
	for {
		r, ok := c.Current()
		if !ok || !isTagNameChar(r) {
			break
		}
		c.Advance()
	}
	tag := c.Slice(tagStart, c.Pos())

	c.SkipWhitespace()
	props, err := parseProps(c, opts)
	if err != nil {
		return "", err
	}
	c.SkipWhitespace()

	if ch, ok := c.Current(); ok && ch == '/' {
		c.Advance()
		if err := c.Consume('>'); err != nil {
			return "", err
		}
		return jsxCall(tagRef(tag), props, nil), nil
	}

	if err := c.Consume('>'); err != nil {
		return "", err
	}
	children, err := parseChildren(c, opts, tag)
	if err != nil {
		return "", err
	}
	return jsxCall(tagRef(tag), props, children), nil
}

// parseFragment parses <>...</> children after the opening "<>" has been
// consumed. Fragments match any closing tag name.
func parseFragment(c *ParseCursor, opts *Options) (string, error) {
	children, err := parseChildren(c, opts, "")
	if err != nil {
		return "", err
	}
	return jsxCall(fragmentTag, "{}", children), nil
}

// jsxCall composes the factory call, folding children into the props
// object as a trailing "children" key after all explicit props.
func jsxCall(tagValue, props string, children []string) string {
	if len(children) == 0 {
		return fmt.Sprintf("%s.jsx(%s, %s)", RuntimeFactory, tagValue, props)
	}
	list := strings.Join(children, ", ")
	var merged string
	if props == "{}" {
		merged = fmt.Sprintf("{ children: [%s] }", list)
	} else {
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(props, "{"), "}"))
		if inner == "" {
			merged = fmt.Sprintf("{ children: [%s] }", list)
		} else {
			merged = fmt.Sprintf("{ %s, children: [%s] }", inner, list)
		}
	}
	return fmt.Sprintf("%s.jsx(%s, %s)", RuntimeFactory, tagValue, merged)
}

// parseProps accumulates spread, valued, and boolean props in source
// order until the tag closes.
func parseProps(c *ParseCursor, opts *Options) (string, error) {
	var props []string

	for {
		ch, ok := c.Current()
		if !ok {
			return "", &UnexpectedCharacterError{Expected: '>', Pos: c.Pos()}
		}
		if ch == '>' || ch == '/' {
			break
		}
		c.SkipWhitespace()
		ch, ok = c.Current()
		if !ok {
			return "", &UnexpectedCharacterError{Expected: '>', Pos: c.Pos()}
		}
		if ch == '>' || ch == '/' {
			break
		}

		// Spread props {...expr}
		if ch == '{' {
			p1, _ := c.Peek(1)
			p2, _ := c.Peek(2)
			if p1 == '.' && p2 == '.' {
				c.Advance() // {
				c.Advance() // .
				c.Advance() // .
				c.Advance() // .
				expr := parseJSExpression(c, '}')
				if err := c.Consume('}'); err != nil {
					return "", err
				}
				props = append(props, "..."+strings.TrimSpace(expr))
				continue
			}
		}

		nameStart := c.Pos()
		for {
			r, ok := c.Current()
			if !ok || !isPropNameChar(r) {
				break
			}
			c.Advance()
		}
		name := c.Slice(nameStart, c.Pos())
		c.SkipWhitespace()

		if eq, ok := c.Current(); ok && eq == '=' {
			c.Advance()
			c.SkipWhitespace()

			var value string
			cur, ok := c.Current()
			switch {
			case ok && (cur == '"' || cur == '\''):
				v, err := parseStringLiteral(c)
				if err != nil {
					return "", err
				}
				value = v
			case ok && cur == '{':
				c.Advance()
				expr := parseJSExpression(c, '}')
				if err := c.Consume('}'); err != nil {
					return "", err
				}
				// Nested JSX inside expression values is lowered too.
				v, err := rewriteJSX(expr, opts)
				if err != nil {
					return "", err
				}
				value = v
			default:
				return "", &UnexpectedCharacterError{Want: "prop value", Pos: c.Pos()}
			}
			props = append(props, name+": "+value)
		} else if name != "" {
			// Bare prop means true.
			props = append(props, name+": true")
		} else if cur, ok := c.Current(); ok && cur != '>' && cur != '/' {
			// Skip a stray character so the loop always makes progress.
			c.Advance()
		}
		c.SkipWhitespace()
	}

	if len(props) == 0 {
		return "{}", nil
	}
	return "{ " + strings.Join(props, ", ") + " }", nil
}

// parseChildren collects child expressions until the matching closing
// tag. parentTag is empty for fragments, which match any closing name.
func parseChildren(c *ParseCursor, opts *Options, parentTag string) ([]string, error) {
	var children []string

	for {
		c.SkipWhitespace()
		if c.EOF() {
			return nil, &UnexpectedEOFError{Context: parentTag, Pos: c.Pos()}
		}
		ch, _ := c.Current()

		if ch == '<' {
			if next, ok := c.Peek(1); ok && next == '/' {
				closePos := c.Pos()
				c.Advance() // <
				c.Advance() // /
				nameStart := c.Pos()
				for {
					r, ok := c.Current()
					if !ok || !isTagNameChar(r) {
						break
					}
					c.Advance()
				}
				closeName := c.Slice(nameStart, c.Pos())
				c.SkipWhitespace()
				if err := c.Consume('>'); err != nil {
					return nil, err
				}
				if parentTag != "" && closeName != parentTag {
					return nil, &MismatchedClosingTagError{Opened: parentTag, Closed: closeName, Pos: closePos}
				}
				return children, nil
			}
			if isJSXStart(c, 0, opts.IsTypeScript) {
				child, err := parseElement(c, opts)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
				continue
			}
		}

		if ch == '{' {
			c.Advance()
			expr := parseJSExpression(c, '}')
			if err := c.Consume('}'); err != nil {
				return nil, err
			}
			rewritten, err := rewriteJSX(expr, opts)
			if err != nil {
				return nil, err
			}
			children = append(children, rewritten)
			continue
		}

		// Text run up to the next markup or expression start.
		textStart := c.Pos()
		for {
			r, ok := c.Current()
			if !ok || r == '<' || r == '{' {
				break
			}
			c.Advance()
		}
		text := strings.TrimSpace(c.Slice(textStart, c.Pos()))
		if text != "" {
			children = append(children, `"`+escapeString(text)+`"`)
		}
		if c.Pos() == textStart {
			// A '<' that is not JSX: stop collecting and let the outer
			// scan carry on with the raw text.
			return children, nil
		}
	}
}

// parseStringLiteral reads a quoted prop value and renders it as a
// double-quoted JS string.
func parseStringLiteral(c *ParseCursor) (string, error) {
	quote, _ := c.Current()
	c.Advance()

	start := c.Pos()
	for {
		ch, ok := c.Current()
		if !ok || ch == quote {
			break
		}
		if ch == '\\' {
			c.Advance() // skip escaped char
		}
		c.Advance()
	}
	content := c.Slice(start, c.Pos())
	if err := c.Consume(quote); err != nil {
		return "", err
	}
	return `"` + escapeString(content) + `"`, nil
}

// parseJSExpression captures raw expression text up to an unnested
// terminator, tracking bracket depth and skipping string contents.
func parseJSExpression(c *ParseCursor, terminator rune) string {
	start := c.Pos()
	depth := 0
	inString := false
	var stringChar rune

	for {
		ch, ok := c.Current()
		if !ok {
			break
		}
		if inString {
			if ch == '\\' {
				c.Advance()
				c.Advance()
				continue
			}
			if ch == stringChar {
				inString = false
			}
			c.Advance()
			continue
		}
		if ch == '"' || ch == '\'' || ch == '`' {
			inString = true
			stringChar = ch
			c.Advance()
			continue
		}
		if ch == '{' || ch == '[' || ch == '(' {
			depth++
			c.Advance()
			continue
		}
		if ch == '}' || ch == ']' || ch == ')' {
			if depth == 0 && ch == terminator {
				break
			}
			depth--
			c.Advance()
			continue
		}
		if depth == 0 && ch == terminator {
			break
		}
		c.Advance()
	}
	return c.Slice(start, c.Pos())
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// escapeString escapes text for embedding in a double-quoted JS string.
func escapeString(s string) string {
	return stringEscaper.Replace(s)
}
