package transpiler

import (
	"strings"
	"unicode"
)

// Downlevel rewrites ES2020+ constructs into ES5-compatible forms for
// legacy JavaScriptCore engines: const/let become var, optional chains
// and nullish coalescing become explicit null checks. Code inside
// strings, template literals, and comments is never touched; template
// interpolations are transformed as code. Running it again on output
// already free of these constructs is a no-op.
func Downlevel(source string) string {
	d := &downleveler{in: []rune(source)}
	return d.run()
}

// downleveler scans input left to right while rewrites read and truncate
// the already-emitted output, so transforms compose in one pass:
// nullish coalescing after an optional chain sees the rewritten chain
// as its left operand.
type downleveler struct {
	in  []rune
	out []rune
	pos int
}

func (d *downleveler) run() string {
	for d.pos < len(d.in) {
		switch {
		case d.cur() == '/' && d.peek(1) == '/':
			d.copyLineComment()
		case d.cur() == '/' && d.peek(1) == '*':
			d.copyBlockComment()
		case d.cur() == '"' || d.cur() == '\'' || d.cur() == '`':
			d.copyString(d.cur())
		default:
			d.normal()
		}
	}
	return string(d.out)
}

func (d *downleveler) cur() rune {
	if d.pos >= len(d.in) {
		return 0
	}
	return d.in[d.pos]
}

func (d *downleveler) peek(offset int) rune {
	if d.pos+offset >= len(d.in) || d.pos+offset < 0 {
		return 0
	}
	return d.in[d.pos+offset]
}

func (d *downleveler) emit(s string) {
	d.out = append(d.out, []rune(s)...)
}

func (d *downleveler) normal() {
	if d.wordBoundaryBefore() {
		if d.matchWord("const") {
			d.emit("var")
			d.pos += 5
			return
		}
		if d.matchWord("let") {
			d.emit("var")
			d.pos += 3
			return
		}
	}

	if d.cur() == '?' && d.peek(1) == '.' && d.optionalChainContext() {
		d.rewriteOptionalChain()
		return
	}
	if d.cur() == '?' && d.peek(1) == '?' {
		d.rewriteNullish()
		return
	}

	d.out = append(d.out, d.in[d.pos])
	d.pos++
}

// matchWord reports whether word sits at the cursor with a word
// boundary after it. The boundary before is checked by the caller.
func (d *downleveler) matchWord(word string) bool {
	for i, r := range word {
		if d.peek(i) != r {
			return false
		}
	}
	after := d.peek(len(word))
	return after == 0 || !isValueRune(after)
}

func (d *downleveler) wordBoundaryBefore() bool {
	if d.pos == 0 {
		return true
	}
	return !isValueRune(d.in[d.pos-1])
}

func isValueRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isChainRune matches the runes that can end an optional-chain object
// expression. '$' is deliberately absent, matching the documented
// heuristic.
func isChainRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (d *downleveler) copyLineComment() {
	for d.pos < len(d.in) {
		ch := d.in[d.pos]
		d.out = append(d.out, ch)
		d.pos++
		if ch == '\n' {
			return
		}
	}
}

func (d *downleveler) copyBlockComment() {
	d.emit("/*")
	d.pos += 2
	for d.pos < len(d.in) {
		ch := d.in[d.pos]
		d.out = append(d.out, ch)
		if ch == '*' && d.peek(1) == '/' {
			d.out = append(d.out, '/')
			d.pos += 2
			return
		}
		d.pos++
	}
}

// copyString copies a string literal verbatim. Template interpolations
// are code: const/let are left alone there, but optional chains and
// nullish coalescing are rewritten, including inside nested strings'
// own interpolations.
func (d *downleveler) copyString(quote rune) {
	d.out = append(d.out, quote)
	d.pos++
	isTemplate := quote == '`'

	for d.pos < len(d.in) {
		ch := d.in[d.pos]

		if ch == '\\' && d.pos+1 < len(d.in) {
			d.out = append(d.out, ch, d.in[d.pos+1])
			d.pos += 2
			continue
		}
		if ch == quote {
			d.out = append(d.out, ch)
			d.pos++
			return
		}
		if isTemplate && ch == '$' && d.peek(1) == '{' {
			d.emit("${")
			d.pos += 2
			d.copyInterpolation()
			continue
		}

		d.out = append(d.out, ch)
		d.pos++
	}
}

// copyInterpolation transforms the code inside a ${...} block, emitting
// the closing brace when the block is balanced.
func (d *downleveler) copyInterpolation() {
	depth := 1
	for depth > 0 && d.pos < len(d.in) {
		switch {
		case d.cur() == '/' && d.peek(1) == '/':
			d.copyLineComment()
		case d.cur() == '/' && d.peek(1) == '*':
			d.copyBlockComment()
		case d.cur() == '"' || d.cur() == '\'' || d.cur() == '`':
			d.copyString(d.cur())
		case d.cur() == '{':
			depth++
			d.out = append(d.out, '{')
			d.pos++
		case d.cur() == '}':
			depth--
			if depth > 0 {
				d.out = append(d.out, '}')
			}
			d.pos++
		case d.cur() == '?' && d.peek(1) == '.' && d.optionalChainContext():
			d.rewriteOptionalChain()
		case d.cur() == '?' && d.peek(1) == '?':
			d.rewriteNullish()
		default:
			d.out = append(d.out, d.in[d.pos])
			d.pos++
		}
	}
	if depth == 0 {
		d.out = append(d.out, '}')
	}
}

// optionalChainContext checks the input before '?.' for a value-ending
// rune, so ternaries like `a ? .5 : b` are left alone.
func (d *downleveler) optionalChainContext() bool {
	i := d.pos - 1
	for i >= 0 && unicode.IsSpace(d.in[i]) {
		i--
	}
	if i < 0 {
		return false
	}
	ch := d.in[i]
	return isChainRune(ch) || ch == ')' || ch == ']'
}

// rewriteOptionalChain lowers obj?.prop, obj?.[expr], and obj?.(args)
// to `(obj != null ? obj<rest> : undefined)`. The object expression is
// recovered by scanning the emitted output backward; a captured leading
// statement keyword is moved back out so the rewrite stays valid, e.g.
// `return x?.y` becomes `return (x != null ? x.y : undefined)`.
func (d *downleveler) rewriteOptionalChain() {
	objStart := d.findObjectStart()
	segment := string(d.out[objStart:])
	obj := strings.TrimRightFunc(segment, unicode.IsSpace)
	leadingWS := obj[:len(obj)-len(strings.TrimLeftFunc(obj, unicode.IsSpace))]
	obj = strings.TrimLeftFunc(obj, unicode.IsSpace)
	d.out = d.out[:objStart]

	var keywords []string
	for {
		found := false
		for _, kw := range []string{"return", "throw", "await", "yield"} {
			rest, ok := strings.CutPrefix(obj, kw)
			if !ok || rest == "" {
				continue
			}
			first := []rune(rest)[0]
			if unicode.IsSpace(first) || first == '(' || first == '{' {
				keywords = append(keywords, kw)
				obj = strings.TrimLeftFunc(rest, unicode.IsSpace)
				found = true
				break
			}
		}
		if !found {
			break
		}
	}

	d.emit(leadingWS)
	for _, kw := range keywords {
		d.emit(kw + " ")
	}

	d.pos += 2 // skip ?.

	switch d.cur() {
	case '[':
		d.emit("(" + obj + " != null ? " + obj + "[")
		d.pos++
		depth := 1
		for depth > 0 && d.pos < len(d.in) {
			ch := d.in[d.pos]
			if ch == '[' {
				depth++
			} else if ch == ']' {
				depth--
			}
			d.out = append(d.out, ch)
			d.pos++
		}
		d.emit(" : undefined)")
	case '(':
		d.emit("(" + obj + " != null ? " + obj + "(")
		d.pos++
		depth := 1
		for depth > 0 && d.pos < len(d.in) {
			ch := d.in[d.pos]
			if ch == '(' {
				depth++
			} else if ch == ')' {
				depth--
			}
			d.out = append(d.out, ch)
			d.pos++
		}
		d.emit(" : undefined)")
	default:
		d.emit("(" + obj + " != null ? " + obj + ".")
		for d.pos < len(d.in) && isChainRune(d.in[d.pos]) {
			d.out = append(d.out, d.in[d.pos])
			d.pos++
		}
		d.emit(" : undefined)")
	}
}

// rewriteNullish lowers `a ?? b` to `(a != null ? a : b)`. The left
// operand is scanned backward over the emitted output to the nearest
// boundary, balancing parens and brackets; the right operand runs to
// the next terminator.
func (d *downleveler) rewriteNullish() {
	leftEnd := d.findOperatorLeftOperand()
	segment := string(d.out[leftEnd:])
	left := strings.TrimSpace(segment)
	leadingWS := segment[:len(segment)-len(strings.TrimLeftFunc(segment, unicode.IsSpace))]
	d.out = d.out[:leftEnd]

	d.pos += 2 // skip ??

	d.emit(leadingWS)
	d.emit("(" + left + " != null ? " + left + " : ")

	var right []rune
	for d.pos < len(d.in) {
		ch := d.in[d.pos]
		if ch == ';' || ch == ',' || ch == ')' || ch == '}' || ch == ']' || ch == '\n' {
			break
		}
		right = append(right, ch)
		d.pos++
	}
	d.emit(strings.TrimSpace(string(right)) + ")")
}

// findObjectStart locates the start of the object expression in the
// emitted output: identifier runs and '.' member chains extend
// backward, a closing paren or bracket pulls in its whole balanced
// group (call receivers included), and anything else is a boundary.
func (d *downleveler) findObjectStart() int {
	started := false
	depth := 0

	for i := len(d.out) - 1; i >= 0; i-- {
		ch := d.out[i]
		if !started {
			if unicode.IsSpace(ch) {
				continue
			}
			if ch == ')' || ch == ']' {
				started = true
				depth = 1
				continue
			}
			if isChainRune(ch) {
				started = true
				continue
			}
			return i + 1
		}

		switch ch {
		case ')', ']':
			depth++
		case '(', '[':
			if depth > 0 {
				depth--
				continue
			}
			return i + 1
		default:
			if depth > 0 {
				continue
			}
			if isChainRune(ch) || ch == '.' {
				continue
			}
			return i + 1
		}
	}
	return 0
}

// findOperatorLeftOperand scans the emitted output backward for the
// nearest statement or argument boundary outside any balanced group.
func (d *downleveler) findOperatorLeftOperand() int {
	paren := 0
	bracket := 0

	for i := len(d.out) - 1; i >= 0; i-- {
		switch d.out[i] {
		case ')':
			paren++
		case '(':
			if paren > 0 {
				paren--
			} else {
				return i + 1
			}
		case ']':
			bracket++
		case '[':
			if bracket > 0 {
				bracket--
			} else {
				return i + 1
			}
		case '=':
			if paren == 0 && bracket == 0 {
				// An arrow's => is not an assignment boundary; the
				// operand starts after the arrow head.
				if i+1 < len(d.out) && d.out[i+1] == '>' {
					return i + 2
				}
				return i + 1
			}
		case ';', ',', '{', '}':
			if paren == 0 && bracket == 0 {
				return i + 1
			}
		}
	}
	return 0
}
