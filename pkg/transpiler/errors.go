package transpiler

import "fmt"

// UnexpectedCharacterError reports that a required token was absent at a
// source position.
type UnexpectedCharacterError struct {
	Expected rune   // the single character the parser required
	Want     string // description used instead of Expected when set
	Pos      int    // rune offset into the stage input
}

func (e *UnexpectedCharacterError) Error() string {
	if e.Want != "" {
		return fmt.Sprintf("expected %s at position %d", e.Want, e.Pos)
	}
	return fmt.Sprintf("expected '%c' at position %d", e.Expected, e.Pos)
}

// UnexpectedEOFError reports that input ended while a construct was still
// open. Context names the construct, e.g. the open tag.
type UnexpectedEOFError struct {
	Context string
	Pos     int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of input while parsing children of <%s> at position %d", e.Context, e.Pos)
}

// MismatchedClosingTagError reports a closing tag whose name differs from
// the open tag. Opened is empty for a closing tag with no matching open.
type MismatchedClosingTagError struct {
	Opened string
	Closed string
	Pos    int
}

func (e *MismatchedClosingTagError) Error() string {
	if e.Opened == "" {
		return fmt.Sprintf("unexpected closing tag </%s> at position %d", e.Closed, e.Pos)
	}
	return fmt.Sprintf("mismatched closing tag: expected </%s> but got </%s> at position %d", e.Opened, e.Closed, e.Pos)
}

// TypeScriptSyntaxError reports TypeScript-only syntax found while
// transpiling in plain JavaScript mode.
type TypeScriptSyntaxError struct {
	Construct string // e.g. "interface declaration", "type annotation"
	Pos       int
}

func (e *TypeScriptSyntaxError) Error() string {
	return fmt.Sprintf("typescript syntax (%s) detected at position %d; enable typescript mode or remove it", e.Construct, e.Pos)
}

// BackendError wraps a diagnostic from the external compiler backend.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
