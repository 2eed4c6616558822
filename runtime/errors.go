package runtime

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llgen/grammar"
)

// ParseErrorKind discriminates the taxonomy of errors Parse can return
// (spec §7).
type ParseErrorKind int

const (
	// ErrUnexpected means no prediction-table entry matched the peek
	// window at the current production.
	ErrUnexpected ParseErrorKind = iota
	// ErrTrailingInput means the parse completed (the stack emptied) but
	// the token stream was not fully consumed.
	ErrTrailingInput
	// ErrUnterminatedInput means the parser needed another token but the
	// stream ended before the end-of-input sentinel was reached. Parse does
	// not return this kind: a stream that ends where a terminal is still
	// required is reported as ErrUnexpected at the end position.
	ErrUnterminatedInput
)

func (k ParseErrorKind) String() string {
	switch k {
	case ErrUnexpected:
		return "unexpected token"
	case ErrTrailingInput:
		return "trailing input"
	case ErrUnterminatedInput:
		return "unterminated input"
	default:
		return "unknown parse error"
	}
}

// ParseError is returned by Parse when the token stream does not conform to
// the grammar the parser was built from. It carries enough structural
// information for a caller to render a human-readable message; rendering
// itself is out of scope (spec §7).
type ParseError struct {
	Kind ParseErrorKind
	// At is the cursor position (token index) where the error was
	// detected.
	At int
	// Expected holds the k-strings the prediction table accepted at the
	// offending production; set only for ErrUnexpected.
	Expected []grammar.KString
	// Production names the production being predicted when the error was
	// raised; set for ErrUnexpected and ErrUnterminatedInput.
	Production grammar.LHS
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrUnexpected:
		return fmt.Sprintf("unexpected token at position %d while predicting %s: expected one of %s", e.At, e.Production, renderExpected(e.Expected))
	case ErrTrailingInput:
		return fmt.Sprintf("trailing input at position %d: parse completed before end of stream", e.At)
	case ErrUnterminatedInput:
		return fmt.Sprintf("input ended at position %d while still predicting %s", e.At, e.Production)
	default:
		return "parse error"
	}
}

// Is allows errors.Is(err, &ParseError{Kind: ErrTrailingInput}) to match by
// Kind alone.
func (e *ParseError) Is(target error) bool {
	other, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func renderExpected(kstrings []grammar.KString) string {
	parts := make([]string, len(kstrings))
	for i, u := range kstrings {
		ints := make([]string, len(u))
		for j, t := range u {
			ints[j] = fmt.Sprintf("%d", t)
		}
		parts[i] = "[" + strings.Join(ints, " ") + "]"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func errUnexpected(at int, lhs grammar.LHS, expected []grammar.KString) error {
	return &ParseError{Kind: ErrUnexpected, At: at, Production: lhs, Expected: expected}
}

func errTrailingInput(at int) error {
	return &ParseError{Kind: ErrTrailingInput, At: at}
}

func errUnterminatedInput(at int, lhs grammar.LHS) error {
	return &ParseError{Kind: ErrUnterminatedInput, At: at, Production: lhs}
}
