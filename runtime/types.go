// Package runtime is the parser runtime of spec §4.5: a stack machine that
// consumes a token stream against a prediction table and produces either a
// parse trace or a structured ParseError.
package runtime

import "github.com/dekarrin/llgen/grammar"

// TokenClass identifies a token's kind: the identity that must match exactly
// one terminal in a Grammar's terminal table (spec §6). This is the
// index-based generalization of the name-keyed ictiobus lex.TokenClass this
// module's runtime grew out of; here the parser resolves a token's class
// name to a TerminalID through the grammar's terminal table each time it
// peeks at or consumes that token.
type TokenClass interface {
	// Name returns the terminal name this token class matches, which must
	// be a name present in the Grammar's terminal table.
	Name() string
}

// stringClass is the straightforward TokenClass a caller gets from NewToken.
type stringClass string

func (c stringClass) Name() string { return string(c) }

// ClassOf builds a TokenClass directly from a terminal name, for callers
// that don't need a richer TokenClass implementation of their own.
func ClassOf(name string) TokenClass { return stringClass(name) }

// Token is a single input symbol with a stable Class the parser matches
// against the grammar's terminal table (spec §6: "Tokens may carry payload;
// the parser does not inspect it, only the kind"). Payload is opaque to the
// runtime and carried through to the parse trace for a post-processing tree
// builder to use.
type Token interface {
	Class() TokenClass
	Payload() any
}

type simpleToken struct {
	class   TokenClass
	payload any
}

func (t simpleToken) Class() TokenClass { return t.class }
func (t simpleToken) Payload() any      { return t.payload }

// NewToken builds a Token of the named class carrying payload (which may be
// nil).
func NewToken(class string, payload any) Token {
	return simpleToken{class: ClassOf(class), payload: payload}
}

// TokenStream is a stream of tokens read from some source, lazily or
// eagerly. Mirrors the teacher's ictiobus types.TokenStream interface
// exactly (Next/Peek/HasNext), generalized only in that the tokens carry a
// TokenClass instead of a lexer-specific one.
type TokenStream interface {
	// Next returns the next token in the stream and advances it by one.
	Next() Token
	// Peek returns the next token without advancing the stream.
	Peek() Token
	// HasNext reports whether the stream has any additional tokens.
	HasNext() bool
}

// SliceStream is a TokenStream over an in-memory slice of Tokens, the usual
// way a caller who already tokenized everything up front feeds the parser.
type SliceStream struct {
	tokens []Token
	cur    int
}

// NewSliceStream wraps tokens as a TokenStream.
func NewSliceStream(tokens []Token) *SliceStream {
	return &SliceStream{tokens: tokens}
}

func (s *SliceStream) Next() Token {
	t := s.tokens[s.cur]
	s.cur++
	return t
}

func (s *SliceStream) Peek() Token {
	return s.tokens[s.cur]
}

func (s *SliceStream) HasNext() bool {
	return s.cur < len(s.tokens)
}

// TraceEntry is one step of the parse trace: a production selection
// (Alt >= 0), a consumed terminal (Tok != nil), or the start production's
// end-of-input sentinel step (Alt -1 and Tok nil), emitted in the order the
// parser made them (spec §4.5 "Output").
type TraceEntry struct {
	// Production and Alt identify the (production, alternation) pair
	// selected at this step. Alt is -1 for a terminal-consumption entry.
	Production grammar.ProdIndex
	Alt        int
	// Tok is the consumed token for a terminal-consumption entry, nil for a
	// production-selection entry.
	Tok Token
}

// IsProduction reports whether this entry records a (production,
// alternation) selection rather than a consumed terminal.
func (e TraceEntry) IsProduction() bool { return e.Alt >= 0 }
