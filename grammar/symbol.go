package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// TerminalID is a stable reference to an entry in a Grammar's terminal
// table. It is assigned at first insertion and never reassigned.
type TerminalID int

// ProdIndex is a stable reference to a Production within a Grammar. Like
// TerminalID, it is assigned once at insertion and is never reordered or
// reused, which is what lets FIRST/FOLLOW/prediction tables and anonymous
// productions refer to each other purely by integer without ever holding a
// pointer into a structure that could move or cycle back on itself.
type ProdIndex int

type symbolKind uint8

const (
	symTerminal symbolKind = iota
	symNonterminal
	symEpsilon
)

// Symbol is one element of an alternation: a terminal reference, a
// nonterminal (production) reference, or epsilon. Epsilon is materialized as
// a real Symbol rather than as an implicit "nullable" flag on a production so
// that the FIRST/FOLLOW algorithms can treat "skip this symbol" uniformly
// instead of special-casing nullability.
type Symbol struct {
	kind    symbolKind
	term    TerminalID
	nonterm ProdIndex
}

// Term builds a terminal Symbol referencing the terminal at index t.
func Term(t TerminalID) Symbol {
	return Symbol{kind: symTerminal, term: t}
}

// NonTerm builds a nonterminal Symbol referencing the production at index p.
func NonTerm(p ProdIndex) Symbol {
	return Symbol{kind: symNonterminal, nonterm: p}
}

// Eps is the sole Epsilon symbol value. It may only appear as the single
// element of a nullable alternation.
var Eps = Symbol{kind: symEpsilon}

// IsTerminal returns whether s references a terminal.
func (s Symbol) IsTerminal() bool { return s.kind == symTerminal }

// IsNonterminal returns whether s references a production.
func (s Symbol) IsNonterminal() bool { return s.kind == symNonterminal }

// IsEpsilon returns whether s is the epsilon symbol.
func (s Symbol) IsEpsilon() bool { return s.kind == symEpsilon }

// Terminal returns the referenced TerminalID. It panics if s is not a
// terminal symbol.
func (s Symbol) Terminal() TerminalID {
	if s.kind != symTerminal {
		panic("grammar: Terminal() called on non-terminal Symbol")
	}
	return s.term
}

// Nonterminal returns the referenced ProdIndex. It panics if s is not a
// nonterminal symbol.
func (s Symbol) Nonterminal() ProdIndex {
	if s.kind != symNonterminal {
		panic("grammar: Nonterminal() called on non-nonterminal Symbol")
	}
	return s.nonterm
}

// Equal returns whether s and o reference the same terminal, the same
// production, or are both epsilon.
func (s Symbol) Equal(o Symbol) bool {
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case symTerminal:
		return s.term == o.term
	case symNonterminal:
		return s.nonterm == o.nonterm
	default:
		return true
	}
}

// Alternation is one right-hand-side choice of a production: an ordered
// sequence of Symbols. Per the grammar's invariants, Epsilon may only appear
// as the sole element of an Alternation.
type Alternation []Symbol

// IsNullable returns whether the alternation consists solely of epsilon.
func (a Alternation) IsNullable() bool {
	return len(a) == 1 && a[0].IsEpsilon()
}

// KString ("k-string") is an ordered sequence of terminal references of
// length at most the grammar's k. A nil/empty KString is the distinguished
// empty k-string, meaning "produces nothing" or "already completed".
type KString []TerminalID

// Concat returns the first k elements of the concatenation of u and v, the
// truncating concatenation operator k-strings are closed under.
func (u KString) Concat(v KString, k int) KString {
	if len(u) > k {
		u = u[:k]
	}
	capacity := len(u) + len(v)
	if capacity > k {
		capacity = k
	}
	out := make(KString, 0, capacity)
	out = append(out, u...)
	for _, t := range v {
		if len(out) >= k {
			break
		}
		out = append(out, t)
	}
	return out
}

// Key returns a string encoding of u suitable for use as a map key. Unlike
// slices, KString values are not directly comparable, so every ordered
// set/map of k-strings in this package is keyed by the result of Key rather
// than by the KString itself.
func (u KString) Key() string {
	if len(u) == 0 {
		return ""
	}
	parts := make([]string, len(u))
	for i, t := range u {
		parts[i] = strconv.Itoa(int(t))
	}
	return strings.Join(parts, ",")
}

// LHSKind classifies the identity of a production's left-hand side.
type LHSKind uint8

const (
	// User identifies a production corresponding to a name the grammar
	// author wrote.
	User LHSKind = iota
	// Group identifies an anonymous production synthesized to hold a
	// parenthesized factor's body.
	Group
	// Repeat identifies an anonymous production synthesized for a `{ ... }`
	// zero-or-more factor.
	Repeat
	// Optional identifies an anonymous production synthesized for a
	// `[ ... ]` optional factor.
	Optional
)

func (k LHSKind) String() string {
	switch k {
	case User:
		return "user"
	case Group:
		return "group"
	case Repeat:
		return "repeat"
	case Optional:
		return "optional"
	default:
		return "unknown"
	}
}

// LHS is the stable identity of a production's left-hand side: either a
// User production carrying the name the grammar author wrote, or one of the
// anonymous kinds synthesized during normalization.
type LHS struct {
	Kind LHSKind
	Name string // only meaningful when Kind == User
}

func (lhs LHS) String() string {
	if lhs.Kind == User {
		return lhs.Name
	}
	return fmt.Sprintf("<%s>", lhs.Kind)
}
