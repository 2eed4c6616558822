// Package grammar implements the normalized internal grammar representation
// (§3 of the design: Symbol, Production, Grammar) and the Normalizer (§4.1)
// that lowers an EBNF-like rule set or a structured type declaration into it.
//
// Every production and terminal is assigned a stable integer index at
// insertion and is never reordered or removed; nonterminal references are
// always by index, never by pointer, so that cyclic and mutually recursive
// rules are just ordinary integer edges in a flat, insertion-ordered slice.
// This is the same trick the corpus's LR item sets use for handling
// self-referential grammars, generalized here to the grammar itself rather
// than to item sets over it.
package grammar

import (
	"fmt"
	"strings"
)

// Production is a single named or anonymous rewrite rule: an ordered,
// non-empty sequence of Alternations, each identified within the production
// by its position (its alternation-id).
type Production struct {
	LHS          LHS
	Alternations []Alternation
	Index        ProdIndex
}

// AlternationCount returns the number of alternations defined for the
// production.
func (p *Production) AlternationCount() int {
	return len(p.Alternations)
}

// Grammar is the normalized, invariant-respecting grammar described in §3:
// an insertion-ordered set of productions and terminals, a start production,
// and a lookahead depth k.
//
// Grammar is built exclusively through Normalize; once returned it should be
// treated as immutable by callers other than the normalizer itself. Copy
// returns an independent value if a caller needs to hand out a value that
// won't be mutated out from under it.
type Grammar struct {
	productions   []*Production
	terminals     []string
	terminalIndex map[string]TerminalID
	start         ProdIndex
	hasStart      bool
	k             int
}

// EndOfInput is the name of the sentinel terminal appended to every
// alternation of the start production during normalization (§4.1's
// "start-rule augmentation"). It is added to the terminal table like any
// other terminal, so it participates in FIRST/FOLLOW/prediction-table
// construction without any special-casing in those algorithms.
const EndOfInput = "$"

func newGrammar(k int) *Grammar {
	return &Grammar{
		terminalIndex: make(map[string]TerminalID),
		k:             k,
	}
}

// K returns the grammar's lookahead depth.
func (g *Grammar) K() int { return g.k }

// Start returns the index of the start production.
func (g *Grammar) Start() ProdIndex { return g.start }

// NumProductions returns the number of productions in the grammar.
func (g *Grammar) NumProductions() int { return len(g.productions) }

// NumTerminals returns the number of terminals in the grammar's terminal
// table.
func (g *Grammar) NumTerminals() int { return len(g.terminals) }

// Production returns the production at index p. It panics if p is out of
// range, which should never happen for an index obtained from this Grammar.
func (g *Grammar) Production(p ProdIndex) *Production {
	return g.productions[int(p)]
}

// TerminalName returns the name of the terminal at index t.
func (g *Grammar) TerminalName(t TerminalID) string {
	return g.terminals[int(t)]
}

// TerminalID returns the index of the named terminal and whether it exists.
func (g *Grammar) TerminalID(name string) (TerminalID, bool) {
	id, ok := g.terminalIndex[name]
	return id, ok
}

// EndOfInputID returns the TerminalID of the end-of-input sentinel. It is
// always present after a successful Normalize.
func (g *Grammar) EndOfInputID() TerminalID {
	id, ok := g.terminalIndex[EndOfInput]
	if !ok {
		panic("grammar: end-of-input sentinel missing; grammar was not produced by Normalize")
	}
	return id
}

// Terminals returns the terminal names in insertion (index) order. The
// returned slice must not be mutated.
func (g *Grammar) Terminals() []string {
	return g.terminals
}

func (g *Grammar) addTerminal(name string) TerminalID {
	if id, ok := g.terminalIndex[name]; ok {
		return id
	}
	id := TerminalID(len(g.terminals))
	g.terminals = append(g.terminals, name)
	g.terminalIndex[name] = id
	return id
}

func (g *Grammar) newProduction(lhs LHS) ProdIndex {
	idx := ProdIndex(len(g.productions))
	g.productions = append(g.productions, &Production{LHS: lhs, Index: idx})
	return idx
}

func (g *Grammar) setAlternations(p ProdIndex, alts []Alternation) {
	g.productions[int(p)].Alternations = alts
}

// DirectlyLeftRecursive returns whether any alternation of the production at
// index p begins with a Nonterminal reference back to p itself (invariant 5
// of §3).
func (g *Grammar) DirectlyLeftRecursive(p ProdIndex) bool {
	prod := g.Production(p)
	for _, alt := range prod.Alternations {
		if len(alt) == 0 {
			continue
		}
		first := alt[0]
		if first.IsNonterminal() && first.Nonterminal() == p {
			return true
		}
	}
	return false
}

// Assemble reconstructs a Grammar directly from already-normalized parts,
// trusting the caller that the invariants of §3 hold rather than
// re-deriving them the way Normalize does. This is the entry point a
// deserializer (llkio) uses to round-trip a Grammar that was normalized,
// serialized, and is now being loaded back in; Normalize remains the only
// path that builds a Grammar from untrusted declarative input.
func Assemble(k int, start ProdIndex, terminals []string, productions []*Production) *Grammar {
	g := newGrammar(k)
	g.start = start
	g.hasStart = true
	for _, name := range terminals {
		g.addTerminal(name)
	}
	g.productions = productions
	return g
}

// Copy returns a deep copy of the grammar. FIRST/FOLLOW/prediction tables
// borrow indices into a Grammar and must not outlive it (§5); Copy lets a
// caller hand out an independent Grammar value when that lifetime can't be
// guaranteed statically, the same role Grammar.Copy plays for the LL1 parser
// in the teacher package this module grew out of.
func (g *Grammar) Copy() *Grammar {
	cp := &Grammar{
		terminals:     append([]string(nil), g.terminals...),
		terminalIndex: make(map[string]TerminalID, len(g.terminalIndex)),
		start:         g.start,
		hasStart:      g.hasStart,
		k:             g.k,
	}
	for name, id := range g.terminalIndex {
		cp.terminalIndex[name] = id
	}
	cp.productions = make([]*Production, len(g.productions))
	for i, p := range g.productions {
		alts := make([]Alternation, len(p.Alternations))
		for j, a := range p.Alternations {
			alts[j] = append(Alternation(nil), a...)
		}
		cp.productions[i] = &Production{LHS: p.LHS, Alternations: alts, Index: p.Index}
	}
	return cp
}

// String renders the grammar as a numbered production listing, in the same
// spirit as the original parser-generator's Display implementation: one
// line per production, terminals quoted, alternations separated by "|".
func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "k = %d\nstart = %d\n\n", g.k, g.start)
	for _, p := range g.productions {
		fmt.Fprintf(&sb, "%d(%s)\t: ", p.Index, p.LHS)
		for i, alt := range p.Alternations {
			if i > 0 {
				sb.WriteString("\n\t| ")
			}
			for j, sym := range alt {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(g.symbolString(sym))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (g *Grammar) symbolString(s Symbol) string {
	switch {
	case s.IsEpsilon():
		return "ε"
	case s.IsTerminal():
		return fmt.Sprintf("%q", g.TerminalName(s.Terminal()))
	default:
		return fmt.Sprintf("%d", s.Nonterminal())
	}
}
