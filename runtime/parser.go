package runtime

import (
	"github.com/dekarrin/llgen/grammar"
	"github.com/dekarrin/llgen/internal/util"
	"github.com/dekarrin/llgen/table"
)

// Parser drives the LL(k) stack machine of spec §4.5 against a prediction
// table. A Parser is read-only once constructed: the same Parser (and the
// Table and Grammar it was built from) may be shared by multiple concurrent
// Parse calls, each of which owns its own stack and cursor (spec §5).
type Parser struct {
	g   *grammar.Grammar
	tbl *table.Table
}

// New builds a Parser from a Grammar and the prediction Table built from it.
func New(g *grammar.Grammar, tbl *table.Table) *Parser {
	return &Parser{g: g, tbl: tbl}
}

// frame is one entry of the parser's stack: a pending production, the
// alternation selected for it (-1 until the table has been consulted), and
// a cursor into that alternation's symbols (spec §4.5 "State").
type frame struct {
	prod   grammar.ProdIndex
	alt    int
	cursor int
}

// lookahead buffers tokens pulled from a TokenStream so the parser can peek
// up to k tokens ahead without losing them, since TokenStream itself only
// exposes a single-token Peek (spec §4.5's "peek window" needs more).
type lookahead struct {
	stream  TokenStream
	pending []Token
	pos     int // count of tokens actually consumed so far, for error "At"
}

func (l *lookahead) fill(n int) {
	for len(l.pending) < n && l.stream.HasNext() {
		l.pending = append(l.pending, l.stream.Next())
	}
}

// peekIDs returns up to k terminal IDs from the buffered input. If fewer
// than k real tokens remain, the end-of-input sentinel is appended once
// (spec §4.5 "Peek window at end-of-input").
func (l *lookahead) peekIDs(g *grammar.Grammar, k int) []grammar.TerminalID {
	l.fill(k)
	n := k
	if len(l.pending) < k {
		n = len(l.pending)
	}
	ids := make([]grammar.TerminalID, 0, k)
	for i := 0; i < n; i++ {
		ids = append(ids, classID(g, l.pending[i].Class()))
	}
	if len(l.pending) < k {
		ids = append(ids, g.EndOfInputID())
	}
	return ids
}

func (l *lookahead) exhausted() bool {
	return len(l.pending) == 0 && !l.stream.HasNext()
}

func (l *lookahead) consumeOne() Token {
	l.fill(1)
	t := l.pending[0]
	l.pending = l.pending[1:]
	l.pos++
	return t
}

// classID resolves a TokenClass to the grammar's TerminalID, returning -1
// (which matches nothing in any Table) for a class the grammar does not
// know about.
func classID(g *grammar.Grammar, c TokenClass) grammar.TerminalID {
	id, ok := g.TerminalID(c.Name())
	if !ok {
		return grammar.TerminalID(-1)
	}
	return id
}

// Parse drives stream against p's prediction table, implementing the main
// loop of spec §4.5. It returns the parse trace and, on success, requires
// the stream to have been fully consumed (spec's "Termination").
func (p *Parser) Parse(stream TokenStream) ([]TraceEntry, error) {
	buf := &lookahead{stream: stream}
	var trace []TraceEntry

	stack := util.Stack[frame]{Of: []frame{{prod: p.g.Start(), alt: -1, cursor: 0}}}

	for !stack.Empty() {
		top := &stack.Of[len(stack.Of)-1]

		if top.alt < 0 {
			alt, err := p.predict(buf, top.prod)
			if err != nil {
				return trace, err
			}
			top.alt = alt
			trace = append(trace, TraceEntry{Production: top.prod, Alt: top.alt})
		}

		alts := p.g.Production(top.prod).Alternations[top.alt]
		if top.cursor >= len(alts) {
			stack.Pop()
			continue
		}

		sym := alts[top.cursor]
		switch {
		case sym.IsEpsilon():
			top.cursor++

		case sym.IsTerminal() && sym.Terminal() == p.g.EndOfInputID():
			// The end-of-input sentinel is synthetic: it is never matched
			// against a real token, only against the stream having run
			// out. Whether the stream genuinely ran out is checked once,
			// after the loop (spec §4.5 "Termination"), so this step just
			// records the sentinel and moves on.
			trace = append(trace, TraceEntry{Production: top.prod, Alt: -1})
			top.cursor++

		case sym.IsTerminal():
			if buf.exhausted() {
				return trace, errUnexpected(buf.pos, p.g.Production(top.prod).LHS, p.tbl.Keys(top.prod))
			}
			tok := buf.consumeOne()
			if classID(p.g, tok.Class()) != sym.Terminal() {
				return trace, errUnexpected(buf.pos-1, p.g.Production(top.prod).LHS, p.tbl.Keys(top.prod))
			}
			trace = append(trace, TraceEntry{Production: top.prod, Alt: -1, Tok: tok})
			top.cursor++

		case sym.IsNonterminal():
			top.cursor++
			stack.Push(frame{prod: sym.Nonterminal(), alt: -1, cursor: 0})
		}
	}

	if !buf.exhausted() {
		return trace, errTrailingInput(buf.pos)
	}

	return trace, nil
}

// predict consults the prediction table for production p, trying peek
// windows of length 1 up to k and keeping the longest one with a recorded
// entry (spec §4.5 step 1's "polymorphic lookahead window", per spec §9).
//
// If no window matches, a production with a nullable alternation falls
// through to it rather than failing outright: the table only ever maps a
// nullable alternation to the k-strings in FOLLOW(p), so a lookahead outside
// that set (but also outside every other alternation's FIRST set) is not
// itself a valid continuation of p, yet letting p derive epsilon and
// reporting the mismatch once the enclosing derivations unwind is what spec
// §8 Scenario E requires (the parser consumes what it can, completes the
// productions that can legitimately go empty, and only then reports
// TrailingInput at the token that never fit anywhere).
func (p *Parser) predict(buf *lookahead, prod grammar.ProdIndex) (int, error) {
	k := p.g.K()
	ids := buf.peekIDs(p.g, k)

	best := -1
	for l := 1; l <= len(ids); l++ {
		if a, ok := p.tbl.Lookup(prod, grammar.KString(ids[:l])); ok {
			best = a
		}
	}
	if best < 0 {
		if alt, ok := nullableAlt(p.g, prod); ok {
			return alt, nil
		}
		return 0, errUnexpected(buf.pos, p.g.Production(prod).LHS, p.tbl.Keys(prod))
	}
	return best, nil
}

// nullableAlt returns the alternation-id of production prod's nullable
// alternation (the one consisting solely of epsilon), if it has one.
func nullableAlt(g *grammar.Grammar, prod grammar.ProdIndex) (int, bool) {
	for i, alt := range g.Production(prod).Alternations {
		if alt.IsNullable() {
			return i, true
		}
	}
	return 0, false
}
