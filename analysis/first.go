package analysis

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llgen/grammar"
)

// FirstSets holds the FIRST_k table of spec §3: for every production and
// every alternation of that production, the set of k-strings that can begin
// some derivation of that alternation's right-hand side.
//
// A FirstSets value borrows indices into the grammar.Grammar it was built
// from (spec §5) and must not outlive it.
type FirstSets struct {
	g      *grammar.Grammar
	perAlt [][]*kstringSet // [production][alternation] -> set
	flat   []*kstringSet   // [production] -> union across its alternations
}

// Set returns the FIRST_k set of the given alternation, in insertion order.
func (fs *FirstSets) Set(p grammar.ProdIndex, alt int) []grammar.KString {
	return fs.perAlt[int(p)][alt].elements()
}

// Nullable reports whether the given alternation's FIRST_k set contains the
// empty k-string.
func (fs *FirstSets) Nullable(p grammar.ProdIndex, alt int) bool {
	return fs.perAlt[int(p)][alt].hasEmpty()
}

// Flattened returns the union of FIRST_k over every alternation of
// production p, in the order members were first discovered. This is what
// the analyzer convolves against when a Nonterminal appears mid-sequence
// (spec §4.2) and what the table builder and FOLLOW computation use to ask
// "what can this production start with, over all its choices".
func (fs *FirstSets) Flattened(p grammar.ProdIndex) []grammar.KString {
	return fs.flat[int(p)].elements()
}

// ExpandSequence computes FIRST_k of an arbitrary symbol sequence (not
// necessarily a whole alternation) against this already-converged
// FirstSets, truncating at k and convolving nonterminal references against
// their Flattened sets. It is exposed for FOLLOW_k's use (spec §4.3): by the
// time FOLLOW runs, FIRST is final, so the suffix of symbols following any
// given position in an alternation can be expanded in one pass rather than
// through the incremental fixed point FIRST itself needs.
func (fs *FirstSets) ExpandSequence(symbols []grammar.Symbol) []grammar.KString {
	return fs.expand(symbols)
}

// String renders the FIRST_k table for debugging, one line per
// (production, alternation), in the spirit of the original implementation's
// FirstSets Display impl (spec §6 supplemented feature).
func (fs *FirstSets) String() string {
	var sb strings.Builder
	for p := 0; p < fs.g.NumProductions(); p++ {
		prod := fs.g.Production(grammar.ProdIndex(p))
		for a := range prod.Alternations {
			fmt.Fprintf(&sb, "FIRST(%d, %d) = %s\n", p, a, renderKStrings(fs.g, fs.Set(grammar.ProdIndex(p), a)))
		}
	}
	return sb.String()
}

func renderKStrings(g *grammar.Grammar, us []grammar.KString) string {
	parts := make([]string, len(us))
	for i, u := range us {
		if len(u) == 0 {
			parts[i] = "ε"
			continue
		}
		names := make([]string, len(u))
		for j, t := range u {
			names[j] = g.TerminalName(t)
		}
		parts[i] = "[" + strings.Join(names, " ") + "]"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ComputeFirst computes FIRST_k for every production and alternation of g,
// implementing the work-list fixed-point algorithm of spec §4.2.
//
// Whenever a production's FIRST set grows, every production with an
// alternation that references it is re-enqueued. Because every alternation expansion is
// truncated at k, the set of distinct k-strings any alternation can ever
// contribute is finite, so the queue drains on its own; the work-queue
// visit cap (fairnessBound) is a backstop for the FIFO schedule never
// reaching the fixed point it's owed, not the mechanism that catches
// indirect left recursion. A production whose every symbol reference
// eventually loops back to itself without ever bottoming out in a terminal
// (e.g. `A := B x ; B := A y ;`) instead converges cleanly on an empty FIRST
// set: expand drops a path through an unresolved nonterminal rather than
// guessing, so nothing ever gets added, `changed` stays false, and the
// queue drains with that production never visited again. Left unchecked
// that would be a silent wrong success — a grammar that is not LL(k) at all
// reported as compiling fine, with a prediction table that simply never
// matches anything for that production. spec §9 requires indirect left
// recursion to be reported rather than hang *or* pass silently, so once the
// queue has drained, every production is checked for exactly this: an empty
// FIRST set (over every alternation) means it never derives anything, which
// ComputeFirst reports as ErrNonTerminating.
func ComputeFirst(g *grammar.Grammar) (*FirstSets, error) {
	n := g.NumProductions()
	fs := &FirstSets{
		g:      g,
		perAlt: make([][]*kstringSet, n),
		flat:   make([]*kstringSet, n),
	}
	for p := 0; p < n; p++ {
		prod := g.Production(grammar.ProdIndex(p))
		fs.perAlt[p] = make([]*kstringSet, len(prod.Alternations))
		for a := range prod.Alternations {
			fs.perAlt[p][a] = newKStringSet()
		}
		fs.flat[p] = newKStringSet()
	}

	dependents := computeDependents(g)

	queue := make([]grammar.ProdIndex, n)
	queued := make([]bool, n)
	for p := 0; p < n; p++ {
		queue[p] = grammar.ProdIndex(p)
		queued[p] = true
	}

	visits := make([]int, n)
	bound := fairnessBound(n)

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		queued[int(p)] = false

		visits[int(p)]++
		if visits[int(p)] > bound {
			return nil, errNonTerminating(g.Production(p).LHS)
		}

		changed := false
		prod := g.Production(p)
		for a, alt := range prod.Alternations {
			for _, u := range fs.expand(alt) {
				if fs.perAlt[int(p)][a].add(u) {
					changed = true
					fs.flat[int(p)].add(u)
				}
			}
		}

		if changed {
			for _, dep := range dependents[int(p)] {
				if !queued[int(dep)] {
					queue = append(queue, dep)
					queued[int(dep)] = true
				}
			}
		}
	}

	for p := 0; p < n; p++ {
		if fs.flat[p].empty() {
			return nil, errNonTerminating(g.Production(grammar.ProdIndex(p)).LHS)
		}
	}

	return fs, nil
}

// expand computes the current-best-known FIRST_k of a symbol sequence: a
// breadth-first walk that carries a frontier of partial k-strings, extending
// each by one symbol at a time. A Nonterminal reference convolves the
// frontier against that production's current Flattened set; if that set is
// still empty (the production hasn't resolved anything yet), the path is
// dropped rather than guessed at, and will be recomputed correctly once the
// referenced production's FIRST set has grown and this production is
// re-enqueued.
func (fs *FirstSets) expand(symbols []grammar.Symbol) []grammar.KString {
	k := fs.g.K()
	frontier := []grammar.KString{{}}

	for _, sym := range symbols {
		if len(frontier) == 0 {
			break
		}
		var next []grammar.KString
		for _, pre := range frontier {
			if len(pre) >= k {
				next = append(next, pre)
				continue
			}
			switch {
			case sym.IsEpsilon():
				next = append(next, pre)
			case sym.IsTerminal():
				next = append(next, pre.Concat(grammar.KString{sym.Terminal()}, k))
			case sym.IsNonterminal():
				qFirst := fs.Flattened(sym.Nonterminal())
				for _, u := range qFirst {
					next = append(next, pre.Concat(u, k))
				}
			}
		}
		frontier = dedupeKStrings(next)
	}

	return frontier
}

// computeDependents builds, for every production q, the list of productions
// p that have at least one alternation referencing q as a Nonterminal. This
// is the reverse of "p depends on q" and drives re-enqueueing: whenever q's
// FIRST set grows, every p in dependents[q] needs its own alternations
// re-walked.
func computeDependents(g *grammar.Grammar) [][]grammar.ProdIndex {
	n := g.NumProductions()
	dependents := make([][]grammar.ProdIndex, n)
	seen := make([]map[grammar.ProdIndex]bool, n)
	for i := range seen {
		seen[i] = make(map[grammar.ProdIndex]bool)
	}
	for p := 0; p < n; p++ {
		prod := g.Production(grammar.ProdIndex(p))
		for _, alt := range prod.Alternations {
			for _, sym := range alt {
				if !sym.IsNonterminal() {
					continue
				}
				q := sym.Nonterminal()
				if !seen[int(q)][grammar.ProdIndex(p)] {
					seen[int(q)][grammar.ProdIndex(p)] = true
					dependents[int(q)] = append(dependents[int(q)], grammar.ProdIndex(p))
				}
			}
		}
	}
	return dependents
}
