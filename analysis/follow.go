package analysis

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llgen/grammar"
)

// FollowSets holds the FOLLOW_k table of spec §3: for every production, the
// set of k-strings that can immediately follow a derivation of it in some
// sentential form rooted at the start symbol.
//
// Like FirstSets, it borrows indices into the grammar.Grammar it was built
// from and must not outlive it.
type FollowSets struct {
	g    *grammar.Grammar
	sets []*kstringSet // [production] -> set
}

// Set returns the FOLLOW_k set of production p, in insertion order.
func (fo *FollowSets) Set(p grammar.ProdIndex) []grammar.KString {
	return fo.sets[int(p)].elements()
}

// String renders the FOLLOW_k table for debugging, one line per production,
// in the spirit of the original implementation's FollowSets Display impl
// (spec §6 supplemented feature).
func (fo *FollowSets) String() string {
	var sb strings.Builder
	for p := 0; p < fo.g.NumProductions(); p++ {
		fmt.Fprintf(&sb, "FOLLOW(%d) = %s\n", p, renderKStrings(fo.g, fo.Set(grammar.ProdIndex(p))))
	}
	return sb.String()
}

// followEdge records a deferred "FOLLOW(to) must include whatever ends up
// in FOLLOW(from)" obligation (spec §4.3's "Follow(p)" chart entry kind).
// These are the only entries that need the second, iterative phase: every
// other contribution is a literal k-string known as soon as FIRST_k is
// final, and is written directly into the target's set during seeding.
type followEdge struct {
	from grammar.ProdIndex
}

// ComputeFollow computes FOLLOW_k for every production of g given its
// already-converged FirstSets, implementing the two-phase chart algorithm of
// spec §4.3.
//
// Phase 1 walks every alternation of every production once. For each
// Nonterminal(q) occurrence, it expands the symbols that follow it in that
// alternation via fs.ExpandSequence: every non-empty k-string that sequence
// can start with is a literal, immediately-final contribution to
// FOLLOW(q); if that sequence can also derive nothing (the empty k-string is
// among its members — including vacuously, when q is the alternation's last
// symbol), the gap is bridged with a deferred "FOLLOW(q) ⊇ FOLLOW(p)" edge,
// skipped only when q is p itself (a tail-recursive self-reference, which
// would be a no-op anyway since p's own set already covers it).
//
// Phase 2 resolves those deferred edges to a fixed point: repeatedly copy
// the current contents of FOLLOW(p) into FOLLOW(q) for every edge q<-p,
// re-enqueueing q's own dependents whenever its set grows, bounded by the
// same fairness counter FIRST_k uses.
func ComputeFollow(g *grammar.Grammar, fs *FirstSets) (*FollowSets, error) {
	n := g.NumProductions()
	fo := &FollowSets{g: g, sets: make([]*kstringSet, n)}
	for p := 0; p < n; p++ {
		fo.sets[p] = newKStringSet()
	}

	edges := make([][]followEdge, n) // edges[q] = sources p with FOLLOW(q) >= FOLLOW(p)

	for p := 0; p < n; p++ {
		prod := g.Production(grammar.ProdIndex(p))
		for _, alt := range prod.Alternations {
			for i, sym := range alt {
				if !sym.IsNonterminal() {
					continue
				}
				q := sym.Nonterminal()
				suffix := alt[i+1:]
				contributed := fs.ExpandSequence(suffix)
				for _, u := range contributed {
					if len(u) == 0 {
						if q != grammar.ProdIndex(p) {
							edges[int(q)] = append(edges[int(q)], followEdge{from: grammar.ProdIndex(p)})
						}
						continue
					}
					fo.sets[int(q)].add(u)
				}
			}
		}
	}

	// dependents[p] = productions whose FOLLOW set has an edge depending on
	// FOLLOW(p), so that growth in FOLLOW(p) can be propagated onward.
	dependents := make([][]grammar.ProdIndex, n)
	for q := 0; q < n; q++ {
		for _, e := range edges[q] {
			dependents[int(e.from)] = append(dependents[int(e.from)], grammar.ProdIndex(q))
		}
	}

	queue := make([]grammar.ProdIndex, 0, n)
	queued := make([]bool, n)
	for q := 0; q < n; q++ {
		if len(edges[q]) > 0 {
			queue = append(queue, grammar.ProdIndex(q))
			queued[q] = true
		}
	}

	visits := make([]int, n)
	bound := fairnessBound(n)

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		queued[int(q)] = false

		visits[int(q)]++
		if visits[int(q)] > bound {
			return nil, errNonTerminating(g.Production(q).LHS)
		}

		changed := false
		for _, e := range edges[int(q)] {
			for _, u := range fo.sets[int(e.from)].elements() {
				if fo.sets[int(q)].add(u) {
					changed = true
				}
			}
		}

		if changed {
			for _, dep := range dependents[int(q)] {
				if !queued[int(dep)] {
					queue = append(queue, dep)
					queued[int(dep)] = true
				}
			}
		}
	}

	return fo, nil
}
