// Package table assembles the LL(k) prediction table of spec §4.4 from a
// grammar's FIRST_k and FOLLOW_k sets, and detects conflicts: a grammar for
// which no single lookahead-to-alternation function exists is rejected
// rather than silently picking one alternation over another.
package table

import (
	"fmt"

	"github.com/dekarrin/llgen/analysis"
	"github.com/dekarrin/llgen/grammar"
	"github.com/dekarrin/llgen/internal/util"
)

// entry is one recorded alternation-id binding for a k-string key.
type entry struct {
	alt int
}

// Table is the LL(k) prediction table: production-index -> k-string ->
// alternation-id. It is immutable once returned by Build and borrows
// indices into the grammar.Grammar, FirstSets, and FollowSets it was built
// from (spec §5).
type Table struct {
	g    *grammar.Grammar
	rows []*util.OrderedMap[string, entry]
	keys []*util.OrderedMap[string, grammar.KString] // parallel to rows, for Keys()
}

// Lookup returns the alternation-id recorded for production p at the exact
// k-string u, and whether an entry exists.
func (t *Table) Lookup(p grammar.ProdIndex, u grammar.KString) (int, bool) {
	e, ok := t.rows[int(p)].Get(u.Key())
	if !ok {
		return 0, false
	}
	return e.alt, true
}

// Keys returns every k-string recorded for production p, in insertion
// order. Used by the parser runtime to report the expected set on a
// ParseError.Unexpected (spec §4.5, §7).
func (t *Table) Keys(p grammar.ProdIndex) []grammar.KString {
	m := t.keys[int(p)]
	out := make([]grammar.KString, 0, m.Len())
	for _, key := range m.Keys() {
		u, _ := m.Get(key)
		out = append(out, u)
	}
	return out
}

// RawEntry is one (production, k-string, alternation) binding, the flat
// shape a deserializer hands back after decoding a previously-saved table
// (llkio.Load) when it has no FirstSets/FollowSets to rebuild from.
type RawEntry struct {
	Production grammar.ProdIndex
	Key        grammar.KString
	Alt        int
}

// FromEntries rebuilds a Table directly from a flat list of entries,
// skipping the FIRST_k/FOLLOW_k derivation Build performs. It still
// rejects a conflicting pair of entries for the same (production,
// k-string), the one invariant a Table must never lose regardless of how
// it was constructed.
func FromEntries(g *grammar.Grammar, raw []RawEntry) (*Table, error) {
	n := g.NumProductions()
	t := &Table{
		g:    g,
		rows: make([]*util.OrderedMap[string, entry], n),
		keys: make([]*util.OrderedMap[string, grammar.KString], n),
	}
	for p := 0; p < n; p++ {
		t.rows[p] = util.NewOrderedMap[string, entry]()
		t.keys[p] = util.NewOrderedMap[string, grammar.KString]()
	}

	var conflicts []analysis.Conflict
	for _, re := range raw {
		key := re.Key.Key()
		if existing, ok := t.rows[int(re.Production)].Get(key); ok {
			if existing.alt != re.Alt {
				conflicts = append(conflicts, analysis.Conflict{
					Production: re.Production,
					Lookahead:  re.Key,
					Alts:       []int{existing.alt, re.Alt},
				})
			}
			continue
		}
		t.rows[int(re.Production)].Set(key, entry{alt: re.Alt})
		t.keys[int(re.Production)].Set(key, re.Key)
	}

	if len(conflicts) > 0 {
		return nil, analysis.NewConflictError(mergeConflicts(conflicts))
	}
	return t, nil
}

// Build assembles the prediction table for g from its FIRST_k and FOLLOW_k
// sets, implementing spec §4.4.
//
// For every production p and alternation a: every non-empty k-string in
// FIRST_k(p,a) is recorded as table[p][u] = a. If the empty k-string is also
// a member (the alternation is nullable), every k-string in FOLLOW_k(p) is
// recorded as table[p][u] = a too, since an empty derivation of a means
// whatever can follow p is what the parser will actually see next.
//
// Recording table[p][u] = a when an entry already holds a different
// alternation a' is a conflict. Per spec §9 Open Question 2, every conflict
// across the whole grammar is collected rather than stopping at the first,
// then returned together as one AnalysisError.
func Build(g *grammar.Grammar, fs *analysis.FirstSets, fo *analysis.FollowSets) (*Table, error) {
	n := g.NumProductions()
	t := &Table{
		g:    g,
		rows: make([]*util.OrderedMap[string, entry], n),
		keys: make([]*util.OrderedMap[string, grammar.KString], n),
	}
	for p := 0; p < n; p++ {
		t.rows[p] = util.NewOrderedMap[string, entry]()
		t.keys[p] = util.NewOrderedMap[string, grammar.KString]()
	}

	var conflicts []analysis.Conflict

	record := func(p grammar.ProdIndex, u grammar.KString, alt int) {
		key := u.Key()
		if existing, ok := t.rows[int(p)].Get(key); ok {
			if existing.alt != alt {
				conflicts = append(conflicts, analysis.Conflict{
					Production: p,
					Lookahead:  u,
					Alts:       []int{existing.alt, alt},
				})
			}
			return
		}
		t.rows[int(p)].Set(key, entry{alt: alt})
		t.keys[int(p)].Set(key, u)
	}

	for p := 0; p < n; p++ {
		prod := g.Production(grammar.ProdIndex(p))
		for a := range prod.Alternations {
			first := fs.Set(grammar.ProdIndex(p), a)
			for _, u := range first {
				if len(u) == 0 {
					continue
				}
				record(grammar.ProdIndex(p), u, a)
			}
			if fs.Nullable(grammar.ProdIndex(p), a) {
				for _, u := range fo.Set(grammar.ProdIndex(p)) {
					record(grammar.ProdIndex(p), u, a)
				}
			}
		}
	}

	if len(conflicts) > 0 {
		return nil, analysis.NewConflictError(mergeConflicts(conflicts))
	}

	return t, nil
}

// mergeConflicts folds repeat (production, lookahead) conflict reports
// (which can arise when more than two alternations collide on the same
// k-string) into one Conflict per pair, accumulating every offending
// alternation-id.
func mergeConflicts(raw []analysis.Conflict) []analysis.Conflict {
	var merged []analysis.Conflict
	index := make(map[string]int)
	for _, c := range raw {
		k := fmt.Sprintf("%d#%s", c.Production, c.Lookahead.Key())
		if i, ok := index[k]; ok {
			merged[i].Alts = appendUnique(merged[i].Alts, c.Alts...)
			continue
		}
		index[k] = len(merged)
		merged = append(merged, analysis.Conflict{
			Production: c.Production,
			Lookahead:  c.Lookahead,
			Alts:       appendUnique(nil, c.Alts...),
		})
	}
	return merged
}

func appendUnique(dst []int, src ...int) []int {
	for _, v := range src {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
