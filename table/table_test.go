package table

import (
	"testing"

	"github.com/dekarrin/llgen/analysis"
	"github.com/dekarrin/llgen/grammar"
	"github.com/stretchr/testify/assert"
)

func build(t *testing.T, decl grammar.Decl) (*grammar.Grammar, *Table) {
	t.Helper()
	g, err := grammar.Normalize(decl)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	fs, err := analysis.ComputeFirst(g)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	fo, err := analysis.ComputeFollow(g, fs)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	tbl, err := Build(g, fs, fo)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g, tbl
}

func Test_Build_scenario_A_right_recursive_list(t *testing.T) {
	assert := assert.New(t)
	decl := grammar.Decl{
		Start:     "Start",
		K:         1,
		Terminals: []string{"num"},
		Rules: []grammar.Rule{
			{Name: "Start", Alts: []grammar.Alt{{grammar.Repeat(grammar.Alt{grammar.Name("num")})}}},
		},
	}
	g, tbl := build(t, decl)

	numID, _ := g.TerminalID("num")
	eoi := g.EndOfInputID()
	repeat := grammar.ProdIndex(1)

	altOnNum, ok := tbl.Lookup(repeat, grammar.KString{numID})
	assert.True(ok)
	assert.Equal(0, altOnNum)

	altOnEOI, ok := tbl.Lookup(repeat, grammar.KString{eoi})
	assert.True(ok)
	assert.Equal(1, altOnEOI)
}

func Test_Build_scenario_D_conflict_reported_at_every_k(t *testing.T) {
	// S := A c | B c ; A := a ; B := a ; -- inherently ambiguous fragment.
	for _, k := range []int{1, 2} {
		decl := grammar.Decl{
			Start:     "S",
			K:         k,
			Terminals: []string{"a", "c"},
			Rules: []grammar.Rule{
				{Name: "S", Alts: []grammar.Alt{
					{grammar.Name("A"), grammar.Name("c")},
					{grammar.Name("B"), grammar.Name("c")},
				}},
				{Name: "A", Alts: []grammar.Alt{{grammar.Name("a")}}},
				{Name: "B", Alts: []grammar.Alt{{grammar.Name("a")}}},
			},
		}
		g, err := grammar.Normalize(decl)
		if !assert.NoError(t, err) {
			continue
		}
		fs, err := analysis.ComputeFirst(g)
		if !assert.NoError(t, err) {
			continue
		}
		fo, err := analysis.ComputeFollow(g, fs)
		if !assert.NoError(t, err) {
			continue
		}
		_, err = Build(g, fs, fo)
		if !assert.Error(t, err, "k=%d should still conflict", k) {
			continue
		}
		var aerr *analysis.AnalysisError
		assert.ErrorAs(t, err, &aerr)
		assert.Equal(t, analysis.ErrConflict, aerr.Kind)
		assert.NotEmpty(t, aerr.Conflicts)
		assert.Equal(t, g.Start(), aerr.Conflicts[0].Production)
	}
}

func Test_Table_is_a_function_no_duplicate_alt_for_same_key(t *testing.T) {
	assert := assert.New(t)
	decl := grammar.Decl{
		Start:     "Expr",
		K:         1,
		Terminals: []string{"num", "Add"},
		Rules: []grammar.Rule{
			{Name: "Expr", Alts: []grammar.Alt{{
				grammar.Name("num"),
				grammar.Option(grammar.Alt{grammar.Name("Add"), grammar.Name("num")}),
			}}},
		},
	}
	_, tbl := build(t, decl)

	for p := 0; p < len(tbl.rows); p++ {
		keys := tbl.Keys(grammar.ProdIndex(p))
		seen := map[string]bool{}
		for _, k := range keys {
			assert.False(seen[k.Key()], "duplicate key in Keys() for production %d", p)
			seen[k.Key()] = true
		}
	}
}
