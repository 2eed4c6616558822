package analysis

import (
	"testing"

	"github.com/dekarrin/llgen/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_ComputeFollow_scenario_A_right_recursive_list(t *testing.T) {
	assert := assert.New(t)
	g := buildRightRecursiveList(t, 1)

	fs, err := ComputeFirst(g)
	if !assert.NoError(err) {
		return
	}
	fo, err := ComputeFollow(g, fs)
	if !assert.NoError(err) {
		return
	}

	eoi := g.EndOfInputID()
	repeat := grammar.ProdIndex(1)
	set := fo.Set(repeat)
	assert.Len(set, 1)
	assert.Equal(grammar.KString{eoi}, set[0])
}

func Test_ComputeFollow_scenario_C_mutual_recursion(t *testing.T) {
	assert := assert.New(t)
	// S := u A u ; A := b S b | ε ; (spec.md Scenario C): FOLLOW_1(A) = { u }.
	decl := grammar.Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"u", "b"},
		Rules: []grammar.Rule{
			{Name: "S", Alts: []grammar.Alt{{grammar.Name("u"), grammar.Name("A"), grammar.Name("u")}}},
			{Name: "A", Alts: []grammar.Alt{
				{grammar.Name("b"), grammar.Name("S"), grammar.Name("b")},
				{},
			}},
		},
	}
	g, err := grammar.Normalize(decl)
	if !assert.NoError(err) {
		return
	}
	fs, err := ComputeFirst(g)
	if !assert.NoError(err) {
		return
	}
	fo, err := ComputeFollow(g, fs)
	if !assert.NoError(err) {
		return
	}

	uID, _ := g.TerminalID("u")
	aIdx := grammar.ProdIndex(1) // S=0, A=1 in declaration order
	assert.Equal(g.Production(aIdx).LHS.Name, "A")

	set := fo.Set(aIdx)
	assert.Len(set, 1)
	assert.Equal(grammar.KString{uID}, set[0])
}

func Test_ComputeFollow_every_kstring_bounded_by_k(t *testing.T) {
	assert := assert.New(t)
	for k := 1; k <= 3; k++ {
		g := buildRightRecursiveList(t, k)
		fs, err := ComputeFirst(g)
		if !assert.NoError(err) {
			continue
		}
		fo, err := ComputeFollow(g, fs)
		if !assert.NoError(err) {
			continue
		}
		for p := 0; p < g.NumProductions(); p++ {
			for _, u := range fo.Set(grammar.ProdIndex(p)) {
				assert.LessOrEqual(len(u), k)
			}
		}
	}
}

func Test_ComputeFollow_nullable_production_has_nonempty_follow(t *testing.T) {
	assert := assert.New(t)
	// Expr := Term [ (Add | Sub) Term ] ; Term := Atom ; Atom := num ;
	// (trimmed from spec.md scenario B) exercises the optional/nullable
	// anonymous production's FOLLOW set being non-empty via the chain back
	// to whatever follows Expr itself.
	decl := grammar.Decl{
		Start:     "Expr",
		K:         1,
		Terminals: []string{"num", "Add", "Sub"},
		Rules: []grammar.Rule{
			{Name: "Expr", Alts: []grammar.Alt{{
				grammar.Name("Term"),
				grammar.Option(grammar.Alt{grammar.Group(grammar.Alt{grammar.Name("Add")}, grammar.Alt{grammar.Name("Sub")}), grammar.Name("Term")}),
			}}},
			{Name: "Term", Alts: []grammar.Alt{{grammar.Name("Atom")}}},
			{Name: "Atom", Alts: []grammar.Alt{{grammar.Name("num")}}},
		},
	}
	g, err := grammar.Normalize(decl)
	if !assert.NoError(err) {
		return
	}
	fs, err := ComputeFirst(g)
	if !assert.NoError(err) {
		return
	}
	fo, err := ComputeFollow(g, fs)
	if !assert.NoError(err) {
		return
	}

	eoi := g.EndOfInputID()
	var optIdx grammar.ProdIndex
	for p := 0; p < g.NumProductions(); p++ {
		if g.Production(grammar.ProdIndex(p)).LHS.Kind == grammar.Optional {
			optIdx = grammar.ProdIndex(p)
		}
	}
	set := fo.Set(optIdx)
	assert.NotEmpty(set, "FOLLOW of the optional trailing-operator production must include what follows Expr")
	var hasEOI bool
	for _, u := range set {
		if len(u) == 1 && u[0] == eoi {
			hasEOI = true
		}
	}
	assert.True(hasEOI)
}
