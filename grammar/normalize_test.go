package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Normalize_errors(t *testing.T) {
	testCases := []struct {
		name      string
		decl      Decl
		expectErr GrammarErrorKind
	}{
		{
			name:      "k less than 1",
			decl:      Decl{Start: "S", K: 0, Rules: []Rule{{Name: "S"}}},
			expectErr: ErrInvalidK,
		},
		{
			name:      "start not declared",
			decl:      Decl{Start: "S", K: 1},
			expectErr: ErrNoStart,
		},
		{
			name: "duplicate rule name",
			decl: Decl{
				Start: "S",
				K:     1,
				Rules: []Rule{
					{Name: "S", Alts: []Alt{{Name("a")}}},
					{Name: "S", Alts: []Alt{{Name("b")}}},
				},
				Terminals: []string{"a", "b"},
			},
			expectErr: ErrDuplicateDefinition,
		},
		{
			name: "undefined name in body",
			decl: Decl{
				Start:     "S",
				K:         1,
				Terminals: []string{"a"},
				Rules: []Rule{
					{Name: "S", Alts: []Alt{{Name("nope")}}},
				},
			},
			expectErr: ErrUndefined,
		},
		{
			name: "direct left recursion",
			decl: Decl{
				Start:     "S",
				K:         1,
				Terminals: []string{"a"},
				Rules: []Rule{
					{Name: "S", Alts: []Alt{{Name("S"), Name("a")}, {Name("a")}}},
				},
			},
			expectErr: ErrLeftRecursive,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Normalize(tc.decl)
			if !assert.Error(err) {
				return
			}
			var gerr *GrammarError
			if assert.ErrorAs(err, &gerr) {
				assert.Equal(tc.expectErr, gerr.Kind)
			}
		})
	}
}

func Test_Normalize_simple_grammar(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a", "b"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Name("a"), Name("S")}, {Name("b")}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(1, g.K())
	assert.Equal(3, g.NumTerminals()) // a, b, plus $ -> asserted below
	_, hasEOI := g.TerminalID(EndOfInput)
	assert.True(hasEOI)

	start := g.Production(g.Start())
	assert.Equal(LHS{Kind: User, Name: "S"}, start.LHS)
	assert.Len(start.Alternations, 2)

	// every alternation of the start production must end in $.
	eoi := g.EndOfInputID()
	for _, alt := range start.Alternations {
		last := alt[len(alt)-1]
		assert.True(last.IsTerminal())
		assert.Equal(eoi, last.Terminal())
	}
}

func Test_Normalize_group_single_alt(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a", "b"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Group(Alt{Name("a"), Name("b")})}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	start := g.Production(g.Start())
	assert.Len(start.Alternations, 1)
	sym := start.Alternations[0][0]
	if !assert.True(sym.IsNonterminal()) {
		return
	}
	group := g.Production(sym.Nonterminal())
	assert.Equal(Group, group.LHS.Kind)
	assert.Len(group.Alternations, 1)
	assert.Len(group.Alternations[0], 2)
}

func Test_Normalize_group_multi_alt_one_choice_point(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a", "b", "c"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Group(Alt{Name("a")}, Alt{Name("b")}, Alt{Name("c")})}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	start := g.Production(g.Start())
	outer := g.Production(start.Alternations[0][0].Nonterminal())
	assert.Equal(Group, outer.LHS.Kind)
	assert.Len(outer.Alternations, 3)

	for _, alt := range outer.Alternations {
		assert.Len(alt, 1)
		assert.True(alt[0].IsNonterminal())
		branch := g.Production(alt[0].Nonterminal())
		assert.Equal(Group, branch.LHS.Kind)
		assert.Len(branch.Alternations, 1)
	}
}

func Test_Normalize_repeat_desugars_to_right_recursion(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Repeat(Alt{Name("a")})}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	start := g.Production(g.Start())
	outer := g.Production(start.Alternations[0][0].Nonterminal())
	assert.Equal(Repeat, outer.LHS.Kind)
	if !assert.Len(outer.Alternations, 2) {
		return
	}
	assert.Len(outer.Alternations[0], 2)
	assert.True(outer.Alternations[0][1].IsNonterminal())
	assert.Equal(outer.Index, outer.Alternations[0][1].Nonterminal())
	assert.True(outer.Alternations[1].IsNullable())
}

func Test_Normalize_option_desugars_to_epsilon_alternative(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Option(Alt{Name("a")})}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	start := g.Production(g.Start())
	outer := g.Production(start.Alternations[0][0].Nonterminal())
	assert.Equal(Optional, outer.LHS.Kind)
	if !assert.Len(outer.Alternations, 2) {
		return
	}
	assert.Len(outer.Alternations[0], 1)
	assert.True(outer.Alternations[1].IsNullable())
}

func Test_Normalize_unreferenced_rule_not_materialized(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Name("a")}}},
			{Name: "Unused", Alts: []Alt{{Name("a")}}},
		},
	}

	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(1, g.NumProductions())
}

func Test_Normalize_mutual_recursion_terminates(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "A",
		K:         1,
		Terminals: []string{"x"},
		Rules: []Rule{
			{Name: "A", Alts: []Alt{{Name("x"), Name("B")}, {Name("x")}}},
			{Name: "B", Alts: []Alt{{Name("x"), Name("A")}, {Name("x")}}},
		},
	}

	g, err := Normalize(decl)
	assert.NoError(err)
	assert.Equal(2, g.NumProductions())
}
