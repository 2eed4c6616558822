package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Symbol_kinds(t *testing.T) {
	assert := assert.New(t)

	term := Term(3)
	assert.True(term.IsTerminal())
	assert.False(term.IsNonterminal())
	assert.Equal(TerminalID(3), term.Terminal())
	assert.Panics(func() { term.Nonterminal() })

	nt := NonTerm(5)
	assert.True(nt.IsNonterminal())
	assert.Equal(ProdIndex(5), nt.Nonterminal())
	assert.Panics(func() { nt.Terminal() })

	assert.True(Eps.IsEpsilon())
	assert.False(Eps.IsTerminal())
}

func Test_Symbol_Equal(t *testing.T) {
	assert := assert.New(t)

	assert.True(Term(1).Equal(Term(1)))
	assert.False(Term(1).Equal(Term(2)))
	assert.True(NonTerm(1).Equal(NonTerm(1)))
	assert.False(NonTerm(1).Equal(Term(1)))
	assert.True(Eps.Equal(Eps))
}

func Test_Alternation_IsNullable(t *testing.T) {
	assert := assert.New(t)

	assert.True(Alternation{Eps}.IsNullable())
	assert.False(Alternation{Term(0)}.IsNullable())
	assert.False(Alternation{}.IsNullable())
}

func Test_KString_Concat(t *testing.T) {
	testCases := []struct {
		name     string
		u        KString
		v        KString
		k        int
		expected KString
	}{
		{"both empty", nil, nil, 2, KString{}},
		{"under budget", KString{1}, KString{2}, 3, KString{1, 2}},
		{"exactly at budget", KString{1, 2}, KString{3}, 3, KString{1, 2, 3}},
		{"truncates v", KString{1}, KString{2, 3, 4}, 2, KString{1, 2}},
		{"u alone exceeds nothing left of v", KString{1, 2}, KString{3, 4}, 2, KString{1, 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			actual := tc.u.Concat(tc.v, tc.k)
			assert.Equal(tc.expected, actual)
			assert.LessOrEqual(len(actual), tc.k)
		})
	}
}

func Test_KString_Key_distinguishes_sequences(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("", KString{}.Key())
	assert.Equal("", KString(nil).Key())
	assert.NotEqual(KString{1, 2}.Key(), KString{1, 20}.Key())
	assert.NotEqual(KString{1, 2}.Key(), KString{2, 1}.Key())
	assert.Equal(KString{1, 2}.Key(), KString{1, 2}.Key())
}

func Test_Grammar_DirectlyLeftRecursive(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Name("a")}}},
		},
	}
	g, err := Normalize(decl)
	assert.NoError(err)
	assert.False(g.DirectlyLeftRecursive(g.Start()))
}

func Test_Grammar_Copy_is_independent(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         2,
		Terminals: []string{"a", "b"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Name("a"), Name("S")}, {Name("b")}}},
		},
	}
	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}

	cp := g.Copy()
	assert.Equal(g.K(), cp.K())
	assert.Equal(g.NumProductions(), cp.NumProductions())
	assert.Equal(g.NumTerminals(), cp.NumTerminals())

	cp.Production(cp.Start()).Alternations[0] = Alternation{Eps}
	assert.NotEqual(g.Production(g.Start()).Alternations[0], cp.Production(cp.Start()).Alternations[0])
}

func Test_Grammar_String_contains_productions(t *testing.T) {
	assert := assert.New(t)

	decl := Decl{
		Start:     "S",
		K:         1,
		Terminals: []string{"a"},
		Rules: []Rule{
			{Name: "S", Alts: []Alt{{Name("a")}}},
		},
	}
	g, err := Normalize(decl)
	if !assert.NoError(err) {
		return
	}
	out := g.String()
	assert.Contains(out, "S")
	assert.Contains(out, `"a"`)
}
