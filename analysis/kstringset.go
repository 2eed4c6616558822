package analysis

import (
	"github.com/dekarrin/llgen/grammar"
	"github.com/dekarrin/llgen/internal/util"
)

// kstringSet is an insertion-ordered set of grammar.KString values. KString
// is a slice and therefore not comparable, so membership is keyed by
// KString.Key() (the same trick util.OrderedMap's doc comment describes for
// the FIRST/FOLLOW/prediction tables generally) while the ordered backing
// store still hands back real KString values.
type kstringSet struct {
	keys *util.OrderedMap[string, grammar.KString]
}

func newKStringSet() *kstringSet {
	return &kstringSet{keys: util.NewOrderedMap[string, grammar.KString]()}
}

// add inserts u if not already present, returning whether it was newly
// added.
func (s *kstringSet) add(u grammar.KString) bool {
	if s.keys.Has(u.Key()) {
		return false
	}
	s.keys.Set(u.Key(), u)
	return true
}

func (s *kstringSet) has(u grammar.KString) bool {
	return s.keys.Has(u.Key())
}

// hasEmpty reports whether the empty k-string (epsilon) is a member.
func (s *kstringSet) hasEmpty() bool {
	return s.keys.Has(grammar.KString{}.Key())
}

// elements returns the set's members in insertion order. Must not be
// mutated by the caller.
func (s *kstringSet) elements() []grammar.KString {
	keys := s.keys.Keys()
	out := make([]grammar.KString, len(keys))
	for i, k := range keys {
		v, _ := s.keys.Get(k)
		out[i] = v
	}
	return out
}

func (s *kstringSet) len() int {
	return s.keys.Len()
}

// empty reports whether the set has no members at all (not even epsilon).
func (s *kstringSet) empty() bool {
	return s.keys.Len() == 0
}

func dedupeKStrings(in []grammar.KString) []grammar.KString {
	set := newKStringSet()
	for _, u := range in {
		set.add(u)
	}
	return set.elements()
}
