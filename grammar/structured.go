package grammar

import "fmt"

// Builder is the structured front end of spec §6: a way to describe a
// grammar as a set of named type-like declarations — records, sums, and
// container shapes — whose structure *is* the grammar, instead of writing
// EBNF text. It lowers to exactly the same Decl the EBNF front end produces,
// so Normalize never has to know which front end built its input.
//
// This is the Go-idiomatic stand-in for the derive-macro-driven frontend of
// the system this module's core was distilled from, where a Rust type
// implementing a Syntactical trait walked its own fields to build a Grammar
// (see original_source's Syntactical::generate / Key::of::<T>()). Go has no
// derive macros, so Builder exposes the same shape imperatively: a caller
// calls Record/Sum/List/Optional/Rec to describe each type the way a
// #[derive(Syntactical)] struct/enum would, in any order, and Build lowers
// the whole set at once.
type Builder struct {
	terminals []string
	rules     []Rule
	seen      map[string]bool
	synthetic map[string]string // memoizes List/Optional synthetic rule names by "kind:elem"
}

// NewBuilder creates an empty structured-mode Builder.
func NewBuilder() *Builder {
	return &Builder{
		seen:      make(map[string]bool),
		synthetic: make(map[string]string),
	}
}

// Terminal declares name as a terminal of the grammar being built.
func (b *Builder) Terminal(name string) *Builder {
	b.terminals = append(b.terminals, name)
	return b
}

// Record declares name as a record-like type: a sequential production of
// its fields, each referencing another declared type or terminal by name,
// in the order given. This is the structured-mode equivalent of an EBNF
// rule `name : f1 f2 ... fn ;`.
func (b *Builder) Record(name string, fields ...string) *Builder {
	factors := make(Alt, len(fields))
	for i, f := range fields {
		factors[i] = Name(f)
	}
	return b.addRule(Rule{Name: name, Alts: []Alt{factors}})
}

// Sum declares name as a sum-like type: an alternating production of its
// variants, one alternation per variant. This is the structured-mode
// equivalent of an EBNF rule `name : v1 | v2 | ... | vn ;`.
func (b *Builder) Sum(name string, variants ...string) *Builder {
	alts := make([]Alt, len(variants))
	for i, v := range variants {
		alts[i] = Alt{Name(v)}
	}
	return b.addRule(Rule{Name: name, Alts: alts})
}

func (b *Builder) addRule(r Rule) *Builder {
	if b.seen[r.Name] {
		// Recorded as a duplicate the same way the EBNF front end would be;
		// Build surfaces it via Normalize's own duplicate check by simply
		// appending both, letting Normalize report errDuplicateDefinition.
	}
	b.seen[r.Name] = true
	b.rules = append(b.rules, r)
	return b
}

// List declares a container shape `List<elem>` and returns the synthetic
// type name to use as a field/variant reference for it. It desugars to the
// same anonymous zero-or-more repetition an EBNF `{ elem }` factor would
// produce; repeated calls with the same elem return the same synthetic name
// rather than registering duplicate rules.
func (b *Builder) List(elem string) string {
	return b.container("list", elem, func(name string) Rule {
		return Rule{Name: name, Alts: []Alt{{Repeat(Alt{Name(elem)})}}}
	})
}

// Optional declares a container shape `Optional<elem>` and returns the
// synthetic type name to use as a field/variant reference for it. It
// desugars to the same `[ elem ]` an EBNF option factor would produce.
func (b *Builder) Optional(elem string) string {
	return b.container("optional", elem, func(name string) Rule {
		return Rule{Name: name, Alts: []Alt{{Option(Alt{Name(elem)})}}}
	})
}

func (b *Builder) container(kind, elem string, build func(name string) Rule) string {
	key := kind + ":" + elem
	if name, ok := b.synthetic[key]; ok {
		return name
	}
	name := fmt.Sprintf("□%s<%s>", kind, elem)
	b.synthetic[key] = name
	b.addRule(build(name))
	return name
}

// Rec marks a field/variant reference as a recursive back-reference through
// what the original type-declaration form models as a heap indirection
// (`Rec<T>`), used to write cyclic definitions. Because this grammar's
// productions are already referenced purely by stable index rather than by
// value or pointer (§9), a Rec reference needs no boxing or separate
// production of its own: it lowers to exactly the same Name reference a
// direct use of target would. Rec exists so a caller's structured
// declaration can say, in the same vocabulary as spec §6, "this edge is the
// one that closes a cycle."
func Rec(target string) string {
	return target
}

// Build lowers every declared Record/Sum/container into a Decl and then
// Normalizes it.
func (b *Builder) Build(start string, k int) (*Grammar, error) {
	return Normalize(Decl{
		Start:     start,
		K:         k,
		Terminals: b.terminals,
		Rules:     b.rules,
	})
}
