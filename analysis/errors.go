// Package analysis computes FIRST_k and FOLLOW_k over a normalized
// grammar.Grammar (spec §4.2, §4.3) and, via the table package, the LL(k)
// prediction table built from them (spec §4.4). The AnalysisError taxonomy
// defined here is shared by both stages: FIRST/FOLLOW construction can fail
// with NonTerminating, and the table builder (package table) constructs
// Conflict-kind AnalysisErrors from the same type so that both stages report
// through one error family, matching the GrammarError/ParseError split of
// the other two stages.
package analysis

import (
	"fmt"
	"strings"

	"github.com/dekarrin/llgen/grammar"
)

// AnalysisErrorKind discriminates the taxonomy of errors the analyzer and
// table builder can return.
type AnalysisErrorKind int

const (
	// ErrNonTerminating means a production's FIRST_k set came out empty once
	// the work queue drained (it derives no terminal string at all), or a
	// FIRST_k/FOLLOW_k work queue exceeded the fairness bound; both are
	// treated as unreported indirect left recursion or another unbounded
	// derivation (spec §4.2, §9 Open Question 1).
	ErrNonTerminating AnalysisErrorKind = iota
	// ErrConflict means the prediction table would need to map the same
	// (production, lookahead) pair to more than one alternation: the
	// grammar is not LL(k) at the k it was built with (spec §4.4).
	ErrConflict
)

func (k AnalysisErrorKind) String() string {
	switch k {
	case ErrNonTerminating:
		return "non-terminating analysis"
	case ErrConflict:
		return "LL(k) conflict"
	default:
		return "unknown analysis error"
	}
}

// Conflict records one (production, lookahead) pair for which the table
// builder found more than one candidate alternation.
type Conflict struct {
	Production grammar.ProdIndex
	Lookahead  grammar.KString
	Alts       []int
}

func (c Conflict) String() string {
	alts := make([]string, len(c.Alts))
	for i, a := range c.Alts {
		alts[i] = fmt.Sprintf("%d", a)
	}
	return fmt.Sprintf("production %d, lookahead %v: alternations {%s}", c.Production, []TerminalID(c.Lookahead), strings.Join(alts, ","))
}

// TerminalID is a local alias used only to give Conflict.String a readable
// slice-of-ints rendering without importing grammar's unexported internals.
type TerminalID = grammar.TerminalID

// AnalysisError is returned by ComputeFirst, ComputeFollow, and
// table.Build. Exactly one of Production or Conflicts is meaningful,
// depending on Kind.
type AnalysisError struct {
	Kind       AnalysisErrorKind
	Production grammar.LHS // set for ErrNonTerminating
	Conflicts  []Conflict  // set for ErrConflict; always non-empty
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case ErrNonTerminating:
		return fmt.Sprintf("analysis of production %s did not converge: it derives no terminal string or exceeded the fairness bound (indirect left recursion or unbounded derivation)", e.Production)
	case ErrConflict:
		if len(e.Conflicts) == 1 {
			return fmt.Sprintf("grammar is not LL(k): conflict at %s", e.Conflicts[0].String())
		}
		parts := make([]string, len(e.Conflicts))
		for i, c := range e.Conflicts {
			parts[i] = c.String()
		}
		return fmt.Sprintf("grammar is not LL(k): %d conflicts: %s", len(e.Conflicts), strings.Join(parts, "; "))
	default:
		return "analysis error"
	}
}

// Is allows errors.Is(err, &AnalysisError{Kind: ErrConflict}) to match by
// Kind alone, mirroring grammar.GrammarError.Is.
func (e *AnalysisError) Is(target error) bool {
	other, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// HasConflictAt reports whether e is a conflict error naming the given
// (production, lookahead) pair, letting a caller probe for one specific
// conflict even though all conflicts are collected (spec §9 Open Question
// 2).
func (e *AnalysisError) HasConflictAt(p grammar.ProdIndex, lookahead grammar.KString) bool {
	if e == nil || e.Kind != ErrConflict {
		return false
	}
	for _, c := range e.Conflicts {
		if c.Production == p && c.Lookahead.Key() == lookahead.Key() {
			return true
		}
	}
	return false
}

func errNonTerminating(lhs grammar.LHS) error {
	return &AnalysisError{Kind: ErrNonTerminating, Production: lhs}
}

// NewConflictError builds an AnalysisError of kind ErrConflict from the
// conflicts the table builder collected. Exported so package table can
// construct it without duplicating the AnalysisError type.
func NewConflictError(conflicts []Conflict) error {
	return &AnalysisError{Kind: ErrConflict, Conflicts: conflicts}
}

// fairnessBound is the deterministic work-queue visit cap per production
// (spec §5, §9 Open Question 1): 64 * (n+1)^2 where n is the number of
// productions in the grammar.
func fairnessBound(numProductions int) int {
	n := numProductions + 1
	return 64 * n * n
}
