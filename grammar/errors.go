package grammar

import "fmt"

// GrammarErrorKind discriminates the taxonomy of errors Normalize can
// return.
type GrammarErrorKind int

const (
	// ErrUndefined means a factor referenced a name that is neither a
	// declared rule nor a declared terminal.
	ErrUndefined GrammarErrorKind = iota
	// ErrNoStart means the declared start symbol has no matching rule.
	ErrNoStart
	// ErrInvalidK means k < 1.
	ErrInvalidK
	// ErrLeftRecursive means some production's alternation begins with a
	// reference back to itself.
	ErrLeftRecursive
	// ErrDuplicateDefinition means the same rule name was declared more
	// than once.
	ErrDuplicateDefinition
)

func (k GrammarErrorKind) String() string {
	switch k {
	case ErrUndefined:
		return "undefined name"
	case ErrNoStart:
		return "no start symbol"
	case ErrInvalidK:
		return "invalid k"
	case ErrLeftRecursive:
		return "direct left recursion"
	case ErrDuplicateDefinition:
		return "duplicate definition"
	default:
		return "unknown grammar error"
	}
}

// GrammarError is returned by Normalize when the declarative input cannot be
// lowered into a valid Grammar. At most one of Name, Production or K is
// meaningful, depending on Kind.
type GrammarError struct {
	Kind       GrammarErrorKind
	Name       string // set for ErrUndefined, ErrDuplicateDefinition
	Production LHS    // set for ErrLeftRecursive
	K          int    // set for ErrInvalidK
}

func (e *GrammarError) Error() string {
	switch e.Kind {
	case ErrUndefined:
		return fmt.Sprintf("undefined name %q: not a declared rule or terminal", e.Name)
	case ErrNoStart:
		return "start symbol is not defined by any rule"
	case ErrInvalidK:
		return fmt.Sprintf("invalid lookahead depth k=%d: must be >= 1", e.K)
	case ErrLeftRecursive:
		return fmt.Sprintf("production %s is directly left-recursive", e.Production)
	case ErrDuplicateDefinition:
		return fmt.Sprintf("rule %q is declared more than once", e.Name)
	default:
		return "grammar error"
	}
}

// Is allows errors.Is to match GrammarError values by Kind alone, so callers
// can write errors.Is(err, &GrammarError{Kind: ErrNoStart}) without knowing
// the offending name or production.
func (e *GrammarError) Is(target error) bool {
	other, ok := target.(*GrammarError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func errUndefined(name string) error {
	return &GrammarError{Kind: ErrUndefined, Name: name}
}

func errNoStart() error {
	return &GrammarError{Kind: ErrNoStart}
}

func errInvalidK(k int) error {
	return &GrammarError{Kind: ErrInvalidK, K: k}
}

func errLeftRecursive(lhs LHS) error {
	return &GrammarError{Kind: ErrLeftRecursive, Production: lhs}
}

func errDuplicateDefinition(name string) error {
	return &GrammarError{Kind: ErrDuplicateDefinition, Name: name}
}
