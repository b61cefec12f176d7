package solve

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/opal-lang/wisp/symbol"
)

// TypeErrorKind enumerates the categories of accumulated, non-fatal
// type errors: mismatches, occurs-check failures, and unbound
// references.
type TypeErrorKind int

const (
	Mismatch TypeErrorKind = iota
	OccursCheck
	UnboundVariable
)

// TypeError is never fatal - the solver collects these and proceeds
// with ErrorContent as the inferred content so later constraints can
// still be checked.
type TypeError struct {
	Kind       TypeErrorKind
	Region     symbol.Region
	Message    string
	Suggestion string // populated only for UnboundVariable, see suggestSymbol
}

func (e TypeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s at %s (did you mean %q?)", e.Message, e.Region, e.Suggestion)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Region)
}

// suggestSymbol ranks known against missing with fuzzy string matching
// and returns the closest candidate, or "" if nothing in known matches, so an
// unbound-reference diagnostic can carry a "did you mean" hint.
func suggestSymbol(missing string, known []string) string {
	if len(known) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(missing, known)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target
}
