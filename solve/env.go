package solve

import "github.com/opal-lang/wisp/types"

// Env is the solver environment RunSolve returns alongside the Solved
// wrapper and the problems list. It carries the symbol->Variable
// bindings a Lookup constraint resolves against; a real module solve
// populates this from canonicalization's symbol table (external to
// this module), tests populate it directly.
type Env struct {
	Bound map[string]types.Variable
}

// NewEnv returns an Env with no bindings.
func NewEnv() Env {
	return Env{Bound: make(map[string]types.Variable)}
}

// Names returns every bound symbol name, used by the unbound-reference
// diagnostic to compute a "did you mean" suggestion.
func (e Env) Names() []string {
	names := make([]string, 0, len(e.Bound))
	for name := range e.Bound {
		names = append(names, name)
	}
	return names
}
