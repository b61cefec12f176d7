package solve

import (
	"github.com/opal-lang/wisp/symbol"
	"github.com/opal-lang/wisp/types"
)

// Solved wraps a Subs to signal it has been finalized by a successful
// RunSolve, so later code can't accidentally mutate a Subs that's
// supposed to be read-only from here on, short of going through the
// explicit InnerMut() escape hatch the exporter uses.
type Solved struct {
	subs *types.Subs
}

// Inner returns the wrapped Subs for read access (solved-type
// generation, the emitter).
func (s Solved) Inner() *types.Subs {
	return s.subs
}

// WrapSolved wraps an already-finalized Subs as Solved without running
// RunSolve again - the StorageSubs a module import produces is, by
// construction, already in solved form (storage.ImportVariableFrom
// never leaves a FlexVar half-unified), so re-deriving solved types
// from it for Fingerprint needs a way back into this package's opaque
// wrapper.
func WrapSolved(subs *types.Subs) Solved {
	return Solved{subs: subs}
}

// InnerMut returns the wrapped Subs for the one legitimate post-solve
// mutator: the storage exporter imports variables out of it but never
// changes their content, so this is really just Inner under a name
// that flags the call site as the exporter's.
func (s Solved) InnerMut() *types.Subs {
	return s.subs
}

// RunSolve registers rigid variables, walks the constraint tree
// performing unification, and returns the finalized Subs, the solver
// environment, and every TypeError encountered along the way. A
// mismatch never aborts the walk - unify always leaves some content
// behind so sibling constraints keep getting checked.
func RunSolve(
	constraints *Constraints,
	root ConstraintRef,
	rigid types.RigidVariables,
	subs *types.Subs,
	aliases Aliases,
	env Env,
) (Solved, Env, []TypeError) {
	rigid.Register(subs)

	var problems []TypeError
	solveConstraint(constraints, root, subs, aliases, env, &problems)

	return Solved{subs: subs}, env, problems
}

func solveConstraint(cs *Constraints, ref ConstraintRef, subs *types.Subs, aliases Aliases, env Env, problems *[]TypeError) {
	switch c := cs.Get(ref).(type) {
	case True:
		// contributes nothing
	case Eq:
		unify(subs, aliases, c.A, c.B, c.Region, problems)
	case Lookup:
		bound, ok := env.Bound[c.Symbol]
		if !ok {
			*problems = append(*problems, TypeError{
				Kind:       UnboundVariable,
				Region:     c.Region,
				Message:    "unbound reference to `" + c.Symbol + "`",
				Suggestion: suggestSymbol(c.Symbol, env.Names()),
			})
			subs.SetContent(c.Expected, types.ErrorContent{})
			return
		}
		unify(subs, aliases, c.Expected, bound, c.Region, problems)
	case And:
		for _, child := range c.Children {
			solveConstraint(cs, child, subs, aliases, env, problems)
		}
	}
}

// unify is standard first-order unification over FlatType, expanding
// aliases on demand. A recursive type (x = Apply{List,[y]}, y =
// Apply{List,[x]}) is handled by merging ra/rb into one equivalence
// class *before* recursing into unifyFlat - by the time the recursive
// unify(y, x) call is reached, Root(y) == Root(x) already, so it
// returns immediately instead of re-entering unifyFlat forever. On a
// structural mismatch it records a TypeError and leaves ErrorContent
// behind rather than aborting.
func unify(subs *types.Subs, aliases Aliases, a, b types.Variable, region symbol.Region, problems *[]TypeError) {
	ra, rb := subs.Root(a), subs.Root(b)
	if ra == rb {
		return
	}

	ca := subs.GetWithoutCompacting(ra)
	cb := subs.GetWithoutCompacting(rb)

	if alias, isAlias := ca.(types.Alias); isAlias {
		unify(subs, aliases, alias.Real, rb, region, problems)
		subs.Union(ra, rb)
		return
	}
	if alias, isAlias := cb.(types.Alias); isAlias {
		unify(subs, aliases, ra, alias.Real, region, problems)
		subs.Union(ra, rb)
		return
	}

	switch left := ca.(type) {
	case types.FlexVar:
		subs.Union(ra, rb)
		return
	case types.RigidVar:
		if right, ok := cb.(types.RigidVar); ok && right.Name == left.Name {
			subs.Union(ra, rb)
			return
		}
		if _, ok := cb.(types.FlexVar); ok {
			subs.Union(ra, rb)
			return
		}
		recordMismatch(subs, ra, rb, region, problems)
		return
	case types.ErrorContent:
		subs.Union(ra, rb)
		return
	case types.Structure:
		switch right := cb.(type) {
		case types.FlexVar:
			subs.Union(ra, rb)
			return
		case types.ErrorContent:
			subs.Union(ra, rb)
			return
		case types.Structure:
			// Union first, recurse second: a recursive structural type
			// reaching back to (ra, rb) must find them already merged.
			subs.Union(ra, rb)
			if !unifyFlat(subs, aliases, left.Flat, right.Flat, region, problems) {
				recordMismatch(subs, ra, rb, region, problems)
			}
			return
		default:
			recordMismatch(subs, ra, rb, region, problems)
			return
		}
	default:
		recordMismatch(subs, ra, rb, region, problems)
		return
	}
}

// unifyFlat recursively unifies two FlatType shapes of the same kind,
// returning false on a structural mismatch (different constructor,
// arity, or field set). No occurs check is made: unifying a FlexVar
// with a structure that contains it leaves a cyclic type in Subs
// rather than an OccursCheck TypeError. unify compares Roots before
// recursing, so the walk still terminates on such a cycle.
func unifyFlat(subs *types.Subs, aliases Aliases, a, b types.FlatType, region symbol.Region, problems *[]TypeError) bool {
	switch left := a.(type) {
	case types.Apply:
		right, ok := b.(types.Apply)
		if !ok || left.Module != right.Module || left.Name != right.Name || len(left.Args) != len(right.Args) {
			return false
		}
		for i := range left.Args {
			unify(subs, aliases, left.Args[i], right.Args[i], region, problems)
		}
		return true
	case types.Func:
		right, ok := b.(types.Func)
		if !ok || len(left.Args) != len(right.Args) {
			return false
		}
		for i := range left.Args {
			unify(subs, aliases, left.Args[i], right.Args[i], region, problems)
		}
		unify(subs, aliases, left.Ret, right.Ret, region, problems)
		return true
	case types.Record:
		right, ok := b.(types.Record)
		if !ok || len(left.Fields) != len(right.Fields) {
			return false
		}
		for name, lv := range left.Fields {
			rv, ok := right.Fields[name]
			if !ok {
				return false
			}
			unify(subs, aliases, lv, rv, region, problems)
		}
		return true
	case types.TagUnion:
		right, ok := b.(types.TagUnion)
		if !ok || len(left.Tags) != len(right.Tags) {
			return false
		}
		for name, lv := range left.Tags {
			rv, ok := right.Tags[name]
			if !ok || len(lv) != len(rv) {
				return false
			}
			for i := range lv {
				unify(subs, aliases, lv[i], rv[i], region, problems)
			}
		}
		return true
	default:
		return false
	}
}

func recordMismatch(subs *types.Subs, a, b types.Variable, region symbol.Region, problems *[]TypeError) {
	*problems = append(*problems, TypeError{
		Kind:    Mismatch,
		Region:  region,
		Message: "type mismatch",
	})
	subs.SetContent(a, types.ErrorContent{})
	subs.Union(a, b)
}
