package solve_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/solve"
	"github.com/opal-lang/wisp/symbol"
	"github.com/opal-lang/wisp/types"
)

// A rigid set {(v1,"a")} and wildcard {v2} with an empty constraint
// register as Rigid("a") and Rigid("*") with no problems.
func TestRunSolveRegistersRigidsOnEmptyConstraint(t *testing.T) {
	subs := types.NewSubs()
	v1 := subs.Fresh(types.FlexVar{})
	v2 := subs.Fresh(types.FlexVar{})

	rigid := types.RigidVariables{
		Named:     map[types.Variable]string{v1: "a"},
		Wildcards: []types.Variable{v2},
	}

	constraints := solve.NewConstraints()
	root := constraints.Add(solve.True{})

	_, _, problems := solve.RunSolve(constraints, root, rigid, subs, solve.Aliases{}, solve.NewEnv())

	require.Empty(t, problems)
	require.Equal(t, types.RigidVar{Name: "a"}, subs.Get(v1))
	require.Equal(t, types.RigidVar{Name: "*"}, subs.Get(v2))
}

func TestRunSolveEqUnifiesFlexVarWithStructure(t *testing.T) {
	subs := types.NewSubs()
	a := subs.Fresh(types.FlexVar{})
	b := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}})

	constraints := solve.NewConstraints()
	root := constraints.Add(solve.Eq{A: a, B: b, Region: symbol.Region{}})

	_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, solve.NewEnv())

	require.Empty(t, problems)
	require.Equal(t, types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}}, subs.Get(a))
}

func TestRunSolveEqMismatchRecordsProblemAndContinues(t *testing.T) {
	subs := types.NewSubs()
	intVar := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Int", Name: "Integer"}})
	strVar := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}})

	// A second, independent Eq must still be checked after the first
	// mismatch: type errors never abort solving.
	c, d := subs.Fresh(types.FlexVar{}), subs.Fresh(types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}})

	constraints := solve.NewConstraints()
	mismatch := constraints.Add(solve.Eq{A: intVar, B: strVar, Region: symbol.Region{}})
	ok := constraints.Add(solve.Eq{A: c, B: d, Region: symbol.Region{}})
	root := constraints.Add(solve.And{Children: []solve.ConstraintRef{mismatch, ok}})

	_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, solve.NewEnv())

	require.Len(t, problems, 1)
	require.Equal(t, solve.Mismatch, problems[0].Kind)
	require.Equal(t, types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}}, subs.Get(c))
}

func TestRunSolveUnboundLookupSuggestsClosestName(t *testing.T) {
	subs := types.NewSubs()
	expected := subs.Fresh(types.FlexVar{})

	env := solve.NewEnv()
	env.Bound["answer"] = subs.Fresh(types.Structure{Flat: types.Apply{Module: "Int", Name: "Integer"}})

	constraints := solve.NewConstraints()
	root := constraints.Add(solve.Lookup{Symbol: "anwer", Expected: expected, Region: symbol.Region{}})

	_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, env)

	require.Len(t, problems, 1)
	require.Equal(t, solve.UnboundVariable, problems[0].Kind)
	require.Equal(t, "answer", problems[0].Suggestion)
	require.Equal(t, types.ErrorContent{}, subs.Get(expected))
}

// A genuinely recursive structural unification (x = List(y), y =
// List(x)) must terminate rather than looping unify forever.
func TestRunSolveUnifiesRecursiveStructure(t *testing.T) {
	subs := types.NewSubs()
	x := subs.Fresh(types.FlexVar{})
	y := subs.Fresh(types.FlexVar{})
	subs.SetContent(x, types.Structure{Flat: types.Apply{Module: "List", Name: "List", Args: []types.Variable{y}}})
	subs.SetContent(y, types.Structure{Flat: types.Apply{Module: "List", Name: "List", Args: []types.Variable{x}}})

	constraints := solve.NewConstraints()
	root := constraints.Add(solve.Eq{A: x, B: y, Region: symbol.Region{}})

	done := make(chan []solve.TypeError, 1)
	go func() {
		_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, solve.NewEnv())
		done <- problems
	}()

	select {
	case problems := <-done:
		require.Empty(t, problems)
		require.Equal(t, subs.Root(x), subs.Root(y))
	case <-time.After(2 * time.Second):
		t.Fatal("RunSolve did not terminate on a recursive structural type")
	}
}

func TestRunSolveBoundLookupUnifies(t *testing.T) {
	subs := types.NewSubs()
	expected := subs.Fresh(types.FlexVar{})
	boundVar := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Int", Name: "Integer"}})

	env := solve.NewEnv()
	env.Bound["n"] = boundVar

	constraints := solve.NewConstraints()
	root := constraints.Add(solve.Lookup{Symbol: "n", Expected: expected, Region: symbol.Region{}})

	_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, env)

	require.Empty(t, problems)
	require.Equal(t, types.Structure{Flat: types.Apply{Module: "Int", Name: "Integer"}}, subs.Get(expected))
}
