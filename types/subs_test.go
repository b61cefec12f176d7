package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/types"
)

func TestFreshAndGet(t *testing.T) {
	subs := types.NewSubs()
	v := subs.Fresh(types.RigidVar{Name: "a"})
	require.Equal(t, types.RigidVar{Name: "a"}, subs.Get(v))
}

func TestUnionMergesEquivalenceClasses(t *testing.T) {
	subs := types.NewSubs()
	a := subs.Fresh(types.FlexVar{})
	b := subs.Fresh(types.FlexVar{})

	require.NotEqual(t, subs.Root(a), subs.Root(b))
	subs.Union(a, b)
	require.Equal(t, subs.Root(a), subs.Root(b))
}

// A Structure absorbs a merged FlexVar: the narrower representation
// absorbs into the wider.
func TestUnionStructureAbsorbsFlexVar(t *testing.T) {
	subs := types.NewSubs()
	flex := subs.Fresh(types.FlexVar{})
	structured := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}})

	subs.Union(flex, structured)
	require.Equal(t, types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}}, subs.Get(flex))
	require.Equal(t, types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}}, subs.Get(structured))
}

// A RigidVar is never overwritten by a merge with a FlexVar.
func TestUnionRigidVarSurvivesOverFlexVar(t *testing.T) {
	subs := types.NewSubs()
	flex := subs.Fresh(types.FlexVar{})
	rigid := subs.Fresh(types.RigidVar{Name: "a"})

	subs.Union(flex, rigid)
	require.Equal(t, types.RigidVar{Name: "a"}, subs.Get(flex))
}

// GetWithoutCompacting follows parent pointers through a chain of
// unions to the current representative's Content.
func TestGetWithoutCompactingFollowsUnionChain(t *testing.T) {
	subs := types.NewSubs()
	a := subs.Fresh(types.FlexVar{})
	b := subs.Fresh(types.FlexVar{})
	c := subs.Fresh(types.RigidVar{Name: "chain"})

	subs.Union(a, b)
	subs.Union(b, c)

	require.Equal(t, types.RigidVar{Name: "chain"}, subs.GetWithoutCompacting(a))
	require.Equal(t, subs.Root(a), subs.Root(c))
}

// After RigidVariables.Register, a named rigid reads back as
// RigidVar(name).
func TestRigidVariablesRegisterNamed(t *testing.T) {
	subs := types.NewSubs()
	v := subs.Fresh(types.FlexVar{})

	rigid := types.RigidVariables{Named: map[types.Variable]string{v: "a"}}
	rigid.Register(subs)

	require.Equal(t, types.RigidVar{Name: "a"}, subs.Get(v))
}

// A wildcard rigid reads back as RigidVar("*").
func TestRigidVariablesRegisterWildcard(t *testing.T) {
	subs := types.NewSubs()
	v := subs.Fresh(types.FlexVar{})

	rigid := types.RigidVariables{Wildcards: []types.Variable{v}}
	rigid.Register(subs)

	require.Equal(t, types.RigidVar{Name: "*"}, subs.Get(v))
}

func TestValidateModulePath(t *testing.T) {
	require.NoError(t, types.ValidateModulePath(""))
	require.NoError(t, types.ValidateModulePath("github.com/opal-lang/wisp/num"))
	require.Error(t, types.ValidateModulePath("not a valid path!"))
}
