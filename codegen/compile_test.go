package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/ast"
	"github.com/opal-lang/wisp/builder"
	"github.com/opal-lang/wisp/codegen"
	"github.com/opal-lang/wisp/types"
)

func numNum(module, name string, subs *types.Subs) types.Variable {
	inner := subs.Fresh(types.Structure{Flat: types.Apply{Module: module, Name: name}})
	return subs.Fresh(types.Structure{Flat: types.Apply{Module: types.ModNum, Name: types.TypeNum, Args: []types.Variable{inner}}})
}

// let n = 7 in n - alloca in entry block, store i64 7, load, returned
// value equals 7 when the IR is executed by the backend.
func TestCompileLetNonRecInt(t *testing.T) {
	subs := types.NewSubs()
	intVar := numNum(types.ModInt, types.TypeInteger, subs)

	expr := ast.LetNonRec{
		Pattern: ast.IdentifierPattern{Symbol: "n"},
		Expr:    ast.IntLiteral{Var: intVar, Value: 7},
		Body:    ast.Var{Symbol: "n"},
	}

	mem := builder.NewMemory()
	fn := mem.DeclareFunction("main")
	env := &codegen.Env{Builder: mem, Subs: subs}

	result, err := codegen.CompileStandaloneExpr(env, fn, expr)
	require.NoError(t, err)
	require.Equal(t, builder.Int64, result.Kind)

	got, err := mem.Eval(result)
	require.NoError(t, err)
	require.Equal(t, int64(7), got)
}

// when 2 is 2 -> 10; else 20 evaluates to 10; swapping the scrutinee
// to 3 flips the result to 20.
func TestCompileWhenTwoBranchesInt(t *testing.T) {
	subs := types.NewSubs()
	intVar := numNum(types.ModInt, types.TypeInteger, subs)

	build := func(scrutinee int64) ast.Expr {
		return ast.When{
			Cond: ast.IntLiteral{Var: intVar, Value: scrutinee},
			Branches: [2]ast.Branch{
				{Pattern: ast.IntPattern{Value: 2}, Expr: ast.IntLiteral{Var: intVar, Value: 10}},
				{Pattern: ast.IntPattern{Value: 2}, Expr: ast.IntLiteral{Var: intVar, Value: 20}},
			},
		}
	}

	t.Run("matching branch", func(t *testing.T) {
		mem := builder.NewMemory()
		fn := mem.DeclareFunction("main")
		env := &codegen.Env{Builder: mem, Subs: subs}

		result, err := codegen.CompileStandaloneExpr(env, fn, build(2))
		require.NoError(t, err)

		got, err := mem.Eval(result)
		require.NoError(t, err)
		require.Equal(t, int64(10), got)
	})

	t.Run("else branch", func(t *testing.T) {
		mem := builder.NewMemory()
		fn := mem.DeclareFunction("main")
		env := &codegen.Env{Builder: mem, Subs: subs}

		result, err := codegen.CompileStandaloneExpr(env, fn, build(3))
		require.NoError(t, err)

		got, err := mem.Eval(result)
		require.NoError(t, err)
		require.Equal(t, int64(20), got)
	})
}

func TestCompileUnboundVarIsFatal(t *testing.T) {
	subs := types.NewSubs()
	mem := builder.NewMemory()
	fn := mem.DeclareFunction("main")
	env := &codegen.Env{Builder: mem, Subs: subs}

	_, err := codegen.CompileStandaloneExpr(env, fn, ast.Var{Symbol: "missing"})
	require.Error(t, err)
}

func TestContentToBasicTypeFloat(t *testing.T) {
	subs := types.NewSubs()
	floatVar := numNum(types.ModFloat, types.TypeFloatingPoint, subs)

	bt, err := codegen.ContentToBasicType(subs.GetWithoutCompacting(floatVar), subs)
	require.NoError(t, err)
	require.Equal(t, builder.Float64, bt)
}

func TestContentToBasicTypeUnsupported(t *testing.T) {
	subs := types.NewSubs()
	v := subs.Fresh(types.Structure{Flat: types.Apply{Module: "Str", Name: "Str"}})

	_, err := codegen.ContentToBasicType(subs.GetWithoutCompacting(v), subs)
	require.Error(t, err)
}
