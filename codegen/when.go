package codegen

import (
	"fmt"

	"github.com/opal-lang/wisp/ast"
	"github.com/opal-lang/wisp/builder"
	emiterrors "github.com/opal-lang/wisp/pkgs/errors"
)

// compileWhen is the When arm of compileExpr. Only the
// exactly-two-branch literal-pattern form is supported; anything else
// surfaces as a compilation-not-yet-supported error rather than a
// silently truncated lowering. Before handing the scrutinee to
// compileWhenBranch it
// runs NumToBV against the scrutinee's own Subs content, so the switch
// on cond.Kind there dispatches on a value already confirmed to match
// its solved type rather than trusting the backend's runtime tag blind.
func compileWhen(env *Env, scope *Scope, parent builder.Function, w ast.When) (builder.Value, error) {
	cond, err := compileExpr(env, scope, parent, w.Cond)
	if err != nil {
		return builder.Value{}, err
	}

	content, err := contentFromExpr(scope, env.Subs, w.Cond)
	if err != nil {
		return builder.Value{}, err
	}
	innerContent, err := unwrapNum(content, env.Subs)
	if err != nil {
		return builder.Value{}, fmt.Errorf("when scrutinee: %w", err)
	}
	cond, err = NumToBV(innerContent, cond)
	if err != nil {
		return builder.Value{}, fmt.Errorf("when scrutinee: %w", err)
	}

	return compileWhenBranch(env, scope, parent, cond, w.Branches[0], w.Branches[1])
}

// compileWhenBranch dispatches on the scrutinee's Kind, builds the
// single comparison the literal pattern needs, branches on it, and
// merges the two arms' values with a phi of the scrutinee's own type.
func compileWhenBranch(env *Env, scope *Scope, parent builder.Function, cond builder.Value, thenBranch, elseBranch ast.Branch) (builder.Value, error) {
	b := env.Builder

	switch cond.Kind {
	case builder.Float64:
		pat, ok := thenBranch.Pattern.(ast.FloatPattern)
		if !ok {
			return builder.Value{}, emiterrors.NewUnsupportedExpr("pattern matching on floats other than literals")
		}
		comparison := b.BuildFloatCompare(builder.FloatOEQ, cond, b.ConstFloat(pat.Value), "whencond")
		thenBB, elseBB, thenVal, elseVal, err := twoWayBranch(env, scope, parent, comparison, thenBranch.Expr, elseBranch.Expr)
		if err != nil {
			return builder.Value{}, err
		}
		phi := b.BuildPhi(builder.Float64, "casetmp")
		b.AddIncoming(phi, builder.PhiEdge{Value: thenVal, Block: thenBB}, builder.PhiEdge{Value: elseVal, Block: elseBB})
		return phi, nil

	case builder.Int64:
		pat, ok := thenBranch.Pattern.(ast.IntPattern)
		if !ok {
			return builder.Value{}, emiterrors.NewUnsupportedExpr("pattern matching on ints other than literals")
		}
		comparison := b.BuildIntCompare(builder.IntEQ, cond, b.ConstInt(pat.Value), "whencond")
		thenBB, elseBB, thenVal, elseVal, err := twoWayBranch(env, scope, parent, comparison, thenBranch.Expr, elseBranch.Expr)
		if err != nil {
			return builder.Value{}, err
		}
		phi := b.BuildPhi(builder.Int64, "casetmp")
		b.AddIncoming(phi, builder.PhiEdge{Value: thenVal, Block: thenBB}, builder.PhiEdge{Value: elseVal, Block: elseBB})
		return phi, nil

	default:
		return builder.Value{}, emiterrors.NewUnsupportedExpr(fmt.Sprintf("pattern matching on scrutinee kind %v", cond.Kind))
	}
}

// twoWayBranch opens then/else/casecont blocks, branches on
// comparison, compiles each arm in its own block, and leaves the
// builder positioned at casecont for the caller's phi.
func twoWayBranch(env *Env, scope *Scope, parent builder.Function, comparison builder.Value, thenExpr, elseExpr ast.Expr) (thenBB, elseBB builder.Block, thenVal, elseVal builder.Value, err error) {
	b := env.Builder

	thenBB = b.AppendBasicBlock(parent, "then")
	elseBB = b.AppendBasicBlock(parent, "else")
	contBB := b.AppendBasicBlock(parent, "casecont")

	b.BuildConditionalBranch(comparison, thenBB, elseBB)

	b.PositionAtEnd(thenBB)
	thenVal, err = compileExpr(env, scope, parent, thenExpr)
	if err != nil {
		return
	}
	b.BuildUnconditionalBranch(contBB)
	thenBB = b.CurrentBlock()

	b.PositionAtEnd(elseBB)
	elseVal, err = compileExpr(env, scope, parent, elseExpr)
	if err != nil {
		return
	}
	b.BuildUnconditionalBranch(contBB)
	elseBB = b.CurrentBlock()

	b.PositionAtEnd(contBB)
	return
}
