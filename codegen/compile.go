package codegen

import (
	"fmt"

	"github.com/opal-lang/wisp/ast"
	"github.com/opal-lang/wisp/builder"
	emiterrors "github.com/opal-lang/wisp/pkgs/errors"
	"github.com/opal-lang/wisp/types"
)

// CompileStandaloneExpr is the entry point for lowering one top-level
// expr within parent, starting from an empty scope.
func CompileStandaloneExpr(env *Env, parent builder.Function, expr ast.Expr) (builder.Value, error) {
	return compileExpr(env, NewScope(), parent, expr)
}

func compileExpr(env *Env, scope *Scope, parent builder.Function, expr ast.Expr) (builder.Value, error) {
	switch e := expr.(type) {
	case ast.IntLiteral:
		return env.Builder.ConstInt(e.Value), nil

	case ast.FloatLiteral:
		return env.Builder.ConstFloat(e.Value), nil

	case ast.When:
		return compileWhen(env, scope, parent, e)

	case ast.LetNonRec:
		return compileLetNonRec(env, scope, parent, e)

	case ast.Var:
		_, ptr, ok := scope.Get(e.Symbol)
		if !ok {
			return builder.Value{}, emiterrors.NewUnboundSymbol(e.Symbol)
		}
		return env.Builder.BuildLoad(ptr, e.Symbol), nil

	default:
		return builder.Value{}, emiterrors.NewUnsupportedExpr(fmt.Sprintf("%T", expr))
	}
}

func compileLetNonRec(env *Env, scope *Scope, parent builder.Function, e ast.LetNonRec) (builder.Value, error) {
	ident, ok := e.Pattern.(ast.IdentifierPattern)
	if !ok {
		return builder.Value{}, emiterrors.NewUnsupportedExpr(fmt.Sprintf("let-binding pattern %T", e.Pattern))
	}

	content, err := contentFromExpr(scope, env.Subs, e.Expr)
	if err != nil {
		return builder.Value{}, err
	}

	val, err := compileExpr(env, scope, parent, e.Expr)
	if err != nil {
		return builder.Value{}, err
	}

	basicType, err := ContentToBasicType(content, env.Subs)
	if err != nil {
		return builder.Value{}, fmt.Errorf("converting symbol %q to basic type: %w", ident.Symbol, err)
	}

	alloca := createEntryBlockAlloca(env.Builder, parent, basicType, ident.Symbol)
	env.Builder.BuildStore(alloca, val)

	// The new binding is only visible to Body, compiled after - a
	// LetNonRec binding must never see itself (it isn't a LetRec).
	inner := scope.Insert(ident.Symbol, content, alloca)
	return compileExpr(env, inner, parent, e.Body)
}

// contentFromExpr recovers the Subs Content an expression's value
// has, without re-running the solver - literals carry their assigned
// Variable directly, and a Var reuses whatever Content its binding in
// scope already recorded.
func contentFromExpr(scope *Scope, subs *types.Subs, expr ast.Expr) (types.Content, error) {
	switch e := expr.(type) {
	case ast.IntLiteral:
		return subs.GetWithoutCompacting(e.Var), nil
	case ast.FloatLiteral:
		return subs.GetWithoutCompacting(e.Var), nil
	case ast.Var:
		content, _, ok := scope.Get(e.Symbol)
		if !ok {
			return nil, emiterrors.NewUnboundSymbol(e.Symbol)
		}
		return content, nil
	default:
		return nil, emiterrors.NewUnsupportedExpr(fmt.Sprintf("content_from_expr(%T)", expr))
	}
}

// createEntryBlockAlloca allocates every stack slot in the function's
// entry block, not wherever the binding textually appears, so the
// backend's mem2reg-style pass can promote the slot. It positions
// before the block's first instruction when one already exists (an
// earlier LetNonRec has already allocated there), else at the block's
// end, then restores the builder's insertion point to where it was
// before returning - allocating must not disturb whatever block the
// caller was actually emitting into.
func createEntryBlockAlloca(b builder.Builder, parent builder.Function, t builder.BasicType, name string) builder.Value {
	resumeAt := b.CurrentBlock()
	entry := b.EntryBlock(parent)

	if first, ok := b.FirstInstruction(entry); ok {
		b.PositionBefore(first)
	} else {
		b.PositionAtEnd(entry)
	}

	alloca := b.BuildAlloca(t, name)
	b.PositionAtEnd(resumeAt)
	return alloca
}
