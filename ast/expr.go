// Package ast holds the canonical expression tree the code emitter
// consumes. Canonicalization itself (turning parsed, located AST into
// this form, plus symbol-table construction) is an external
// collaborator - this package only defines the contract shape codegen
// pattern-matches on.
package ast

import "github.com/opal-lang/wisp/types"

// Expr is the canonical expression sum type. Only the forms the
// emitter actually lowers are represented; it treats an unrecognized
// Expr as a compilation-not-yet-supported fatal error, never a panic
// disguised as success.
type Expr interface {
	isExpr()
}

// IntLiteral is an integer literal expression, tagged with the type
// variable the solver assigned it so codegen.ContentToBasicType can map it
// to i64.
type IntLiteral struct {
	Var   types.Variable
	Value int64
}

// FloatLiteral is a floating point literal expression.
type FloatLiteral struct {
	Var   types.Variable
	Value float64
}

// LetNonRec binds Pattern to the value of Expr (non-recursively - the
// bound expression may not reference its own binding) then evaluates
// Body. The emitter only lowers the identifier-pattern case.
type LetNonRec struct {
	Pattern Pattern
	Expr    Expr
	Body    Expr
}

// Var references a previously bound symbol by the name canonicalization
// resolved it to.
type Var struct {
	Symbol string
}

// When is a case expression, fixed at exactly two branches. More
// branches and non-literal patterns wait on a decision-tree design for
// exhaustive pattern compilation that hasn't been made yet.
type When struct {
	Cond     Expr
	Branches [2]Branch
}

// Branch is one arm of a When: a pattern to match the scrutinee
// against, and the expression to evaluate if it matches.
type Branch struct {
	Pattern Pattern
	Expr    Expr
}

func (IntLiteral) isExpr()   {}
func (FloatLiteral) isExpr() {}
func (LetNonRec) isExpr()    {}
func (Var) isExpr()          {}
func (When) isExpr()         {}
