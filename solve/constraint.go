// Package solve implements the constraint solver: it consumes a
// structure-of-arrays constraint representation plus an initial Subs,
// registers rigid variables, runs first-order unification augmented
// with alias expansion, and returns a finalized Solved wrapper
// alongside any accumulated TypeErrors.
//
// Constraint generation itself is an external collaborator - the
// types in this file are the contract shape that producer hands
// RunSolve as opaque inputs.
package solve

import (
	"github.com/opal-lang/wisp/symbol"
	"github.com/opal-lang/wisp/types"
)

// ConstraintRef indexes into a Constraints store, so that large
// constraint trees don't require one heap allocation per node.
type ConstraintRef int

// Constraint is the solver's input sum type.
type Constraint interface {
	isConstraint()
}

// True always succeeds and contributes nothing.
type True struct{}

// Eq demands that A and B unify; Region locates the demand for error
// reporting.
type Eq struct {
	A, B   types.Variable
	Region symbol.Region
}

// Lookup demands that Expected unify with whatever type Symbol
// resolves to in the solving environment; if Symbol isn't bound, the
// solver reports an unbound-reference TypeError instead of unifying.
type Lookup struct {
	Symbol   string
	Expected types.Variable
	Region   symbol.Region
}

// And runs every child constraint in order.
type And struct {
	Children []ConstraintRef
}

func (True) isConstraint()   {}
func (Eq) isConstraint()     {}
func (Lookup) isConstraint() {}
func (And) isConstraint()    {}

// Constraints is the store constraint generation populates and
// RunSolve walks.
type Constraints struct {
	nodes []Constraint
}

// NewConstraints returns an empty store.
func NewConstraints() *Constraints {
	return &Constraints{}
}

// Add appends c and returns its ref.
func (c *Constraints) Add(con Constraint) ConstraintRef {
	ref := ConstraintRef(len(c.nodes))
	c.nodes = append(c.nodes, con)
	return ref
}

// Get resolves ref to its Constraint.
func (c *Constraints) Get(ref ConstraintRef) Constraint {
	return c.nodes[ref]
}

// AliasDef is the contract shape of a type alias definition: Symbol
// applied to Args expands to Real.
type AliasDef struct {
	Symbol string
	Args   []types.Variable
	Real   types.Variable
}

// Aliases maps an alias's Symbol to its definition. RunSolve passes it
// down to the unifier, which expands an alias by following the Alias
// content's Real variable and does not look definitions up in this map.
type Aliases map[string]AliasDef
