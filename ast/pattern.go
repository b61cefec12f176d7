package ast

// Pattern is the canonical pattern sum type. The emitter only lowers
// identifier patterns (let-bindings) and integer/float literal
// patterns (when-branch scrutinee matches).
type Pattern interface {
	isPattern()
}

// IdentifierPattern binds the matched value to Symbol.
type IdentifierPattern struct {
	Symbol string
}

// IntPattern matches an exact int64 literal.
type IntPattern struct {
	Value int64
}

// FloatPattern matches an exact float64 literal.
type FloatPattern struct {
	Value float64
}

func (IdentifierPattern) isPattern() {}
func (IntPattern) isPattern()        {}
func (FloatPattern) isPattern()      {}
