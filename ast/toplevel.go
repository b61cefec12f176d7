package ast

// TopLevel is the root production the parser combinator engine
// produces one of per module. The actual grammar - what a module
// header, a def, an expression look like in source syntax - is an
// external collaborator; this type only carries whatever that grammar
// decides to hand back, so the parser engine's top-level entry point
// has something concrete to be generic over in cmd/wispc's grammar.
type TopLevel struct {
	Defs []Def
}

// Def is a single top-level binding: a name and the body expression
// in parsed-but-not-yet-canonicalized form. The parser layer works
// with source-level names, not the resolved ast.Expr tree codegen
// consumes - canonicalization is what bridges the two, and it is
// external.
type Def struct {
	Name string
	Body ParsedExpr
}

// ParsedExpr is the tiny subset of surface syntax this module models:
// integer and float literals and bare identifiers. cmd/wispc's grammar
// produces the integer and identifier forms. A real grammar module
// would produce a much richer tree.
type ParsedExpr struct {
	Kind       ParsedExprKind
	IntValue   int64
	FloatValue float64
	Name       string
}

type ParsedExprKind int

const (
	ParsedInt ParsedExprKind = iota
	ParsedFloat
	ParsedIdent
)
