// Package codegen implements the code emitter: it traverses a
// canonical ast.Expr, consults Subs for type content, allocates stack
// slots at function entry, and builds basic blocks and phi merges
// against an opaque builder.Builder.
package codegen

import (
	"github.com/opal-lang/wisp/builder"
	"github.com/opal-lang/wisp/types"
)

// Env bundles the per-compile-run dependencies compileExpr threads
// through every recursive call: the backend being written to and the
// Subs it reads type content from. There is no separate context/module
// handle - builder.Builder stands in for both, since this module does
// not own backend setup.
type Env struct {
	Builder builder.Builder
	Subs    *types.Subs
}
