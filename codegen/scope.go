package codegen

import (
	"github.com/opal-lang/wisp/builder"
	"github.com/opal-lang/wisp/types"
)

// Scope is a persistent symbol -> (content, stack-slot-pointer) map:
// nested let-bindings must not mutate ancestor scopes. Insert returns
// a new Scope sharing the old one's tail rather than copying it, so a
// deep chain of LetNonRec bindings costs O(1) per insert instead of
// the O(n^2) total a copy-the-whole-map-per-binding scope would.
type Scope struct {
	symbol  string
	content types.Content
	ptr     builder.Value
	parent  *Scope
}

// NewScope returns the empty scope.
func NewScope() *Scope {
	return nil
}

// Insert returns a new Scope with symbol bound, leaving s itself
// unchanged.
func (s *Scope) Insert(symbol string, content types.Content, ptr builder.Value) *Scope {
	return &Scope{symbol: symbol, content: content, ptr: ptr, parent: s}
}

// Get looks up symbol, walking outward through enclosing scopes.
func (s *Scope) Get(symbol string) (types.Content, builder.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.symbol == symbol {
			return cur.content, cur.ptr, true
		}
	}
	return nil, builder.Value{}, false
}
