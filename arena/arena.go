// Package arena implements the bump-style scratch region that owns
// transient syntactic data produced by one top-level parse call.
//
// Go has no lifetime system to tie a parsed fragment to the parse
// call that produced it, so an Arena hands out Slice values stamped
// with its current generation. Reset bumps the generation, so any
// Slice allocated before the reset panics on its next use instead of
// silently aliasing data a later parse believes it owns exclusively.
package arena

import "fmt"

// Arena owns every AST fragment produced during one parse invocation.
// Zero value is ready to use.
type Arena struct {
	generation uint64
}

// New returns a fresh Arena at generation 0.
func New() *Arena {
	return &Arena{}
}

// Reset invalidates every Slice previously allocated from a, bumping
// its generation. Called once at the phase boundary between one
// module's parse and the next; nothing allocated before Reset may be
// touched afterward.
func (a *Arena) Reset() {
	a.generation++
}

// Generation reports the arena's current generation, for tests that
// want to assert a Reset actually happened.
func (a *Arena) Generation() uint64 {
	return a.generation
}

// Slice is an arena-owned, growable vector. Repetition combinators
// allocate one of these with initial capacity 1 on their first
// successful match.
type Slice[T any] struct {
	owner *Arena
	gen   uint64
	vals  []T
}

// NewSlice allocates a Slice owned by a, with the given initial
// capacity (combinators pass 1).
func NewSlice[T any](a *Arena, capacity int) *Slice[T] {
	return &Slice[T]{
		owner: a,
		gen:   a.generation,
		vals:  make([]T, 0, capacity),
	}
}

// Push appends v, panicking if the owning arena has since been Reset.
func (s *Slice[T]) Push(v T) {
	s.checkLive()
	s.vals = append(s.vals, v)
}

// Values returns the accumulated elements. The returned slice must not
// outlive the owning arena's generation either.
func (s *Slice[T]) Values() []T {
	s.checkLive()
	return s.vals
}

// Len reports the number of elements pushed so far.
func (s *Slice[T]) Len() int {
	s.checkLive()
	return len(s.vals)
}

func (s *Slice[T]) checkLive() {
	if s.owner != nil && s.gen != s.owner.generation {
		panic(fmt.Sprintf("arena: use of Slice from generation %d after arena reset to generation %d", s.gen, s.owner.generation))
	}
}
