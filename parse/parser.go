package parse

import (
	"unicode/utf8"

	"github.com/opal-lang/wisp/arena"
)

// Result is the outcome of one parse attempt: either a value and the
// state after consuming it, or a Fail and the state the failure should
// be re-entered from.
type Result[T any] struct {
	Value T
	State State
	Fail  *Fail
}

func ok[T any](value T, state State) Result[T] {
	return Result[T]{Value: value, State: state}
}

func failed[T any](fail *Fail, state State) Result[T] {
	return Result[T]{Fail: fail, State: state}
}

// Parser is a reusable value exposing Parse. Combinators build new
// Parsers from existing ones without consuming them.
type Parser[T any] interface {
	Parse(a *arena.Arena, s State) Result[T]
}

// Func adapts a plain function to the Parser interface.
type Func[T any] func(a *arena.Arena, s State) Result[T]

func (f Func[T]) Parse(a *arena.Arena, s State) Result[T] {
	return f(a, s)
}

// Val always succeeds with v, without consuming any input.
func Val[T any](v T) Parser[T] {
	return Func[T](func(_ *arena.Arena, s State) Result[T] {
		return ok(v, s)
	})
}

// Char consumes a single rune equal to expected.
func Char(expected rune) Parser[struct{}] {
	return Func[struct{}](func(_ *arena.Arena, s State) Result[struct{}] {
		if s.Poisoned() {
			return failPoisoned[struct{}](s)
		}
		r, size := nextRune(s.Input)
		if size == 0 {
			fail, state := unexpectedEOF(0, s)
			return failed[struct{}](fail, state)
		}
		if r != expected {
			fail, state := unexpectedChar(r, 0, s)
			return failed[struct{}](fail, state)
		}
		next, fail := s.AdvanceWithoutIndenting(size)
		if fail != nil {
			return failed[struct{}](fail, next)
		}
		return ok(struct{}{}, next)
	})
}

// String matches a literal prefix. The literal must contain no
// newline; that is the caller's responsibility.
func String(literal string) Parser[struct{}] {
	return Func[struct{}](func(_ *arena.Arena, s State) Result[struct{}] {
		if s.Poisoned() {
			return failPoisoned[struct{}](s)
		}
		if len(s.Input) < len(literal) || s.Input[:len(literal)] != literal {
			fail, state := unexpectedEOF(0, s)
			return failed[struct{}](fail, state)
		}
		next, fail := s.AdvanceWithoutIndenting(len(literal))
		if fail != nil {
			return failed[struct{}](fail, next)
		}
		return ok(struct{}{}, next)
	})
}

func failPoisoned[T any](s State) Result[T] {
	return failed[T](&Fail{Attempting: s.Attempting, Reason: LineTooLong(s.Line)}, s)
}

// nextRune decodes the first rune of input, returning size 0 at EOF.
func nextRune(input string) (rune, int) {
	if len(input) == 0 {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(input)
	return r, size
}
