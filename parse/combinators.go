package parse

import "github.com/opal-lang/wisp/arena"

// Map transforms a successful Output into After; failures pass through
// untouched.
func Map[Before, After any](p Parser[Before], transform func(Before) After) Parser[After] {
	return Func[After](func(a *arena.Arena, s State) Result[After] {
		r := p.Parse(a, s)
		if r.Fail != nil {
			return failed[After](r.Fail, r.State)
		}
		return ok(transform(r.Value), r.State)
	})
}

// MapWithArena is Map, but the transform may allocate into the arena.
func MapWithArena[Before, After any](p Parser[Before], transform func(*arena.Arena, Before) After) Parser[After] {
	return Func[After](func(a *arena.Arena, s State) Result[After] {
		r := p.Parse(a, s)
		if r.Fail != nil {
			return failed[After](r.Fail, r.State)
		}
		return ok(transform(a, r.Value), r.State)
	})
}

// AndThen lets the parser produced depend on the prior output.
func AndThen[Before, After any](p Parser[Before], transform func(Before) Parser[After]) Parser[After] {
	return Func[After](func(a *arena.Arena, s State) Result[After] {
		r := p.Parse(a, s)
		if r.Fail != nil {
			return failed[After](r.Fail, r.State)
		}
		return transform(r.Value).Parse(a, r.State)
	})
}

// Attempt runs p with Attempting set to tag.
func Attempt[T any](tag Attempting, p Parser[T]) Parser[T] {
	return Func[T](func(a *arena.Arena, s State) Result[T] {
		s.Attempting = tag
		return p.Parse(a, s)
	})
}

// Loc captures the start position before p runs and the end position
// after it succeeds, producing a Located value.
func Loc[T any](p Parser[T]) Parser[Located[T]] {
	return Func[Located[T]](func(a *arena.Arena, s State) Result[Located[T]] {
		startLine, startCol := s.Line, s.Column
		r := p.Parse(a, s)
		if r.Fail != nil {
			return failed[Located[T]](r.Fail, r.State)
		}
		region := Region{
			StartLine: startLine,
			StartCol:  startCol,
			EndLine:   r.State.Line,
			EndCol:    r.State.Column,
		}
		return ok(Located[T]{Value: r.Value, Region: region}, r.State)
	})
}

// And sequences p then q, restoring the Attempting tag that was
// current on entry if either one fails, so the error blames the outer
// production rather than an inner helper.
func And[A, B any](p Parser[A], q Parser[B]) Parser[struct {
	A A
	B B
}] {
	type pair = struct {
		A A
		B B
	}
	return Func[pair](func(a *arena.Arena, s State) Result[pair] {
		original := s.Attempting
		r1 := p.Parse(a, s)
		if r1.Fail != nil {
			return failed[pair](restoreAttempting(r1.Fail, original), r1.State)
		}
		r2 := q.Parse(a, r1.State)
		if r2.Fail != nil {
			return failed[pair](restoreAttempting(r2.Fail, original), r2.State)
		}
		return ok(pair{A: r1.Value, B: r2.Value}, r2.State)
	})
}

// SkipFirst runs p, discards its output, and returns q's.
func SkipFirst[A, B any](p Parser[A], q Parser[B]) Parser[B] {
	return Func[B](func(a *arena.Arena, s State) Result[B] {
		original := s.Attempting
		r1 := p.Parse(a, s)
		if r1.Fail != nil {
			return failed[B](restoreAttempting(r1.Fail, original), r1.State)
		}
		r2 := q.Parse(a, r1.State)
		if r2.Fail != nil {
			return failed[B](restoreAttempting(r2.Fail, original), r2.State)
		}
		return r2
	})
}

// Either tries p; on failure it re-enters q from the state p's failed
// attempt returned. Alternation restores the Attempting tag on final
// failure but does not rewind the input - a grammar that needs
// rewind-on-failure composes it explicitly.
func Either[A, B any](p Parser[A], q Parser[B]) Parser[EitherValue[A, B]] {
	return Func[EitherValue[A, B]](func(a *arena.Arena, s State) Result[EitherValue[A, B]] {
		original := s.Attempting
		r1 := p.Parse(a, s)
		if r1.Fail == nil {
			return ok(EitherValue[A, B]{IsFirst: true, First: r1.Value}, r1.State)
		}
		r2 := q.Parse(a, r1.State)
		if r2.Fail == nil {
			return ok(EitherValue[A, B]{IsFirst: false, Second: r2.Value}, r2.State)
		}
		return failed[EitherValue[A, B]](restoreAttempting(r2.Fail, original), r2.State)
	})
}

// EitherValue is the two-armed sum Either produces: IsFirst says which
// arm matched.
type EitherValue[A, B any] struct {
	IsFirst bool
	First   A
	Second  B
}

// OneOf2 through OneOf8 are fixed-arity alternation: each alternative
// re-enters from the state returned by the previous branch's failure,
// and the final failure's Attempting tag is restored to the one
// current on entry.
func OneOf2[A any](p1, p2 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2})
}

func OneOf3[A any](p1, p2, p3 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3})
}

func OneOf4[A any](p1, p2, p3, p4 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3, p4})
}

func OneOf5[A any](p1, p2, p3, p4, p5 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3, p4, p5})
}

func OneOf6[A any](p1, p2, p3, p4, p5, p6 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3, p4, p5, p6})
}

func OneOf7[A any](p1, p2, p3, p4, p5, p6, p7 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3, p4, p5, p6, p7})
}

func OneOf8[A any](p1, p2, p3, p4, p5, p6, p7, p8 Parser[A]) Parser[A] {
	return oneOf([]Parser[A]{p1, p2, p3, p4, p5, p6, p7, p8})
}

// oneOf is the shared N-ary cascade backing OneOf2..OneOf8. The
// fixed-arity entry points keep call sites monomorphic and the 2..8
// bound explicit; the cascade itself doesn't need hand-unrolling, a
// slice loop behaves identically.
func oneOf[A any](parsers []Parser[A]) Parser[A] {
	return Func[A](func(a *arena.Arena, s State) Result[A] {
		original := s.Attempting
		state := s
		var lastFail *Fail
		for i, p := range parsers {
			r := p.Parse(a, state)
			if r.Fail == nil {
				return r
			}
			lastFail = r.Fail
			state = r.State
			if i == len(parsers)-1 {
				return failed[A](restoreAttempting(lastFail, original), state)
			}
		}
		return failed[A](restoreAttempting(lastFail, original), state)
	})
}

// ZeroOrMore is greedy and never fails: on the first failed attempt it
// returns the accumulated values and the state from before that
// attempt.
func ZeroOrMore[A any](p Parser[A]) Parser[[]A] {
	return Func[[]A](func(a *arena.Arena, s State) Result[[]A] {
		buf := arena.NewSlice[A](a, 1)
		state := s
		for {
			r := p.Parse(a, state)
			if r.Fail != nil {
				return ok(append([]A{}, buf.Values()...), state)
			}
			buf.Push(r.Value)
			state = r.State
		}
	})
}

// OneOrMore requires at least one success; on zero matches it yields
// an EOF-kind Fail.
func OneOrMore[A any](p Parser[A]) Parser[[]A] {
	return Func[[]A](func(a *arena.Arena, s State) Result[[]A] {
		first := p.Parse(a, s)
		if first.Fail != nil {
			fail, state := unexpectedEOF(0, first.State)
			return failed[[]A](fail, state)
		}
		buf := arena.NewSlice[A](a, 1)
		buf.Push(first.Value)
		state := first.State
		for {
			r := p.Parse(a, state)
			if r.Fail != nil {
				return ok(append([]A{}, buf.Values()...), state)
			}
			buf.Push(r.Value)
			state = r.State
		}
	})
}

// SepBy0 parses zero or more Val separated by a discarded delimiter.
func SepBy0[Val, Delim any](delimiter Parser[Delim], p Parser[Val]) Parser[[]Val] {
	return ZeroOrMore(SkipFirst(delimiter, p))
}

// SepBy1 parses one or more Val separated by a discarded delimiter.
func SepBy1[Val, Delim any](delimiter Parser[Delim], p Parser[Val]) Parser[[]Val] {
	return OneOrMore(SkipFirst(delimiter, p))
}

// Satisfies runs p, then rejects its output with ConditionFailed
// (reported at the original state) unless predicate accepts it.
func Satisfies[A any](p Parser[A], predicate func(A) bool) Parser[A] {
	return Func[A](func(a *arena.Arena, s State) Result[A] {
		r := p.Parse(a, s)
		if r.Fail == nil && predicate(r.Value) {
			return r
		}
		return failed[A](&Fail{Attempting: s.Attempting, Reason: ConditionFailed()}, s)
	})
}

// Optional always succeeds: Some(value) on success, None (zero value)
// with the post-failure state otherwise.
func Optional[A any](p Parser[A]) Parser[Option[A]] {
	return Func[Option[A]](func(a *arena.Arena, s State) Result[Option[A]] {
		r := p.Parse(a, s)
		if r.Fail == nil {
			return ok(Option[A]{Present: true, Value: r.Value}, r.State)
		}
		return ok(Option[A]{}, r.State)
	})
}

// Option is a minimal Some/None wrapper; Go's zero value doubles as
// None when Present is false.
type Option[A any] struct {
	Present bool
	Value   A
}

func restoreAttempting(f *Fail, original Attempting) *Fail {
	return &Fail{Attempting: original, Reason: f.Reason}
}
