package parse_test

import (
	"strconv"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/opal-lang/wisp/arena"
	"github.com/opal-lang/wisp/parse"
)

// anyRune consumes exactly one rune, whatever it is, built directly on
// State's exported advance API the same way Char is - used here to
// compose digit() via Satisfies without adding a new primitive to the
// package under test.
func anyRune() parse.Parser[rune] {
	return parse.Func[rune](func(a *arena.Arena, s parse.State) parse.Result[rune] {
		if len(s.Input) == 0 {
			// reuse Char's own EOF reporting rather than duplicating it
			zero := parse.Char(rune(0)).Parse(a, s)
			return parse.Result[rune]{Fail: zero.Fail, State: zero.State}
		}
		r, size := utf8.DecodeRuneInString(s.Input)
		next, fail := s.AdvanceWithoutIndenting(size)
		if fail != nil {
			return parse.Result[rune]{Fail: fail, State: next}
		}
		return parse.Result[rune]{Value: r, State: next}
	})
}

func digit() parse.Parser[rune] {
	return parse.Satisfies(anyRune(), func(r rune) bool { return r >= '0' && r <= '9' })
}

// "42" parsed as an integer literal (OneOrMore(digit) then strconv)
// ends at line 0, column 2, no longer indenting.
func TestIntLiteralAdvancesColumn(t *testing.T) {
	a := arena.New()
	s := parse.NewState("42", parse.AttemptingNumber)

	intLit := parse.Map(parse.OneOrMore(digit()), func(digits []rune) int {
		n, err := strconv.Atoi(string(digits))
		if err != nil {
			panic(err)
		}
		return n
	})

	r := intLit.Parse(a, s)
	require.Nil(t, r.Fail)
	require.Equal(t, 42, r.Value)
	require.Equal(t, uint32(0), r.State.Line)
	require.Equal(t, uint16(2), r.State.Column)
	require.False(t, r.State.IsIndenting)
}

// ZeroOrMore(Char(' ')) then Char('x') on "   x" consumes all three
// spaces before matching 'x'.
func TestSkipSpacesThenChar(t *testing.T) {
	a := arena.New()
	s := parse.NewState("   x", parse.AttemptingNone)

	p := parse.SkipFirst(parse.ZeroOrMore(parse.Char(' ')), parse.Char('x'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Equal(t, uint16(4), r.State.Column)
	require.Equal(t, "", r.State.Input)
}

// Three spaces advanced with AdvanceSpaces move the indent column
// along while still indenting, and the 'x' after them pins it:
// AdvanceSpaces preserves IsIndenting, AdvanceWithoutIndenting clears
// it.
func TestAdvanceSpacesTracksIndent(t *testing.T) {
	s := parse.NewState("   x", parse.AttemptingNone)

	afterSpaces, fail := s.AdvanceSpaces(3)
	require.Nil(t, fail)
	require.Equal(t, uint16(3), afterSpaces.Column)
	require.Equal(t, uint16(4), afterSpaces.IndentCol)
	require.True(t, afterSpaces.IsIndenting)

	r := parse.Char('x').Parse(arena.New(), afterSpaces)
	require.Nil(t, r.Fail)
	require.Equal(t, uint16(4), r.State.Column)
	require.Equal(t, uint16(4), r.State.IndentCol)
	require.False(t, r.State.IsIndenting)
}

// Advancing exactly to the column sentinel (65535) succeeds but
// leaves the state Poisoned(); every combinator entered afterward must
// then fail immediately with LineTooLong rather than attempting to
// parse.
func TestLineTooLongPoisons(t *testing.T) {
	oneBeforeLimit := parse.State{
		Input:       "xy",
		Line:        3,
		Column:      65534,
		IndentCol:   1,
		IsIndenting: false,
		Attempting:  parse.AttemptingExpr,
	}

	a := arena.New()
	r := parse.Char('x').Parse(a, oneBeforeLimit)
	require.Nil(t, r.Fail)
	require.True(t, r.State.Poisoned())

	// Once poisoned, the next parser must fail immediately rather than
	// re-deriving the overflow from scratch.
	r2 := parse.Char('y').Parse(a, r.State)
	require.NotNil(t, r2.Fail)
	require.Equal(t, parse.ReasonLineTooLong, r2.Fail.Reason.Kind)
}

// Char succeeds only on an exact rune match and advances by exactly
// one rune.
func TestCharMatchesExactRune(t *testing.T) {
	a := arena.New()
	s := parse.NewState("ab", parse.AttemptingNone)

	ok := parse.Char('a').Parse(a, s)
	require.Nil(t, ok.Fail)
	require.Equal(t, "b", ok.State.Input)

	bad := parse.Char('z').Parse(a, s)
	require.NotNil(t, bad.Fail)
	require.Equal(t, parse.ReasonUnexpected, bad.Fail.Reason.Kind)
}

// And restores the entry Attempting tag on either side's failure
// rather than leaking the tag failure happened under.
func TestAndRestoresAttemptingOnFailure(t *testing.T) {
	a := arena.New()
	s := parse.NewState("a", parse.AttemptingDef)

	inner := parse.Attempt(parse.AttemptingIdentifier, parse.Char('z'))
	p := parse.And(parse.Char('a'), inner)

	r := p.Parse(a, s)
	require.NotNil(t, r.Fail)
	require.Equal(t, parse.AttemptingDef, r.Fail.Attempting)
}

// Either re-enters its second branch from the state the first
// branch's failure returned, and restores the entry tag if both fail.
func TestEitherTriesSecondFromFailureState(t *testing.T) {
	a := arena.New()
	s := parse.NewState("b", parse.AttemptingExpr)

	asRune := func(c rune) parse.Parser[rune] { return parse.Map(parse.Char(c), func(struct{}) rune { return c }) }
	p := parse.Either(asRune('a'), asRune('b'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.False(t, r.Value.IsFirst)
	require.Equal(t, 'b', r.Value.Second)
}

func TestEitherRestoresAttemptingWhenBothFail(t *testing.T) {
	a := arena.New()
	s := parse.NewState("c", parse.AttemptingExpr)

	p := parse.Either(
		parse.Attempt(parse.AttemptingIdentifier, parse.Char('a')),
		parse.Attempt(parse.AttemptingKeyword, parse.Char('b')),
	)
	r := p.Parse(a, s)

	require.NotNil(t, r.Fail)
	require.Equal(t, parse.AttemptingExpr, r.Fail.Attempting)
}

// OneOf cascades through every alternative in order, and on total
// failure still restores the entry tag (mirrors Either's contract at
// higher arity).
func TestOneOf3TriesEachAlternativeInOrder(t *testing.T) {
	a := arena.New()
	s := parse.NewState("c", parse.AttemptingNone)

	p := parse.OneOf3(parse.Char('a'), parse.Char('b'), parse.Char('c'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
}

func TestOneOf3RestoresAttemptingOnTotalFailure(t *testing.T) {
	a := arena.New()
	s := parse.NewState("z", parse.AttemptingTopLevel)

	p := parse.OneOf3(
		parse.Attempt(parse.AttemptingIdentifier, parse.Char('a')),
		parse.Attempt(parse.AttemptingKeyword, parse.Char('b')),
		parse.Attempt(parse.AttemptingNumber, parse.Char('c')),
	)
	r := p.Parse(a, s)

	require.NotNil(t, r.Fail)
	require.Equal(t, parse.AttemptingTopLevel, r.Fail.Attempting)
}

// ZeroOrMore never fails and returns to the state before its failing
// attempt.
func TestZeroOrMoreNeverFails(t *testing.T) {
	a := arena.New()
	s := parse.NewState("xyz", parse.AttemptingNone)

	p := parse.ZeroOrMore(parse.Char('a'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Empty(t, r.Value)
	require.Equal(t, "xyz", r.State.Input)
}

func TestZeroOrMoreCollectsAllMatches(t *testing.T) {
	a := arena.New()
	s := parse.NewState("aaab", parse.AttemptingNone)

	p := parse.ZeroOrMore(parse.Char('a'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Len(t, r.Value, 3)
	require.Equal(t, "b", r.State.Input)
}

// OneOrMore fails with an EOF-kind reason on zero matches.
func TestOneOrMoreFailsOnZeroMatches(t *testing.T) {
	a := arena.New()
	s := parse.NewState("xyz", parse.AttemptingNone)

	p := parse.OneOrMore(parse.Char('a'))
	r := p.Parse(a, s)

	require.NotNil(t, r.Fail)
	require.Equal(t, parse.ReasonEOF, r.Fail.Reason.Kind)
}

func TestOneOrMoreSucceedsOnAtLeastOneMatch(t *testing.T) {
	a := arena.New()
	s := parse.NewState("aab", parse.AttemptingNone)

	p := parse.OneOrMore(parse.Char('a'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Len(t, r.Value, 2)
}

// SepBy0/SepBy1 thread a discarded delimiter between values.
func TestSepBy0CollectsDelimitedValues(t *testing.T) {
	a := arena.New()
	s := parse.NewState("a,a,a", parse.AttemptingNone)

	p := parse.And(parse.Char('a'), parse.SepBy0(parse.Char(','), parse.Char('a')))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Len(t, r.Value.B, 2)
	require.Equal(t, "", r.State.Input)
}

// Satisfies rejects an otherwise-successful parse whose value fails
// the predicate, reporting the failure at the original state.
func TestSatisfiesRejectsFailingPredicate(t *testing.T) {
	a := arena.New()
	s := parse.NewState("a", parse.AttemptingNone)

	p := parse.Satisfies(anyRune(), func(r rune) bool { return r == 'b' })
	r := p.Parse(a, s)

	require.NotNil(t, r.Fail)
	require.Equal(t, parse.ReasonConditionFailed, r.Fail.Reason.Kind)
	require.Equal(t, "a", r.State.Input)
}

// Optional always succeeds.
func TestOptionalSucceedsEvenOnFailure(t *testing.T) {
	a := arena.New()
	s := parse.NewState("b", parse.AttemptingNone)

	p := parse.Optional(parse.Char('a'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.False(t, r.Value.Present)
	require.Equal(t, "b", r.State.Input)
}

func TestOptionalCarriesValueOnSuccess(t *testing.T) {
	a := arena.New()
	s := parse.NewState("a", parse.AttemptingNone)

	p := parse.Optional(parse.Char('a'))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.True(t, r.Value.Present)
}

// Loc captures the region spanned by a successful parse.
func TestLocCapturesSpan(t *testing.T) {
	a := arena.New()
	s := parse.NewState("ab", parse.AttemptingNone)

	p := parse.Loc(parse.And(parse.Char('a'), parse.Char('b')))
	r := p.Parse(a, s)

	require.Nil(t, r.Fail)
	require.Equal(t, uint16(0), r.Value.Region.StartCol)
	require.Equal(t, uint16(2), r.Value.Region.EndCol)
}

func TestNewlineResetsColumnAndIndent(t *testing.T) {
	s := parse.NewState("a\nb", parse.AttemptingNone)
	after, fail := parse.Char('a').Parse(arena.New(), s).State.Newline()
	require.Nil(t, fail)
	require.Equal(t, uint32(1), after.Line)
	require.Equal(t, uint16(0), after.Column)
	require.True(t, after.IsIndenting)
}
