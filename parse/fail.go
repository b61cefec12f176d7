package parse

import (
	"fmt"

	"github.com/opal-lang/wisp/symbol"
)

// Region re-exports symbol.Region: Located fragments in this package
// and Symbol references in the type store both need the same span
// type, so it lives in symbol and gets aliased in here.
type Region = symbol.Region

// ReasonKind discriminates the FailReason variants.
type ReasonKind int

const (
	ReasonUnexpected ReasonKind = iota
	ReasonConditionFailed
	ReasonLineTooLong
	ReasonTooManyLines
	ReasonEOF
)

// FailReason is the sum-typed payload of a Fail. Go has no enum-with-
// payload, so the variants that carry data (Unexpected, LineTooLong,
// Eof) populate the matching fields and leave the rest zero; Kind
// says which fields are meaningful.
type FailReason struct {
	Kind ReasonKind

	Char   rune   // ReasonUnexpected
	Region Region // ReasonUnexpected, ReasonEOF

	Line uint32 // ReasonLineTooLong
}

func (r FailReason) String() string {
	switch r.Kind {
	case ReasonUnexpected:
		return fmt.Sprintf("unexpected %q at %s", r.Char, r.Region)
	case ReasonConditionFailed:
		return "condition failed"
	case ReasonLineTooLong:
		return fmt.Sprintf("line %d too long", r.Line)
	case ReasonTooManyLines:
		return "too many lines"
	case ReasonEOF:
		return fmt.Sprintf("unexpected end of input at %s", r.Region)
	default:
		return "unknown parse failure"
	}
}

// Unexpected builds a ReasonUnexpected FailReason.
func Unexpected(ch rune, region Region) FailReason {
	return FailReason{Kind: ReasonUnexpected, Char: ch, Region: region}
}

// ConditionFailed builds a ReasonConditionFailed FailReason.
func ConditionFailed() FailReason {
	return FailReason{Kind: ReasonConditionFailed}
}

// LineTooLong builds a ReasonLineTooLong FailReason naming the
// offending line.
func LineTooLong(line uint32) FailReason {
	return FailReason{Kind: ReasonLineTooLong, Line: line}
}

// TooManyLines builds a ReasonTooManyLines FailReason.
func TooManyLines() FailReason {
	return FailReason{Kind: ReasonTooManyLines}
}

// EOF builds a ReasonEOF FailReason.
func EOF(region Region) FailReason {
	return FailReason{Kind: ReasonEOF, Region: region}
}

// Fail is the value every parser failure flows through - there is no
// control-flow unwinding in this engine.
type Fail struct {
	Attempting Attempting
	Reason     FailReason
}

func (f *Fail) Error() string {
	return fmt.Sprintf("while parsing %s: %s", f.Attempting, f.Reason)
}

// checkedUnexpected computes an end column for a failure that consumed
// charsConsumed characters without overflowing maxColumn; if it would
// overflow, it poisons instead. Single shared path both unexpectedChar
// and unexpectedEOF funnel through, so the overflow check can't drift
// between them.
func checkedUnexpected(s State, charsConsumed int, build func(Region) FailReason) (*Fail, State) {
	endCol := int(s.Column) + charsConsumed
	if endCol >= maxColumn {
		poisoned, fail := linesTooLong(s)
		return fail, poisoned
	}
	region := Region{
		StartLine: s.Line,
		StartCol:  s.Column,
		EndLine:   s.Line,
		EndCol:    uint16(endCol),
	}
	return &Fail{Attempting: s.Attempting, Reason: build(region)}, s
}

func unexpectedChar(ch rune, charsConsumed int, s State) (*Fail, State) {
	return checkedUnexpected(s, charsConsumed, func(r Region) FailReason { return Unexpected(ch, r) })
}

func unexpectedEOF(charsConsumed int, s State) (*Fail, State) {
	return checkedUnexpected(s, charsConsumed, func(r Region) FailReason { return EOF(r) })
}
