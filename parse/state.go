package parse

// maxColumn is the largest column a line may reach. Once column has
// been driven here the state is permanently poisoned: every later
// combinator fails immediately, so a single LineTooLong error survives
// any depth of alternation instead of being masked by a
// better-looking alternative.
const maxColumn = 65535

// State is the immutable snapshot of parse position: remaining input,
// line/column, the current block's indent column, whether we're still
// inside leading whitespace on this line, and the production currently
// being attempted. Cheap to copy by value (one string header plus five
// small fields) - combinators pass it around by value on purpose,
// never by pointer, so that backtracking across alternation can never
// see a mutation made by a sibling branch.
type State struct {
	Input string

	Line   uint32
	Column uint16

	IndentCol uint16

	IsIndenting bool

	Attempting Attempting
}

// NewState builds the initial state for a fresh parse: line 0, column
// 0, indent column 1 (so "no indent" costs no subtraction elsewhere),
// indenting until the first non-space character is seen.
func NewState(input string, attempting Attempting) State {
	return State{
		Input:       input,
		Line:        0,
		Column:      0,
		IndentCol:   1,
		IsIndenting: true,
		Attempting:  attempting,
	}
}

// Poisoned reports whether s is the sticky line-too-long state: once
// column has been driven to maxColumn, every subsequent combinator
// must fail immediately.
func (s State) Poisoned() bool {
	return s.Column == maxColumn
}

// AdvanceWithoutIndenting adds n to column and unconditionally clears
// IsIndenting - used by char/string matches, which are never part of
// leading whitespace.
func (s State) AdvanceWithoutIndenting(n int) (State, *Fail) {
	if s.Poisoned() {
		return s, poison(s, LineTooLong(s.Line))
	}
	next := s.Column + uint16(n)
	if int(s.Column)+n > maxColumn {
		return linesTooLong(s)
	}
	return State{
		Input:       advanceBytes(s.Input, n),
		Line:        s.Line,
		Column:      next,
		IndentCol:   s.IndentCol,
		IsIndenting: false,
		Attempting:  s.Attempting,
	}, nil
}

// AdvanceSpaces adds n to column and, while IsIndenting, to IndentCol
// as well; IsIndenting itself is preserved.
func (s State) AdvanceSpaces(n int) (State, *Fail) {
	if s.Poisoned() {
		return s, poison(s, LineTooLong(s.Line))
	}
	if int(s.Column)+n > maxColumn {
		return linesTooLong(s)
	}
	column := s.Column + uint16(n)
	indentCol := s.IndentCol
	if s.IsIndenting {
		indentCol = s.IndentCol + uint16(n)
	}
	return State{
		Input:       advanceBytes(s.Input, n),
		Line:        s.Line,
		Column:      column,
		IndentCol:   indentCol,
		IsIndenting: s.IsIndenting,
		Attempting:  s.Attempting,
	}, nil
}

// Newline increments the line counter, resets column to 0, indent
// column to 1, and IsIndenting to true, then advances input by one
// byte to consume the '\n'. Fails with TooManyLines on 32-bit
// overflow.
func (s State) Newline() (State, *Fail) {
	if s.Line == ^uint32(0) {
		return s, &Fail{Attempting: s.Attempting, Reason: FailReason{Kind: ReasonTooManyLines}}
	}
	return State{
		Input:       advanceBytes(s.Input, 1),
		Line:        s.Line + 1,
		Column:      0,
		IndentCol:   1,
		IsIndenting: true,
		Attempting:  s.Attempting,
	}, nil
}

func advanceBytes(input string, n int) string {
	if n >= len(input) {
		return ""
	}
	return input[n:]
}

// linesTooLong poisons state: sets column to the maxColumn sentinel so
// that every combinator entered afterward sees an immediate failure
// (checked by Poisoned), regardless of how deeply nested in
// alternation it is.
func linesTooLong(s State) (State, *Fail) {
	poisoned := State{
		Input:       s.Input,
		Line:        s.Line,
		Column:      maxColumn,
		IndentCol:   s.IndentCol,
		IsIndenting: s.IsIndenting,
		Attempting:  s.Attempting,
	}
	return poisoned, &Fail{Attempting: s.Attempting, Reason: LineTooLong(s.Line)}
}

func poison(s State, reason FailReason) *Fail {
	return &Fail{Attempting: s.Attempting, Reason: reason}
}
