package main

// grammar.go supplies the surface grammar: the core parse package
// only supplies combinators, not a wisp syntax. wispc defines a
// minimal one - a module is a sequence of `name = value` defs, one
// per line, where value is an integer literal or a reference to an
// earlier name - just enough to drive the parse -> solve -> emit
// pipeline end to end.

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/opal-lang/wisp/arena"
	"github.com/opal-lang/wisp/ast"
	"github.com/opal-lang/wisp/config"
	"github.com/opal-lang/wisp/parse"
)

// satisfyRune is the single-character predicate primitive the core
// combinators don't provide; it is built entirely on State's exported
// transitions, the same way Char/String are internally, so it behaves
// identically under poisoning and attempting restoration.
func satisfyRune(pred func(rune) bool) parse.Parser[rune] {
	return parse.Func[rune](func(_ *arena.Arena, s parse.State) parse.Result[rune] {
		if s.Poisoned() {
			return parse.Result[rune]{Fail: &parse.Fail{Attempting: s.Attempting, Reason: parse.LineTooLong(s.Line)}, State: s}
		}
		r, size := utf8.DecodeRuneInString(s.Input)
		if size == 0 {
			region := parse.Region{StartLine: s.Line, StartCol: s.Column, EndLine: s.Line, EndCol: s.Column}
			return parse.Result[rune]{Fail: &parse.Fail{Attempting: s.Attempting, Reason: parse.EOF(region)}, State: s}
		}
		if !pred(r) {
			region := parse.Region{StartLine: s.Line, StartCol: s.Column, EndLine: s.Line, EndCol: s.Column + 1}
			return parse.Result[rune]{Fail: &parse.Fail{Attempting: s.Attempting, Reason: parse.Unexpected(r, region)}, State: s}
		}
		next, fail := s.AdvanceWithoutIndenting(size)
		if fail != nil {
			return parse.Result[rune]{Fail: fail, State: next}
		}
		return parse.Result[rune]{Value: r, State: next}
	})
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isAlnum(r rune) bool { return isDigit(r) || isLower(r) }
func isSpace(r rune) bool { return r == ' ' }

func spaces() parse.Parser[[]rune] {
	return parse.ZeroOrMore(satisfyRune(isSpace))
}

func skipSpaces[A any](p parse.Parser[A]) parse.Parser[A] {
	return parse.SkipFirst(spaces(), p)
}

// identifier matches one lowercase letter followed by zero or more
// lowercase letters/digits - no regex, no lexer, just combinators.
func identifier() parse.Parser[string] {
	return parse.Map(
		parse.And(satisfyRune(isLower), parse.ZeroOrMore(satisfyRune(isAlnum))),
		func(pair struct {
			A rune
			B []rune
		}) string {
			return string(pair.A) + string(pair.B)
		},
	)
}

// intLiteral matches one or more digits and parses them as a base-10
// int64.
func intLiteral() parse.Parser[int64] {
	return parse.AndThen(parse.OneOrMore(satisfyRune(isDigit)), func(digits []rune) parse.Parser[int64] {
		n, err := strconv.ParseInt(string(digits), 10, 64)
		if err != nil {
			return parse.Func[int64](func(_ *arena.Arena, s parse.State) parse.Result[int64] {
				return parse.Result[int64]{Fail: &parse.Fail{Attempting: s.Attempting, Reason: parse.ConditionFailed()}, State: s}
			})
		}
		return parse.Val(n)
	})
}

func bodyExpr() parse.Parser[ast.ParsedExpr] {
	asInt := parse.Map(intLiteral(), func(n int64) ast.ParsedExpr {
		return ast.ParsedExpr{Kind: ast.ParsedInt, IntValue: n}
	})
	asIdent := parse.Map(identifier(), func(name string) ast.ParsedExpr {
		return ast.ParsedExpr{Kind: ast.ParsedIdent, Name: name}
	})
	return parse.OneOf2(asInt, asIdent)
}

// defParser matches `name = value`, restoring AttemptingDef on failure
// via the AndThen chain's Attempt wrapper.
func defParser() parse.Parser[ast.Def] {
	return parse.Attempt(parse.AttemptingDef, parse.AndThen(identifier(), func(name string) parse.Parser[ast.Def] {
		return parse.AndThen(skipSpaces(parse.Char('=')), func(_ struct{}) parse.Parser[ast.Def] {
			return parse.Map(skipSpaces(bodyExpr()), func(body ast.ParsedExpr) ast.Def {
				return ast.Def{Name: name, Body: body}
			})
		})
	}))
}

// newline matches the line terminator separating defs. Trailing
// spaces before it are tolerated via skipSpaces at the call site.
func newline() parse.Parser[struct{}] {
	return parse.Map(satisfyRune(func(r rune) bool { return r == '\n' }), func(rune) struct{} { return struct{}{} })
}

// moduleParser is the root production: one def, then zero or more
// further defs each preceded by a newline, wrapped in Loc so the
// whole module carries a Region.
func moduleParser() parse.Parser[parse.Located[ast.TopLevel]] {
	return parse.Loc(parse.Attempt(parse.AttemptingTopLevel, parse.AndThen(skipSpaces(defParser()), func(first ast.Def) parse.Parser[ast.TopLevel] {
		return parse.Map(parse.ZeroOrMore(skipSpaces(parse.SkipFirst(newline(), skipSpaces(defParser())))), func(rest []ast.Def) ast.TopLevel {
			defs := append([]ast.Def{first}, rest...)
			return ast.TopLevel{Defs: defs}
		})
	})))
}

// ParseModule runs moduleParser over input, the parse entry point
// specialized to wispc's one grammar. cfg.MaxLineLength is enforced
// here, at the grammar layer: the core State only poisons at its
// structural 65535 sentinel, so a lower configured limit (embedding
// contexts) has to be checked before the combinators run. Input left
// after the last def that parses, other than trailing spaces and
// newlines, is reported as an Unexpected failure at the point where
// parsing stopped.
func ParseModule(cfg *config.BuildConfig, input string) (parse.Located[ast.TopLevel], *parse.Fail) {
	if fail := checkLineLengths(cfg.MaxLineLength, input); fail != nil {
		return parse.Located[ast.TopLevel]{}, fail
	}
	a := arena.New()
	state := parse.NewState(input, parse.AttemptingTopLevel)
	result := moduleParser().Parse(a, state)
	if result.Fail != nil {
		return parse.Located[ast.TopLevel]{}, result.Fail
	}
	if rest := strings.TrimRight(result.State.Input, " \n"); rest != "" {
		s := result.State
		r, _ := utf8.DecodeRuneInString(rest)
		region := parse.Region{StartLine: s.Line, StartCol: s.Column, EndLine: s.Line, EndCol: s.Column}
		return parse.Located[ast.TopLevel]{}, &parse.Fail{Attempting: parse.AttemptingTopLevel, Reason: parse.Unexpected(r, region)}
	}
	return result.Value, nil
}

// checkLineLengths reports the first line of input longer than max
// bytes as a LineTooLong failure, mirroring the shape the combinators
// themselves produce at the structural bound so callers handle both
// identically.
func checkLineLengths(max int, input string) *parse.Fail {
	for i, line := range strings.Split(input, "\n") {
		if len(line) > max {
			return &parse.Fail{
				Attempting: parse.AttemptingTopLevel,
				Reason:     parse.LineTooLong(uint32(i)),
			}
		}
	}
	return nil
}
