package parse

import "fmt"

// Attempting names the syntactic production currently being parsed,
// used only for error attribution.
type Attempting int

const (
	AttemptingNone Attempting = iota
	AttemptingKeyword
	AttemptingIdentifier
	AttemptingNumber
	AttemptingString
	AttemptingExpr
	AttemptingDef
	AttemptingWhen
	AttemptingTopLevel
)

var attemptingNames = [...]string{
	AttemptingNone:       "none",
	AttemptingKeyword:    "keyword",
	AttemptingIdentifier: "identifier",
	AttemptingNumber:     "number",
	AttemptingString:     "string",
	AttemptingExpr:       "expression",
	AttemptingDef:        "definition",
	AttemptingWhen:       "when-expression",
	AttemptingTopLevel:   "top-level declaration",
}

func (a Attempting) String() string {
	if int(a) >= 0 && int(a) < len(attemptingNames) {
		return attemptingNames[a]
	}
	return fmt.Sprintf("Attempting(%d)", int(a))
}
