// Package symbol holds the value types shared by the parser, type
// store, and code emitter without pulling either of those packages in:
// Symbol identifies a named thing across module boundaries, Region
// locates a span of source that produced it.
package symbol

import "fmt"

// Symbol names something canonicalization produced: a binding, an
// alias, an exposed value. Canonicalization itself is an external
// collaborator; Symbol is the contract shape it hands back to us.
type Symbol struct {
	Module string // dotted module path, e.g. "Num", "MyApp.Util"
	Name   string
}

func (s Symbol) String() string {
	if s.Module == "" {
		return s.Name
	}
	return fmt.Sprintf("%s.%s", s.Module, s.Name)
}

// Region is a half-open span between two positions, both 0-based lines
// and the 1-based-conceptually column the parser tracks internally.
type Region struct {
	StartLine, EndLine uint32
	StartCol, EndCol   uint16
}

func (r Region) String() string {
	if r.StartLine == r.EndLine {
		return fmt.Sprintf("%d:%d-%d", r.StartLine, r.StartCol, r.EndCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", r.StartLine, r.StartCol, r.EndLine, r.EndCol)
}
