package types

import "golang.org/x/mod/module"

// FlatType is the structural component of a Structure Content. Apply
// covers applied type constructors such as Num.Num, Str.Str,
// List.List a; Func, Record and TagUnion cover the remaining shapes
// the solver and emitter need to reason about.
type FlatType interface {
	isFlatType()
}

// Apply is a type constructor applied to an ordered sequence of type
// arguments, e.g. Apply{Module: "Num", Name: "Num", Args: [inner]}.
type Apply struct {
	Module string
	Name   string
	Args   []Variable
}

// Func is a function type from Args to Ret.
type Func struct {
	Args []Variable
	Ret  Variable
}

// Record is a structural record type; Fields maps field name to its
// variable.
type Record struct {
	Fields map[string]Variable
	Ext    Variable // extension variable for open records
}

// TagUnion is a structural tag union; Tags maps a tag name to its
// ordered payload variables.
type TagUnion struct {
	Tags map[string][]Variable
	Ext  Variable
}

func (Apply) isFlatType()    {}
func (Func) isFlatType()     {}
func (Record) isFlatType()   {}
func (TagUnion) isFlatType() {}

// ValidateModulePath checks that path is syntactically valid as a
// module-qualified type origin (e.g. the Apply.Module a cross-module
// import populates). The empty path always validates: it denotes a
// type local to the current module, which carries no qualification to
// check.
func ValidateModulePath(path string) error {
	if path == "" {
		return nil
	}
	return module.CheckImportPath(path)
}

// Well-known module/name pairs the emitter's numeric dispatch
// recognizes.
const (
	ModNum            = "Num"
	TypeNum           = "Num"
	ModFloat          = "Float"
	TypeFloatingPoint = "FloatingPoint"
	ModInt            = "Int"
	TypeInteger       = "Integer"
)
