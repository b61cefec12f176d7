package module

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opal-lang/wisp/types"
)

// SolvedType is a value-independent type AST: a copy of a Subs
// variable's shape that no longer needs the Subs to be interpreted,
// so another module can regenerate constraints for an imported value
// within its own Subs.
type SolvedType interface {
	isSolvedType()
}

type SolvedFlex struct {
	Name *string
}

type SolvedRigid struct {
	Name string
}

type SolvedApply struct {
	Module string
	Name   string
	Args   []SolvedType
}

type SolvedFunc struct {
	Args []SolvedType
	Ret  SolvedType
}

type SolvedRecord struct {
	Fields map[string]SolvedType
	Ext    SolvedType
}

type SolvedTagUnion struct {
	Tags map[string][]SolvedType
	Ext  SolvedType
}

type SolvedAlias struct {
	Symbol string
	Args   []SolvedType
	Real   SolvedType
}

type SolvedError struct{}

// SolvedRecursiveRef stands in for a variable that is still being
// expanded higher up the call stack when the walk reaches it again -
// how recursive types surface in the flattened, Subs-independent
// SolvedType form without expanding forever.
type SolvedRecursiveRef struct {
	Ref int // stable per-walk id, not a raw Variable (that would leak Subs-internal identity)
}

func (SolvedFlex) isSolvedType()         {}
func (SolvedRigid) isSolvedType()        {}
func (SolvedApply) isSolvedType()        {}
func (SolvedFunc) isSolvedType()         {}
func (SolvedRecord) isSolvedType()       {}
func (SolvedTagUnion) isSolvedType()     {}
func (SolvedAlias) isSolvedType()        {}
func (SolvedError) isSolvedType()        {}
func (SolvedRecursiveRef) isSolvedType() {}

// newSolvedType walks subs starting at v, producing a SolvedType. inFlight
// tracks variables currently being expanded on this call stack (their
// position becomes a SolvedRecursiveRef if reached again before
// finishing), and ids assigns each first-seen variable a stable small
// integer so two recursive refs to the same variable compare equal.
func newSolvedType(subs *types.Subs, v types.Variable, inFlight map[types.Variable]int, ids *int) SolvedType {
	root := subs.Root(v)
	if id, ok := inFlight[root]; ok {
		return SolvedRecursiveRef{Ref: id}
	}

	id := *ids
	*ids++
	inFlight[root] = id
	defer delete(inFlight, root)

	switch c := subs.GetWithoutCompacting(root).(type) {
	case types.FlexVar:
		return SolvedFlex{Name: c.Name}
	case types.RigidVar:
		return SolvedRigid{Name: c.Name}
	case types.ErrorContent:
		return SolvedError{}
	case types.Alias:
		args := make([]SolvedType, len(c.Args))
		for i, a := range c.Args {
			args[i] = newSolvedType(subs, a, inFlight, ids)
		}
		return SolvedAlias{
			Symbol: c.Symbol,
			Args:   args,
			Real:   newSolvedType(subs, c.Real, inFlight, ids),
		}
	case types.Structure:
		return newSolvedFlat(subs, c.Flat, inFlight, ids)
	default:
		return SolvedError{}
	}
}

// solvedTypeString renders t as a deterministic, whitespace-insensitive
// string: the textual form module.Fingerprint hashes. Map iteration
// order is sorted explicitly so two structurally identical
// SolvedRecord/SolvedTagUnion values always render the same string
// regardless of the source map's internal ordering.
func solvedTypeString(t SolvedType) string {
	switch v := t.(type) {
	case SolvedFlex:
		if v.Name != nil {
			return "flex:" + *v.Name
		}
		return "flex"
	case SolvedRigid:
		return "rigid:" + v.Name
	case SolvedApply:
		return fmt.Sprintf("apply:%s.%s(%s)", v.Module, v.Name, solvedTypeList(v.Args))
	case SolvedFunc:
		return fmt.Sprintf("func(%s)->%s", solvedTypeList(v.Args), solvedTypeString(v.Ret))
	case SolvedRecord:
		return fmt.Sprintf("record{%s}ext:%s", solvedFieldMap(v.Fields), solvedTypeString(v.Ext))
	case SolvedTagUnion:
		return fmt.Sprintf("tagunion{%s}ext:%s", solvedTagMap(v.Tags), solvedTypeString(v.Ext))
	case SolvedAlias:
		return fmt.Sprintf("alias:%s(%s)=%s", v.Symbol, solvedTypeList(v.Args), solvedTypeString(v.Real))
	case SolvedError:
		return "error"
	case SolvedRecursiveRef:
		return fmt.Sprintf("rec:%d", v.Ref)
	default:
		return "error"
	}
}

func solvedTypeList(ts []SolvedType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = solvedTypeString(t)
	}
	return strings.Join(parts, ",")
}

func solvedFieldMap(fields map[string]SolvedType) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + solvedTypeString(fields[name])
	}
	return strings.Join(parts, ",")
}

func solvedTagMap(tags map[string][]SolvedType) string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + solvedTypeList(tags[name])
	}
	return strings.Join(parts, ",")
}

func newSolvedFlat(subs *types.Subs, flat types.FlatType, inFlight map[types.Variable]int, ids *int) SolvedType {
	switch f := flat.(type) {
	case types.Apply:
		args := make([]SolvedType, len(f.Args))
		for i, a := range f.Args {
			args[i] = newSolvedType(subs, a, inFlight, ids)
		}
		return SolvedApply{Module: f.Module, Name: f.Name, Args: args}
	case types.Func:
		args := make([]SolvedType, len(f.Args))
		for i, a := range f.Args {
			args[i] = newSolvedType(subs, a, inFlight, ids)
		}
		return SolvedFunc{Args: args, Ret: newSolvedType(subs, f.Ret, inFlight, ids)}
	case types.Record:
		fields := make(map[string]SolvedType, len(f.Fields))
		for name, fv := range f.Fields {
			fields[name] = newSolvedType(subs, fv, inFlight, ids)
		}
		return SolvedRecord{Fields: fields, Ext: newSolvedType(subs, f.Ext, inFlight, ids)}
	case types.TagUnion:
		tags := make(map[string][]SolvedType, len(f.Tags))
		for name, vs := range f.Tags {
			args := make([]SolvedType, len(vs))
			for i, a := range vs {
				args[i] = newSolvedType(subs, a, inFlight, ids)
			}
			tags[name] = args
		}
		return SolvedTagUnion{Tags: tags, Ext: newSolvedType(subs, f.Ext, inFlight, ids)}
	default:
		return SolvedError{}
	}
}
