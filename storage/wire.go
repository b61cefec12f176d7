package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/opal-lang/wisp/types"
)

// wireContent is the flattened, cbor-friendly stand-in for
// types.Content/types.FlatType: both are Go interfaces, which cbor
// cannot marshal directly, so every variant's fields get folded into
// one struct discriminated by Kind.
type wireContent struct {
	Kind string `cbor:"kind"`

	VarName *string `cbor:"name,omitempty"` // FlexVar.Name, RigidVar.Name

	Module   string  `cbor:"module,omitempty"`   // Apply.Module
	TypeName string  `cbor:"typename,omitempty"` // Apply.Name
	Args     []int32 `cbor:"args,omitempty"`     // Apply.Args, Func.Args, Alias.Args

	Ret int32 `cbor:"ret,omitempty"` // Func.Ret, Alias.Real

	Fields map[string]int32   `cbor:"fields,omitempty"` // Record.Fields
	Tags   map[string][]int32 `cbor:"tags,omitempty"`   // TagUnion.Tags
	Ext    int32              `cbor:"ext,omitempty"`    // Record.Ext, TagUnion.Ext

	Symbol string `cbor:"symbol,omitempty"` // Alias.Symbol
}

const (
	kindFlexVar  = "flex"
	kindRigidVar = "rigid"
	kindError    = "error"
	kindApply    = "apply"
	kindFunc     = "func"
	kindRecord   = "record"
	kindTagUnion = "tagunion"
	kindAlias    = "alias"
)

// wireSnapshot is the on-wire form of an entire StorageSubs: one
// wireContent per variable index, so decoding can rebuild a Subs with
// matching variable handles (every StorageSubs variable is its own
// union-find root by construction, see types.Subs.ContentAt).
type wireSnapshot struct {
	Contents []wireContent `cbor:"contents"`
}

// EncodeStorage serializes st to cbor bytes, so a host tool outside
// this module can ferry a snapshot across a process boundary without
// re-deriving the sharing-preserving copy ImportVariableFrom already
// did once.
func (st *StorageSubs) EncodeStorage() ([]byte, error) {
	n := st.subs.Len()
	snapshot := wireSnapshot{Contents: make([]wireContent, n)}
	for i := 0; i < n; i++ {
		v := types.Variable(i)
		snapshot.Contents[i] = toWire(st.subs.ContentAt(v))
	}
	return cbor.Marshal(snapshot)
}

// DecodeStorage rebuilds a StorageSubs from bytes produced by
// EncodeStorage.
func DecodeStorage(data []byte) (*StorageSubs, error) {
	var snapshot wireSnapshot
	if err := cbor.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("storage: decode: %w", err)
	}

	subs := types.NewSubs()
	for range snapshot.Contents {
		subs.Fresh(types.ErrorContent{})
	}
	for i, wc := range snapshot.Contents {
		subs.SetContent(types.Variable(i), fromWire(wc))
	}
	return New(subs), nil
}

func toWire(c types.Content) wireContent {
	switch v := c.(type) {
	case types.FlexVar:
		return wireContent{Kind: kindFlexVar, VarName: v.Name}
	case types.RigidVar:
		return wireContent{Kind: kindRigidVar, VarName: &v.Name}
	case types.ErrorContent:
		return wireContent{Kind: kindError}
	case types.Alias:
		return wireContent{
			Kind:   kindAlias,
			Symbol: v.Symbol,
			Args:   varsToInts(v.Args),
			Ret:    int32(v.Real),
		}
	case types.Structure:
		return toWireFlat(v.Flat)
	default:
		return wireContent{Kind: kindError}
	}
}

func toWireFlat(f types.FlatType) wireContent {
	switch v := f.(type) {
	case types.Apply:
		return wireContent{Kind: kindApply, Module: v.Module, TypeName: v.Name, Args: varsToInts(v.Args)}
	case types.Func:
		return wireContent{Kind: kindFunc, Args: varsToInts(v.Args), Ret: int32(v.Ret)}
	case types.Record:
		return wireContent{Kind: kindRecord, Fields: fieldsToInts(v.Fields), Ext: int32(v.Ext)}
	case types.TagUnion:
		return wireContent{Kind: kindTagUnion, Tags: tagsToInts(v.Tags), Ext: int32(v.Ext)}
	default:
		return wireContent{Kind: kindError}
	}
}

func fromWire(wc wireContent) types.Content {
	switch wc.Kind {
	case kindFlexVar:
		return types.FlexVar{Name: wc.VarName}
	case kindRigidVar:
		name := ""
		if wc.VarName != nil {
			name = *wc.VarName
		}
		return types.RigidVar{Name: name}
	case kindAlias:
		return types.Alias{Symbol: wc.Symbol, Args: intsToVars(wc.Args), Real: types.Variable(wc.Ret)}
	case kindApply:
		return types.Structure{Flat: types.Apply{Module: wc.Module, Name: wc.TypeName, Args: intsToVars(wc.Args)}}
	case kindFunc:
		return types.Structure{Flat: types.Func{Args: intsToVars(wc.Args), Ret: types.Variable(wc.Ret)}}
	case kindRecord:
		return types.Structure{Flat: types.Record{Fields: intsToFields(wc.Fields), Ext: types.Variable(wc.Ext)}}
	case kindTagUnion:
		return types.Structure{Flat: types.TagUnion{Tags: intsToTags(wc.Tags), Ext: types.Variable(wc.Ext)}}
	default:
		return types.ErrorContent{}
	}
}

func varsToInts(vs []types.Variable) []int32 {
	out := make([]int32, len(vs))
	for i, v := range vs {
		out[i] = int32(v)
	}
	return out
}

func intsToVars(is []int32) []types.Variable {
	out := make([]types.Variable, len(is))
	for i, n := range is {
		out[i] = types.Variable(n)
	}
	return out
}

func fieldsToInts(f map[string]types.Variable) map[string]int32 {
	out := make(map[string]int32, len(f))
	for k, v := range f {
		out[k] = int32(v)
	}
	return out
}

func intsToFields(f map[string]int32) map[string]types.Variable {
	out := make(map[string]types.Variable, len(f))
	for k, v := range f {
		out[k] = types.Variable(v)
	}
	return out
}

func tagsToInts(t map[string][]types.Variable) map[string][]int32 {
	out := make(map[string][]int32, len(t))
	for k, vs := range t {
		out[k] = varsToInts(vs)
	}
	return out
}

func intsToTags(t map[string][]int32) map[string][]types.Variable {
	out := make(map[string][]types.Variable, len(t))
	for k, is := range t {
		out[k] = intsToVars(is)
	}
	return out
}
