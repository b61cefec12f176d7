// Package storage implements StorageSubs: an isolated Subs snapshot
// that ImportVariableFrom populates by recursively copying a
// variable's transitive content out of a live Subs, preserving
// sharing so recursive and polymorphic types stay correct across the
// copy.
package storage

import (
	"log/slog"

	"github.com/opal-lang/wisp/types"
)

// StorageSubs is a self-contained, portable copy of a subset of a
// source Subs, the mechanism for shipping types across a module
// boundary. It is created once per export and is read-only
// thereafter.
type StorageSubs struct {
	subs *types.Subs

	// copied maps a source variable's union-find root to the
	// destination variable it was imported as. It lives on the snapshot
	// rather than one ImportVariableFrom call so that sharing is
	// preserved across separate imports too: two exposed vars that share
	// a substructure in the source Subs must land on the same
	// destination variable. One StorageSubs is only ever fed from one
	// source Subs, so the keys never collide.
	copied map[types.Variable]types.Variable
}

// New wraps an empty destination Subs as a StorageSubs.
func New(subs *types.Subs) *StorageSubs {
	return &StorageSubs{
		subs:   subs,
		copied: make(map[types.Variable]types.Variable),
	}
}

// Subs exposes the underlying destination Subs for read access (the
// emitter or a later module-load step would read types back out of
// it; both are external to this module's contract).
func (st *StorageSubs) Subs() *types.Subs {
	return st.subs
}

// ImportVariableFrom copies root's transitive content out of source
// into st, returning the handle valid in st. Variables the source
// shares across multiple call sites (e.g. a type variable referenced
// both as a function's argument and, recursively, inside its own
// return type) are copied exactly once and remain shared in the
// destination - tracked via the snapshot's copied map, keyed by the
// source's union-find root so two different non-root handles for the
// same equivalence class still hit the cache, across this call and
// every later one on the same snapshot.
func (st *StorageSubs) ImportVariableFrom(source *types.Subs, root types.Variable) types.Variable {
	return st.importVar(source, root, st.copied)
}

func (st *StorageSubs) importVar(source *types.Subs, v types.Variable, copied map[types.Variable]types.Variable) types.Variable {
	sourceRoot := source.Root(v)
	if dest, ok := copied[sourceRoot]; ok {
		return dest
	}

	// Reserve the destination variable before recursing so a cycle
	// reaching back to sourceRoot finds it already in copied instead
	// of recursing forever.
	dest := st.subs.Fresh(types.ErrorContent{})
	copied[sourceRoot] = dest

	content := source.GetWithoutCompacting(sourceRoot)
	st.subs.SetContent(dest, st.importContent(source, content, copied))
	return dest
}

func (st *StorageSubs) importContent(source *types.Subs, content types.Content, copied map[types.Variable]types.Variable) types.Content {
	switch c := content.(type) {
	case types.FlexVar:
		return c
	case types.RigidVar:
		return c
	case types.ErrorContent:
		return c
	case types.Structure:
		return types.Structure{Flat: st.importFlat(source, c.Flat, copied)}
	case types.Alias:
		args := make([]types.Variable, len(c.Args))
		for i, a := range c.Args {
			args[i] = st.importVar(source, a, copied)
		}
		return types.Alias{
			Symbol: c.Symbol,
			Args:   args,
			Real:   st.importVar(source, c.Real, copied),
		}
	default:
		return types.ErrorContent{}
	}
}

func (st *StorageSubs) importFlat(source *types.Subs, flat types.FlatType, copied map[types.Variable]types.Variable) types.FlatType {
	switch f := flat.(type) {
	case types.Apply:
		args := make([]types.Variable, len(f.Args))
		for i, a := range f.Args {
			args[i] = st.importVar(source, a, copied)
		}
		// A module-qualified Apply is crossing the export boundary here;
		// a malformed Module string would otherwise surface much later,
		// as an opaque lookup failure in whatever loads this StorageSubs
		// back in.
		if err := types.ValidateModulePath(f.Module); err != nil {
			slog.Warn("storage: exporting type with malformed module path", "module", f.Module, "name", f.Name, "err", err)
		}
		return types.Apply{Module: f.Module, Name: f.Name, Args: args}
	case types.Func:
		args := make([]types.Variable, len(f.Args))
		for i, a := range f.Args {
			args[i] = st.importVar(source, a, copied)
		}
		return types.Func{Args: args, Ret: st.importVar(source, f.Ret, copied)}
	case types.Record:
		fields := make(map[string]types.Variable, len(f.Fields))
		for name, v := range f.Fields {
			fields[name] = st.importVar(source, v, copied)
		}
		return types.Record{Fields: fields, Ext: st.importVar(source, f.Ext, copied)}
	case types.TagUnion:
		tags := make(map[string][]types.Variable, len(f.Tags))
		for name, vs := range f.Tags {
			copiedVs := make([]types.Variable, len(vs))
			for i, v := range vs {
				copiedVs[i] = st.importVar(source, v, copied)
			}
			tags[name] = copiedVs
		}
		return types.TagUnion{Tags: tags, Ext: st.importVar(source, f.Ext, copied)}
	default:
		return types.Apply{Module: "", Name: "", Args: nil}
	}
}
