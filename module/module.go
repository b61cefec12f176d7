// Package module implements the module-boundary contract:
// SolvedModule, MakeSolvedTypes, and ExposedTypesStorageSubs - the
// artifacts one module's solve hands to the modules that import it.
package module

import (
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/opal-lang/wisp/solve"
	"github.com/opal-lang/wisp/storage"
	"github.com/opal-lang/wisp/types"
)

// SymbolVar pairs a Symbol name with a Variable - the element of the
// ordered (symbol, variable) sequences SolvedModule carries.
type SymbolVar struct {
	Symbol string
	Var    types.Variable
}

// SolvedModule is the snapshot exported to other modules.
type SolvedModule struct {
	Problems []solve.TypeError

	// Aliases includes non-exposed aliases because exposed aliases may
	// reference them.
	Aliases map[string]solve.AliasDef

	ExposedVarsBySymbol []SymbolVar
	StoredVarsBySymbol  []SymbolVar
	StorageSubs         *storage.StorageSubs
}

// MakeSolvedTypes walks the live Subs from each exposed (symbol, var)
// to a value-independent SolvedType, decoupled from Subs so other
// modules can regenerate constraints for an imported value within
// their own Subs. One entry per exposed symbol.
func MakeSolvedTypes(solved solve.Solved, exposedVarsBySymbol []SymbolVar) map[string]SolvedType {
	solvedTypes := make(map[string]SolvedType, len(exposedVarsBySymbol))
	subs := solved.Inner()

	for _, sv := range exposedVarsBySymbol {
		inFlight := make(map[types.Variable]int)
		ids := 0
		solvedTypes[sv.Symbol] = newSolvedType(subs, sv.Var, inFlight, &ids)
	}

	return solvedTypes
}

// ExposedTypesStorageSubs creates an empty StorageSubs, imports every
// exposed variable from the live Subs (a recursive, sharing-preserving
// copy via storage.ImportVariableFrom), and collects the new handles
// paired with their symbols.
func ExposedTypesStorageSubs(solved solve.Solved, exposedVarsBySymbol []SymbolVar) (*storage.StorageSubs, []SymbolVar) {
	subs := solved.InnerMut()
	storageSubs := storage.New(types.NewSubs())
	stored := make([]SymbolVar, 0, len(exposedVarsBySymbol))

	for _, sv := range exposedVarsBySymbol {
		newVar := storageSubs.ImportVariableFrom(subs, sv.Var)
		stored = append(stored, SymbolVar{Symbol: sv.Symbol, Var: newVar})
	}

	return storageSubs, stored
}

// sortedSymbols returns the Symbol field of vars, sorted - the
// deterministic ordering Fingerprint needs so that two equivalent
// exports hash identically regardless of map/slice iteration order
// upstream.
func sortedSymbols(vars []SymbolVar) []string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Symbol
	}
	sort.Strings(names)
	return names
}

// Fingerprint hashes a module's exposed interface: the sorted symbol
// names paired with their solved types, read from the self-contained
// StorageSubs/StoredVarsBySymbol pair (ExposedVarsBySymbol holds
// live-Subs handles, which mean nothing inside the snapshot). Two modules that expose the
// same names with the same shapes, solved independently (possibly with
// different internal Variable numbering), fingerprint identically -
// downstream build tooling can use this to decide whether dependents
// need to be rebuilt, the way a content hash drives any incremental
// build. Not exercised by the solver or emitter themselves; it is a
// host-tool convenience the same way EncodeStorage is.
func (sm *SolvedModule) Fingerprint() [blake2b.Size256]byte {
	solvedTypes := MakeSolvedTypes(solve.WrapSolved(sm.StorageSubs.Subs()), sm.StoredVarsBySymbol)

	names := sortedSymbols(sm.StoredVarsBySymbol)
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("module: blake2b.New256: %v", err))
	}

	for _, name := range names {
		fmt.Fprintf(h, "%s\x00%s\x00", name, solvedTypeString(solvedTypes[name]))
	}

	var out [blake2b.Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}
