package codegen

import (
	emiterrors "github.com/opal-lang/wisp/pkgs/errors"
	"github.com/opal-lang/wisp/builder"
	"github.com/opal-lang/wisp/types"
)

// ContentToBasicType maps a Subs Content to the BasicType the backend
// needs to allocate or compare against. Only
// Structure(Apply{Num, Num, [inner]}) is recognized, dispatching on
// inner - any other shape is a compilation-not-yet-supported error,
// never a panic disguised as success.
func ContentToBasicType(content types.Content, subs *types.Subs) (builder.BasicType, error) {
	innerContent, err := unwrapNum(content, subs)
	if err != nil {
		return 0, err
	}
	return NumToBasicType(innerContent)
}

// unwrapNum strips the Num.Num wrapper every numeric literal's Subs
// entry carries, returning the inner Content NumToBasicType/NumToBV
// both dispatch on. Shared by ContentToBasicType and the compileWhen
// scrutinee check so both unwrap the same way.
func unwrapNum(content types.Content, subs *types.Subs) (types.Content, error) {
	structure, ok := content.(types.Structure)
	if !ok {
		return nil, emiterrors.NewUnsupportedType("", "").
			WithContext("content", content)
	}

	apply, ok := structure.Flat.(types.Apply)
	if !ok || apply.Module != types.ModNum || apply.Name != types.TypeNum || len(apply.Args) != 1 {
		return nil, emiterrors.NewUnsupportedType(applyModule(structure.Flat), applyName(structure.Flat))
	}

	return subs.GetWithoutCompacting(apply.Args[0]), nil
}

// NumToBasicType is the inner dispatch ContentToBasicType delegates to
// once it has unwrapped Num.Num's argument. Kept as its own function:
// a type arriving already wrapped in Num.Num (as every numeric
// literal's Subs entry does) is a distinct concern from the outer
// unwrap, and NumToBV needs the same dispatch shape for values rather
// than types.
func NumToBasicType(content types.Content) (builder.BasicType, error) {
	structure, ok := content.(types.Structure)
	if !ok {
		return 0, emiterrors.NewUnsupportedType("", "").WithContext("nested-in", "Num.Num")
	}

	apply, ok := structure.Flat.(types.Apply)
	if !ok {
		return 0, emiterrors.NewUnsupportedType("", "").WithContext("nested-in", "Num.Num")
	}

	switch {
	case apply.Module == types.ModFloat && apply.Name == types.TypeFloatingPoint && len(apply.Args) == 0:
		return builder.Float64, nil
	case apply.Module == types.ModInt && apply.Name == types.TypeInteger && len(apply.Args) == 0:
		return builder.Int64, nil
	default:
		return 0, emiterrors.NewUnsupportedType(apply.Module, apply.Name).WithContext("nested-in", "Num.Num")
	}
}

// NumToBV takes the same Num.Num-nested Content NumToBasicType
// dispatches on and checks that an already-produced builder.Value
// carries the matching Kind. A backend's value handles are
// runtime-tagged, not statically typed; builder.Value tracks Kind
// explicitly for the same reason, and this is the one call site that
// checks it.
func NumToBV(content types.Content, val builder.Value) (builder.Value, error) {
	want, err := NumToBasicType(content)
	if err != nil {
		return builder.Value{}, err
	}
	if val.Kind != want {
		return builder.Value{}, emiterrors.New(emiterrors.ErrUnsupportedType,
			"value kind does not match numeric content").
			WithContext("want", want.String()).
			WithContext("got", val.Kind.String())
	}
	return val, nil
}

func applyModule(f types.FlatType) string {
	if a, ok := f.(types.Apply); ok {
		return a.Module
	}
	return ""
}

func applyName(f types.FlatType) string {
	if a, ok := f.(types.Apply); ok {
		return a.Name
	}
	return ""
}
