package main

import (
	"fmt"

	"github.com/opal-lang/wisp/ast"
	"github.com/opal-lang/wisp/builder"
	"github.com/opal-lang/wisp/codegen"
	"github.com/opal-lang/wisp/config"
	"github.com/opal-lang/wisp/solve"
	"github.com/opal-lang/wisp/symbol"
	"github.com/opal-lang/wisp/types"
)

// entryProductionModule is the one root production wispc's grammar
// defines; a config naming anything else has no parser to run.
const entryProductionModule = "module"

// BuildResult is what one successful run of the pipeline produces,
// printed by the build/watch commands. Value is int64 or float64,
// whichever Memory.Eval produced for the module's last def.
type BuildResult struct {
	LastDefName string
	Value       interface{}
	Problems    []solve.TypeError
}

// numNum wraps inner in the Num.Num application the emitter's type
// dispatch unwraps, matching how a real constraint generator would
// assign every numeric literal's type variable.
func numNum(subs *types.Subs, module, name string) types.Variable {
	inner := subs.Fresh(types.Structure{Flat: types.Apply{Module: module, Name: name}})
	return subs.Fresh(types.Structure{Flat: types.Apply{Module: types.ModNum, Name: types.TypeNum, Args: []types.Variable{inner}}})
}

// canonicalizeAndSolve stands in for the external canonicalization
// and constraint-generation stages: it walks wispc's tiny parsed Def
// list in source order, assigns each def a type variable, and builds
// the Lookup constraints RunSolve needs to unify a name reference
// against its definition. It returns a nested ast.LetNonRec binding
// every def in turn, with the final def's value as the body - exactly
// what CompileStandaloneExpr needs to hand back one value.
func canonicalizeAndSolve(defs []ast.Def) (ast.Expr, *types.Subs, []solve.TypeError, error) {
	subs := types.NewSubs()
	env := solve.NewEnv()
	constraints := solve.NewConstraints()
	var roots []solve.ConstraintRef

	// out[i].expr is the canonical Expr for defs[i]'s value, but without
	// its LetNonRec wrapper yet - those are built in a second,
	// innermost-first pass once every def's variable has a fixed type
	// (solving may still narrow a FlexVar assigned to a Var reference).
	type built struct {
		name string
		v    types.Variable
		expr ast.Expr
	}
	out := make([]built, 0, len(defs))

	for _, def := range defs {
		switch def.Body.Kind {
		case ast.ParsedInt:
			v := numNum(subs, types.ModInt, types.TypeInteger)
			out = append(out, built{name: def.Name, v: v, expr: ast.IntLiteral{Var: v, Value: def.Body.IntValue}})
			env.Bound[def.Name] = v

		case ast.ParsedFloat:
			v := numNum(subs, types.ModFloat, types.TypeFloatingPoint)
			out = append(out, built{name: def.Name, v: v, expr: ast.FloatLiteral{Var: v, Value: def.Body.FloatValue}})
			env.Bound[def.Name] = v

		case ast.ParsedIdent:
			expected := subs.Fresh(types.FlexVar{})
			region := symbol.Region{}
			roots = append(roots, constraints.Add(solve.Lookup{Symbol: def.Body.Name, Expected: expected, Region: region}))
			out = append(out, built{name: def.Name, v: expected, expr: ast.Var{Symbol: def.Body.Name}})
			env.Bound[def.Name] = expected

		default:
			return nil, nil, nil, fmt.Errorf("wispc: def %q has an unrecognized parsed-expr kind", def.Name)
		}
	}

	root := constraints.Add(solve.And{Children: roots})
	_, _, problems := solve.RunSolve(constraints, root, types.RigidVariables{}, subs, solve.Aliases{}, env)

	// Build the nested LetNonRec from the last def inward so each
	// binding's Body is the rest of the chain, with the final def's own
	// Var reference closing it off.
	if len(out) == 0 {
		return nil, nil, nil, fmt.Errorf("wispc: module has no defs")
	}
	bodyExpr := ast.Expr(ast.Var{Symbol: out[len(out)-1].name})
	for i := len(out) - 1; i >= 0; i-- {
		bodyExpr = ast.LetNonRec{
			Pattern: ast.IdentifierPattern{Symbol: out[i].name},
			Expr:    out[i].expr,
			Body:    bodyExpr,
		}
	}

	return bodyExpr, subs, problems, nil
}

// RunBuild parses source under cfg's entry production and line-length
// limit, canonicalizes+solves it, and emits+evaluates the result
// against an in-memory reference Builder; the real backend stays
// external.
func RunBuild(cfg *config.BuildConfig, source string) (*BuildResult, error) {
	if cfg.EntryProduction != "" && cfg.EntryProduction != entryProductionModule {
		return nil, fmt.Errorf("wispc: unknown entry production %q", cfg.EntryProduction)
	}

	located, fail := ParseModule(cfg, source)
	if fail != nil {
		return nil, fmt.Errorf("parse error: %s", fail.Error())
	}

	expr, subs, problems, err := canonicalizeAndSolve(located.Value.Defs)
	if err != nil {
		return nil, err
	}

	lastDef := located.Value.Defs[len(located.Value.Defs)-1]
	if len(problems) > 0 {
		// Type errors never abort solving, but a driver has no
		// canonical value to emit for a module the solver rejected -
		// real codegen only ever runs over a canonicalizer's output, and
		// a real canonicalizer never hands the emitter an expression
		// built from an unresolved Lookup. wispc stops here instead of
		// asking the emitter to compile a dangling reference.
		return &BuildResult{LastDefName: lastDef.Name, Problems: problems}, nil
	}

	mem := builder.NewMemory()
	fn := mem.DeclareFunction("main")
	env := &codegen.Env{Builder: mem, Subs: subs}

	result, err := codegen.CompileStandaloneExpr(env, fn, expr)
	if err != nil {
		return nil, fmt.Errorf("emit error: %w", err)
	}

	value, err := mem.Eval(result)
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}

	return &BuildResult{LastDefName: lastDef.Name, Value: value, Problems: problems}, nil
}
