// Package builder defines the opaque backend contract the code
// emitter writes to. The real low-level IR backend lives outside this
// module; what's here is a minimal, backend-agnostic interface of
// verbs the caller composes, rather than a concrete IR type the
// caller must construct by hand.
package builder

// BasicType is the handful of value shapes the emitter ever asks a
// backend to allocate or compare - exactly two today: the 64-bit
// float and 64-bit integer a Num.Num resolves to.
type BasicType int

const (
	Int64 BasicType = iota
	Float64
)

func (t BasicType) String() string {
	switch t {
	case Int64:
		return "i64"
	case Float64:
		return "f64"
	default:
		return "unknown"
	}
}

// IntPredicate names an integer comparison, LLVM icmp style; only the
// equality comparison a two-branch literal When needs is defined.
type IntPredicate int

const (
	IntEQ IntPredicate = iota
)

// FloatPredicate names a float comparison, again trimmed to the one
// ordered-equal comparison the When lowering issues.
type FloatPredicate int

const (
	FloatOEQ FloatPredicate = iota
)

// Function is an opaque handle to a function being built. The emitter
// never inspects it; a backend issues one from DeclareFunction and
// later methods take it back.
type Function struct{ id int }

// Block is an opaque handle to a basic block.
type Block struct{ id int }

// Instruction is an opaque handle to a single instruction within a
// block, used only for the entry-block alloca placement's "position
// before the first instruction" rule.
type Instruction struct {
	block Block
	index int
}

// Value is an opaque handle to a computed or loaded value. Kind
// records which BasicType it was produced as - the variant tag a real
// backend's value enum would carry, which this interface can't
// express statically, so the emitter checks it at the one call site
// that cares.
type Value struct {
	id   int
	Kind BasicType
}

// PhiEdge pairs an incoming value with the block it arrives from.
type PhiEdge struct {
	Value Value
	Block Block
}

// Builder is the backend contract: entry-block alloca placement,
// stores/loads, two-way conditional branching, and phi merges. A
// concrete backend (an LLVM wrapper, a bytecode assembler, or - for
// tests - Memory, this package's reference implementation) satisfies
// it.
type Builder interface {
	// DeclareFunction starts a new function with a single entry block
	// already appended, named "entry".
	DeclareFunction(name string) Function

	// AppendBasicBlock appends a new, empty block to fn, named name.
	AppendBasicBlock(fn Function, name string) Block

	// EntryBlock returns fn's first basic block.
	EntryBlock(fn Function) Block

	// FirstInstruction returns the first instruction recorded in bb, if
	// any - the branch point for entry-block alloca placement.
	FirstInstruction(bb Block) (Instruction, bool)

	// PositionAtEnd moves the insertion point to the end of bb.
	PositionAtEnd(bb Block)

	// PositionBefore moves the insertion point to immediately before
	// instr.
	PositionBefore(instr Instruction)

	// CurrentBlock returns the block instructions are currently being
	// appended to, needed because compiling a branch's body can itself
	// open and leave further blocks.
	CurrentBlock() Block

	BuildAlloca(t BasicType, name string) Value
	BuildStore(ptr, val Value)
	BuildLoad(ptr Value, name string) Value

	BuildConditionalBranch(cond Value, thenBB, elseBB Block)
	BuildUnconditionalBranch(bb Block)

	// BuildPhi opens a phi node of the given type; AddIncoming attaches
	// its predecessor edges once both arms have been compiled.
	BuildPhi(t BasicType, name string) Value
	AddIncoming(phi Value, edges ...PhiEdge)

	BuildIntCompare(pred IntPredicate, lhs, rhs Value, name string) Value
	BuildFloatCompare(pred FloatPredicate, lhs, rhs Value, name string) Value

	ConstInt(v int64) Value
	ConstFloat(v float64) Value
}
