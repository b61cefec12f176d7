package builder

import (
	"fmt"
	"sync"
)

// Memory is an in-memory reference Builder: it records every
// instruction instead of lowering to a real backend, and can replay
// them to compute the value a function would have produced. It exists
// so tests can observe the emitter end to end without a real backend.
type Memory struct {
	mu sync.Mutex

	functions []memFunction
	blocks    []memBlock
	values    []memValue

	insertBlock int // index into blocks of the current insertion point
}

type memFunction struct {
	name  string
	entry int // index into blocks
}

type memInstrKind int

const (
	instrAlloca memInstrKind = iota
	instrStore
	instrLoad
	instrCondBr
	instrBr
	instrPhi
	instrIntCmp
	instrFloatCmp
)

type memInstr struct {
	kind  memInstrKind
	name  string
	typ   BasicType
	a, b  int // operand value indices, meaning depends on kind
	destB int // destination block index, for branches
	elseB int
	edges []PhiEdge
}

type memBlock struct {
	name  string
	instr []memInstr
}

type memValueKind int

const (
	valConstInt memValueKind = iota
	valConstFloat
	valAlloca
	valLoaded
	valCompare
	valPhi
)

// memValue is the recorded description of a Value; Memory.Eval walks
// it (and, for loads/phis, the store history) to produce a concrete
// result for tests.
type memValue struct {
	kind  memValueKind
	i     int64
	f     float64
	block int // owning block, for alloca/load/phi replay
	instr int // index into that block's instr slice
}

// NewMemory returns an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) DeclareFunction(name string) Function {
	m.mu.Lock()
	defer m.mu.Unlock()

	blockIdx := len(m.blocks)
	m.blocks = append(m.blocks, memBlock{name: "entry"})
	fnIdx := len(m.functions)
	m.functions = append(m.functions, memFunction{name: name, entry: blockIdx})
	m.insertBlock = blockIdx
	return Function{id: fnIdx}
}

func (m *Memory) AppendBasicBlock(fn Function, name string) Block {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.blocks)
	m.blocks = append(m.blocks, memBlock{name: name})
	return Block{id: idx}
}

func (m *Memory) EntryBlock(fn Function) Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Block{id: m.functions[fn.id].entry}
}

func (m *Memory) FirstInstruction(bb Block) (Instruction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.blocks[bb.id].instr) == 0 {
		return Instruction{}, false
	}
	return Instruction{block: bb, index: 0}, true
}

func (m *Memory) PositionAtEnd(bb Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertBlock = bb.id
}

func (m *Memory) PositionBefore(instr Instruction) {
	// The recorder only ever appends, so this moves the insertion point
	// to the end of instr's block rather than in front of instr: an
	// alloca placed this way lands after the instructions the block
	// already holds. Eval does not depend on instruction order within a
	// block for the shapes the emitter builds, so results are unchanged.
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertBlock = instr.block.id
}

func (m *Memory) CurrentBlock() Block {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Block{id: m.insertBlock}
}

func (m *Memory) append(instr memInstr) int {
	b := &m.blocks[m.insertBlock]
	b.instr = append(b.instr, instr)
	return len(b.instr) - 1
}

func (m *Memory) newValue(v memValue) Value {
	idx := len(m.values)
	m.values = append(m.values, v)
	kind := Int64
	if v.kind == valConstFloat {
		kind = Float64
	}
	return Value{id: idx, Kind: kind}
}

func (m *Memory) BuildAlloca(t BasicType, name string) Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	block := m.insertBlock
	idx := m.append(memInstr{kind: instrAlloca, name: name, typ: t})
	v := memValue{kind: valAlloca, block: block, instr: idx}
	val := m.newValue(v)
	val.Kind = t
	return val
}

func (m *Memory) BuildStore(ptr, val Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.append(memInstr{kind: instrStore, a: ptr.id, b: val.id})
}

func (m *Memory) BuildLoad(ptr Value, name string) Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	block := m.insertBlock
	idx := m.append(memInstr{kind: instrLoad, name: name, a: ptr.id})
	val := m.newValue(memValue{kind: valLoaded, block: block, instr: idx})
	val.Kind = ptr.Kind
	return val
}

func (m *Memory) BuildConditionalBranch(cond Value, thenBB, elseBB Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.append(memInstr{kind: instrCondBr, a: cond.id, destB: thenBB.id, elseB: elseBB.id})
}

func (m *Memory) BuildUnconditionalBranch(bb Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.append(memInstr{kind: instrBr, destB: bb.id})
}

func (m *Memory) BuildPhi(t BasicType, name string) Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	block := m.insertBlock
	idx := m.append(memInstr{kind: instrPhi, name: name, typ: t})
	val := m.newValue(memValue{kind: valPhi, block: block, instr: idx})
	val.Kind = t
	return val
}

func (m *Memory) AddIncoming(phi Value, edges ...PhiEdge) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.values[phi.id]
	instr := &m.blocks[v.block].instr[v.instr]
	instr.edges = append(instr.edges, edges...)
}

func (m *Memory) BuildIntCompare(pred IntPredicate, lhs, rhs Value, name string) Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	block := m.insertBlock
	idx := m.append(memInstr{kind: instrIntCmp, name: name, a: lhs.id, b: rhs.id})
	val := m.newValue(memValue{kind: valCompare, block: block, instr: idx})
	val.Kind = Int64
	return val
}

func (m *Memory) BuildFloatCompare(pred FloatPredicate, lhs, rhs Value, name string) Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	block := m.insertBlock
	idx := m.append(memInstr{kind: instrFloatCmp, name: name, a: lhs.id, b: rhs.id})
	val := m.newValue(memValue{kind: valCompare, block: block, instr: idx})
	val.Kind = Int64
	return val
}

func (m *Memory) ConstInt(v int64) Value {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newValue(memValue{kind: valConstInt, i: v})
}

func (m *Memory) ConstFloat(v float64) Value {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newValue(memValue{kind: valConstFloat, f: v})
}

// Eval replays the recorded instructions forward, following branches
// and phi merges, to compute the concrete value val holds. It exists
// purely so tests can assert on let-binding and when-lowering results
// without a real backend - a deliberately small interpreter, not a
// general one: it only understands the instruction shapes this
// package's BuildXxx methods ever emit.
func (m *Memory) Eval(val Value) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eval(val)
}

func (m *Memory) eval(val Value) (interface{}, error) {
	v := m.values[val.id]
	switch v.kind {
	case valConstInt:
		return v.i, nil
	case valConstFloat:
		return v.f, nil
	case valLoaded:
		instr := m.blocks[v.block].instr[v.instr]
		storeVal, ok := m.lastStoreTo(Value{id: instr.a})
		if !ok {
			return nil, fmt.Errorf("builder: load of %q before any store", instr.name)
		}
		return m.eval(storeVal)
	case valCompare:
		instr := m.blocks[v.block].instr[v.instr]
		lhs, err := m.eval(Value{id: instr.a})
		if err != nil {
			return nil, err
		}
		rhs, err := m.eval(Value{id: instr.b})
		if err != nil {
			return nil, err
		}
		return numericEqual(lhs, rhs), nil
	case valPhi:
		instr := m.blocks[v.block].instr[v.instr]
		if len(instr.edges) != 2 {
			return nil, fmt.Errorf("builder: phi %q does not have exactly two incoming edges", instr.name)
		}
		cond, err := m.condFor(Block{id: v.block}, instr.edges[0].Block, instr.edges[1].Block)
		if err != nil {
			return nil, err
		}
		taken, err := m.eval(cond)
		if err != nil {
			return nil, err
		}
		if taken.(bool) {
			return m.eval(instr.edges[0].Value)
		}
		return m.eval(instr.edges[1].Value)
	default:
		return nil, fmt.Errorf("builder: value has no evaluable content")
	}
}

// condFor finds the conditional branch whose two destinations are
// exactly {thenB, elseB} - the branch issued right before compiling
// the arms that now feed phi's edges - and returns its condition
// Value.
func (m *Memory) condFor(phiBlock, thenB, elseB Block) (Value, error) {
	for bi := range m.blocks {
		for _, in := range m.blocks[bi].instr {
			if in.kind != instrCondBr {
				continue
			}
			if in.destB == thenB.id && in.elseB == elseB.id {
				return Value{id: in.a}, nil
			}
		}
	}
	return Value{}, fmt.Errorf("builder: no conditional branch feeds phi in block %d", phiBlock.id)
}

func numericEqual(a, b interface{}) bool {
	switch av := a.(type) {
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	default:
		return false
	}
}

// lastStoreTo finds the most recent store to ptr anywhere in the
// module - a simplification valid because the emitter never reuses a
// stack slot across unrelated bindings (each let allocates a fresh
// slot).
func (m *Memory) lastStoreTo(ptr Value) (Value, bool) {
	for bi := len(m.blocks) - 1; bi >= 0; bi-- {
		instrs := m.blocks[bi].instr
		for ii := len(instrs) - 1; ii >= 0; ii-- {
			in := instrs[ii]
			if in.kind == instrStore && in.a == ptr.id {
				return Value{id: in.b}, true
			}
		}
	}
	return Value{}, false
}
