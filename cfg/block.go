package cfg

import "github.com/glint-lang/cfgbuild/ast"

// BlockFlags records facts about a BasicBlock discovered during
// construction, packed into a small bitset since there are only a
// handful of them.
type BlockFlags uint8

const (
	WasJumpDestination BlockFlags = 1 << iota
)

// Exit is a BasicBlock's terminator: conditional when Then != Else,
// unconditional (Cond == NoVariable) otherwise. A block under
// construction has a nil Exit.
type Exit struct {
	Cond LocalVariable
	Then *BasicBlock
	Else *BasicBlock
	Loc  ast.Loc
}

func (e *Exit) IsConditional() bool { return e != nil && e.Then != e.Else }

// BasicBlock is a maximal straight-line instruction sequence ending in
// exactly one exit. Blocks are owned by exactly one
// CFG and referenced by pointer; back-edges are a multiset because two
// distinct outgoing edges from the same block may both target it (an
// unconditional jump only ever contributes one, but a conditional jump
// whose Then and Else happen to coincide — never legal here — would).
type BasicBlock struct {
	ID           int
	Instructions []Instruction
	Exit         *Exit
	LoopDepth    int
	BlockScopeID int
	BackEdges    map[*BasicBlock]int
	Flags        BlockFlags

	// order is the allocation index used to break ties in
	// (*CFG).ReversePostorder; it plays no role in the data model itself.
	order int
}

func (b *BasicBlock) HasFlag(f BlockFlags) bool { return b.Flags&f != 0 }

// Emit appends a non-synthetic instruction. Most arms of the walker call
// this; EmitSynthetic is for auxiliary instructions with no source
// counterpart (self-restore, the rescue gates' Unanalyzable, and the like).
func (b *BasicBlock) Emit(target LocalVariable, loc ast.Loc, op InstructionOp) {
	b.Instructions = append(b.Instructions, Instruction{Target: target, Loc: loc, Op: op})
}

// EmitSynthetic appends an instruction with no corresponding source
// token. Callers conventionally pass a zero-length Loc.
func (b *BasicBlock) EmitSynthetic(target LocalVariable, loc ast.Loc, op InstructionOp) {
	b.Instructions = append(b.Instructions, Instruction{Target: target, Loc: loc, Op: op, Synthetic: true})
}

func (b *BasicBlock) addBackEdge(from *BasicBlock) {
	if b.BackEdges == nil {
		b.BackEdges = make(map[*BasicBlock]int)
	}

	b.BackEdges[from]++
}
