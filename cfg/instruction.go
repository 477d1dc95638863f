package cfg

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/symbols"
)

// LocalVariable is a namer-bound slot in the CFG being built: an
// interned name plus a per-method disambiguator. Two LocalVariables with
// the same Name but different Disambiguator are distinct temporaries
// that happen to print the same (the common case for statTemp and
// friends). The zero value, NoVariable, marks "unused" and is the only
// legal condition of an unconditional exit.
type LocalVariable struct {
	Name          symbols.Name
	Disambiguator int
}

var NoVariable = LocalVariable{}

func (l LocalVariable) Exists() bool { return l.Disambiguator != 0 }

// SelfVariable and BlockCallVariable are the two fixed locals every CFG
// shares regardless of which Table minted it: `self` inside a block body
// (LoadSelf's target, restored around the call via a synthetic Ident),
// and the synthetic condition a block-taking Send branches on to decide
// whether the body ran. Both use a negative disambiguator so they can
// never collide with a NewTemporary result,
// which starts counting from 1.
var (
	SelfVariable      = LocalVariable{Disambiguator: -1}
	BlockCallVariable = LocalVariable{Disambiguator: -2}
)

// ArgFlags mirrors one block-formal's calling-convention flags, parsed
// from the block's argument list before the body is walked.
type ArgFlags struct {
	Keyword    bool
	Repeated   bool
	HasDefault bool
	Shadow     bool
}

// SendAndBlockLink ties a Send that takes a block to the block body's
// entry/exit instructions (LoadSelf, LoadYieldParams, BlockReturn,
// SolveConstraint) that share it.
type SendAndBlockLink struct {
	Method       symbols.Name
	ArgFlags     []ArgFlags
	BlockScopeID int
}

// InstructionOp is the closed set of instruction payloads the builder
// emits. It is intentionally not extensible outside this package: the
// inferencer switches over the concrete type.
type InstructionOp interface {
	instructionOp()
}

type Literal struct{ Value symbols.LiteralValue }

type Ident struct{ Source LocalVariable }

type Alias struct{ Symbol symbols.Symbol }

type Send struct {
	Recv        LocalVariable
	Method      symbols.Name
	RecvLoc     ast.Loc
	Args        []LocalVariable
	ArgLocs     []ast.Loc
	IsPrivateOk bool
	Link        *SendAndBlockLink // nil unless the call passed a block
}

type Return struct{ Local LocalVariable }

type BlockReturn struct {
	Link  *SendAndBlockLink
	Local LocalVariable
}

type LoadSelf struct {
	Link      *SendAndBlockLink
	SelfLocal LocalVariable
}

type LoadYieldParams struct{ Link *SendAndBlockLink }

type SolveConstraint struct {
	Link       *SendAndBlockLink
	SendResult LocalVariable
}

type Cast struct {
	Local LocalVariable
	Type  symbols.TypeRef
	Kind  ast.CastKind
}

type TAbsurd struct{ Local LocalVariable }

// Unanalyzable models a value the inferencer must not reason about: the
// caught exception at a rescue handler's entry, or the "did the body
// throw" gate at a rescue/ensure boundary.
type Unanalyzable struct{}

func (Literal) instructionOp()         {}
func (Ident) instructionOp()           {}
func (Alias) instructionOp()           {}
func (Send) instructionOp()            {}
func (Return) instructionOp()          {}
func (BlockReturn) instructionOp()     {}
func (LoadSelf) instructionOp()        {}
func (LoadYieldParams) instructionOp() {}
func (SolveConstraint) instructionOp() {}
func (Cast) instructionOp()            {}
func (TAbsurd) instructionOp()         {}
func (Unanalyzable) instructionOp()    {}

// Instruction is one `(target, loc, op)` triple. Synthetic instructions
// carry Loc.ZeroLength() locations by convention and are excluded from
// cursor queries by the language server.
type Instruction struct {
	Target    LocalVariable
	Loc       ast.Loc
	Op        InstructionOp
	Synthetic bool
}
