package cfg

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/symbols"
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

const MinLoopLet = 0

type CFG struct {
	Entry     *BasicBlock
	DeadBlock *BasicBlock
	Blocks    []*BasicBlock

	MaxBlockScopeID int

	MinLoops                   map[LocalVariable]int          // local -> pinned min loop depth
	Aliases                    map[symbols.Symbol]LocalVariable
	DiscoveredUndeclaredFields map[symbols.Name]LocalVariable

	nextDisambiguator int
	nextOrder         int
}

func New(entryLoopDepth, entryBlockScopeID int) *CFG {
	c := &CFG{
		MinLoops:                   make(map[LocalVariable]int),
		Aliases:                    make(map[symbols.Symbol]LocalVariable),
		DiscoveredUndeclaredFields: make(map[symbols.Name]LocalVariable),
	}

	c.Entry = c.FreshBlock(entryLoopDepth, entryBlockScopeID)
	c.DeadBlock = c.FreshBlock(entryLoopDepth, entryBlockScopeID)

	return c
}

func (c *CFG) FreshBlock(loopDepth, blockScopeID int) *BasicBlock {
	b := &BasicBlock{
		ID:           len(c.Blocks),
		LoopDepth:    loopDepth,
		BlockScopeID: blockScopeID,
		order:        c.nextOrder,
	}
	c.nextOrder++
	c.Blocks = append(c.Blocks, b)

	tlog.V("blocks").Printw("block allocated", "id", b.ID, "loop_depth", loopDepth, "block_scope", blockScopeID)

	return b
}

func (c *CFG) NewBlockScope() int {
	c.MaxBlockScopeID++
	return c.MaxBlockScopeID
}

func (c *CFG) NewTemporary(name symbols.Name) LocalVariable {
	c.nextDisambiguator++
	return LocalVariable{Name: name, Disambiguator: c.nextDisambiguator}
}

// InternalPanic is what the jump linker's precondition checks panic with;
// walk.walkRecover type-switches on it to attribute a real call stack.
type InternalPanic struct {
	Cause       error
	Breadcrumbs []loc.PC
}

func (p *InternalPanic) Error() string { return p.Cause.Error() }
func (p *InternalPanic) Unwrap() error { return p.Cause }

func internalErrorf(format string, args ...any) {
	panic(&InternalPanic{
		Cause:       errors.New(format, args...),
		Breadcrumbs: loc.Callers(1, 8),
	})
}

func (c *CFG) ConditionalJump(from *BasicBlock, cond LocalVariable, thenB, elseB *BasicBlock, loc ast.Loc) {
	thenB.Flags |= WasJumpDestination
	elseB.Flags |= WasJumpDestination

	if from == c.DeadBlock {
		return
	}

	if from.Exit != nil {
		internalErrorf("condition for block already set")
	}

	from.Exit = &Exit{Cond: cond, Then: thenB, Else: elseB, Loc: loc}
	thenB.addBackEdge(from)
	elseB.addBackEdge(from)
}

func (c *CFG) UnconditionalJump(from, to *BasicBlock, loc ast.Loc) {
	to.Flags |= WasJumpDestination

	if from == c.DeadBlock {
		return
	}

	if from.Exit != nil {
		internalErrorf("condition for block already set")
	}

	from.Exit = &Exit{Cond: NoVariable, Then: to, Else: to, Loc: loc}
	to.addBackEdge(from)
}

func (c *CFG) JumpToDead(from *BasicBlock, loc ast.Loc) {
	c.UnconditionalJump(from, c.DeadBlock, loc)
}
