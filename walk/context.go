// Package walk implements the recursive lowering walk: the AST
// dispatcher that turns a resolved method body into a cfg.CFG. It is
// single-threaded and synchronous; nothing in this package spawns a
// goroutine or blocks.
package walk

import (
	"context"

	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
)

// Builder holds the state shared by every recursive call for one method:
// the CFG under construction, the symbol table, the diagnostic sink, and
// the interned magic names. The CFG, its temporary counter, and the
// local cache are the only mutable carriers; everything else the walk
// threads through is the immutable Context below.
type Builder struct {
	GoCtx context.Context
	CFG   *cfg.CFG
	Table *symbols.Table
	Sink  diag.Sink
	names magicNames

	locals map[symbols.LocalRef]cfg.LocalVariable
}

// NewBuilder wires a fresh CFG (via cfg.New) to table and sink and
// returns both the Builder and a root Context ready to walk a method
// body whose owning class is ownerClass (the zero Symbol for a
// top-level/module-level method). goCtx carries the tracing span every
// arm that recurses opens into.
func NewBuilder(goCtx context.Context, table *symbols.Table, sink diag.Sink, ownerClass symbols.Symbol) (*Builder, Context) {
	b := &Builder{
		GoCtx:  goCtx,
		CFG:    cfg.New(0, 0),
		Table:  table,
		Sink:   sink,
		names:  newMagicNames(table),
		locals: make(map[symbols.LocalRef]cfg.LocalVariable),
	}

	ctx := Context{
		Builder:    b,
		OwnerClass: ownerClass,
		Target:     cfg.NoVariable,
	}

	return b, ctx
}

// LocalOf turns a namer-bound LocalRef into the cfg.LocalVariable that
// represents it, minting one on first use and reusing it for every
// subsequent Local node referencing the same ref — this is what keeps
// two reads of the same source-level variable pointing at the same
// dataflow identity.
func (ctx Context) LocalOf(ref symbols.LocalRef) cfg.LocalVariable {
	if lv, ok := ctx.locals[ref]; ok {
		return lv
	}

	lv := ctx.CFG.NewTemporary(ctx.Table.InternName(ctx.Table.LocalRefString(ref)))
	ctx.locals[ref] = lv

	return lv
}

// Context is the walker's ambient state: immutable, copied on every
// recursive descent, with pure With* builders deriving updated values.
// The only mutation any arm performs goes through the embedded *Builder
// (new blocks, new instructions, new temporaries).
type Context struct {
	*Builder

	// OwnerClass is the class that owns the method being walked, used by
	// the alias resolver to climb to class/instance variable members. It
	// never changes within one method's walk.
	OwnerClass symbols.Symbol

	// Target is the local the current node's value should be stored
	// into.
	Target cfg.LocalVariable

	// NextScope is where `next` (and a loop's implicit continue) jumps;
	// nil outside any loop or block.
	NextScope *cfg.BasicBlock

	// BreakScope is where `break` jumps; nil outside any loop or block.
	BreakScope *cfg.BasicBlock

	// RescueScope is where `retry` jumps; nil outside any rescue.
	RescueScope *cfg.BasicBlock

	// BreakTarget is the local a `break`'s value is ultimately assigned
	// to — the outer expression's target for a loop, or the call's
	// target for a block.
	BreakTarget cfg.LocalVariable

	// Link is the enclosing block body's call/body link, non-nil only
	// while walking the body of a Send's Block argument.
	Link *cfg.SendAndBlockLink

	// Loops is the current loop nesting depth, stamped onto every block
	// freshly allocated at this point in the walk.
	Loops int

	// BlockScopeID identifies the lexically enclosing closure (0 for the
	// method body itself).
	BlockScopeID int

	// IsInsideBlock is true while walking a block body (as opposed to
	// the method body or a plain loop).
	IsInsideBlock bool
}

func (ctx Context) WithTarget(t cfg.LocalVariable) Context {
	ctx.Target = t
	return ctx
}

// WithLoopScope enters a loop (or a block body acting as one): next
// jumps to next, break jumps to brk. insideBlock marks whether this loop
// scope is a block body rather than a plain while loop, matching the
// distinction the Next arm needs (only inside a block does `next` also
// emit a BlockReturn).
func (ctx Context) WithLoopScope(next, brk *cfg.BasicBlock, insideBlock bool) Context {
	ctx.NextScope = next
	ctx.BreakScope = brk
	ctx.IsInsideBlock = insideBlock
	return ctx
}

func (ctx Context) WithBlockBreakTarget(t cfg.LocalVariable) Context {
	ctx.BreakTarget = t
	return ctx
}

func (ctx Context) WithRescueScope(b *cfg.BasicBlock) Context {
	ctx.RescueScope = b
	return ctx
}

func (ctx Context) WithSendAndBlockLink(l *cfg.SendAndBlockLink) Context {
	ctx.Link = l
	return ctx
}

func (ctx Context) WithBlockScopeID(id int) Context {
	ctx.BlockScopeID = id
	return ctx
}

func (ctx Context) WithLoops(n int) Context {
	ctx.Loops = n
	return ctx
}

// newTemporary is a small convenience over Builder.CFG.NewTemporary; name
// is already interned (call sites pass a magicNames field or a symbol's
// name).
func (ctx Context) newTemporary(name symbols.Name) cfg.LocalVariable {
	return ctx.CFG.NewTemporary(name)
}
