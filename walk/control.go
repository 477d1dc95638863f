package walk

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
)

// walkIf walks the condition, splits into a then/else block pair, and
// walks each arm. When one arm always diverges the other arm's exit
// block is the whole If's continuation directly, with no join block
// inserted; a join block is only allocated when both arms fall through
// live.
func (ctx Context) walkIf(n ast.If, current *cfg.BasicBlock) *cfg.BasicBlock {
	ifSym := ctx.newTemporary(ctx.names.ifTemp)
	cont := ctx.WithTarget(ifSym).walk(n.Cond, current)

	thenBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	elseBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	ctx.CFG.ConditionalJump(cont, ifSym, thenBlock, elseBlock, ast.NodeLoc(n.Cond))

	thenEnd := ctx.walk(n.Then, thenBlock)
	elseEnd := ctx.walk(n.Else, elseBlock)

	dead := ctx.CFG.DeadBlock

	switch {
	case thenEnd == dead && elseEnd == dead:
		return dead
	case thenEnd == dead:
		return elseEnd
	case elseEnd == dead:
		return thenEnd
	default:
		join := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
		ctx.CFG.UnconditionalJump(thenEnd, join, n.Loc)
		ctx.CFG.UnconditionalJump(elseEnd, join, n.Loc)
		return join
	}
}

// walkWhile builds the header/body/breakNotCalled/continue diamond: the
// header re-tests the condition every iteration, the body loops back to
// the header, and breakNotCalled — reached only when the condition is
// false, so the loop ends without a `break` — assigns nil to the loop's own target
// before joining continueBlock. `break` skips breakNotCalled entirely
// and assigns its own value via ctx.BreakTarget instead.
func (ctx Context) walkWhile(n ast.While, current *cfg.BasicBlock) *cfg.BasicBlock {
	header := ctx.CFG.FreshBlock(ctx.Loops+1, ctx.BlockScopeID)
	breakNotCalled := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	continueBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)

	ctx.CFG.UnconditionalJump(current, header, n.Loc)

	condSym := ctx.newTemporary(ctx.names.whileTemp)
	headerEnd := ctx.WithTarget(condSym).
		WithLoopScope(header, continueBlock, false).
		WithLoops(ctx.Loops+1).
		walk(n.Cond, header)

	bodyBlock := ctx.CFG.FreshBlock(ctx.Loops+1, ctx.BlockScopeID)
	ctx.CFG.ConditionalJump(headerEnd, condSym, bodyBlock, breakNotCalled, ast.NodeLoc(n.Cond))

	bodySym := ctx.newTemporary(ctx.names.statTemp)
	body := ctx.WithTarget(bodySym).
		WithLoopScope(header, continueBlock, false).
		WithLoops(ctx.Loops+1).
		WithBlockBreakTarget(ctx.Target).
		walk(n.Body, bodyBlock)
	ctx.CFG.UnconditionalJump(body, header, n.Loc)

	breakNotCalled.EmitSynthetic(ctx.Target, n.Loc.ZeroLength(), cfg.Literal{
		Value: symbols.LiteralValue{Kind: symbols.LiteralNil},
	})
	ctx.CFG.UnconditionalJump(breakNotCalled, continueBlock, n.Loc)

	return continueBlock
}

// walkReturn always diverges: it walks the expression, records the
// Return instruction (a dead assignment — ctx.Target never runs again),
// and jumps to the dead block.
func (ctx Context) walkReturn(n ast.Return, current *cfg.BasicBlock) *cfg.BasicBlock {
	retSym := ctx.newTemporary(ctx.names.returnTemp)
	cont := ctx.WithTarget(retSym).walk(n.Expr, current)

	cont.Emit(ctx.Target, n.Loc, cfg.Return{Local: retSym})
	ctx.CFG.JumpToDead(cont, n.Loc)

	return ctx.CFG.DeadBlock
}

// walkNext jumps to ctx.NextScope (reporting diag.NoNextScope and
// falling into dead code if there is none). Inside a block body it also
// threads the value out through a BlockReturn, since a bare `next`
// inside a `do...end` is itself the block's return value.
func (ctx Context) walkNext(n ast.Next, current *cfg.BasicBlock) *cfg.BasicBlock {
	exprSym := ctx.newTemporary(ctx.names.nextTemp)
	afterNext := ctx.WithTarget(exprSym).walk(n.Expr, current)

	if afterNext != ctx.CFG.DeadBlock && ctx.IsInsideBlock {
		if ctx.Link == nil {
			internalErrorf("next inside a block body with no SendAndBlockLink")
		}

		dead := ctx.newTemporary(ctx.names.nextTemp)
		afterNext.Emit(dead, n.Loc, cfg.BlockReturn{Link: ctx.Link, Local: exprSym})
	}

	if ctx.NextScope == nil {
		ctx.Sink.Report(diag.Diagnostic{
			Kind:   diag.NoNextScope,
			Loc:    n.Loc,
			Header: "No `do` block around `next`",
		})
		ctx.CFG.UnconditionalJump(afterNext, ctx.CFG.DeadBlock, n.Loc)
	} else {
		ctx.CFG.UnconditionalJump(afterNext, ctx.NextScope, n.Loc)
	}

	return ctx.CFG.DeadBlock
}

// walkBreak routes its value through a blockBreakAssign temporary before
// assigning ctx.BreakTarget — a variable pinned outside the loop that
// would otherwise widen its type at the assignment's loop depth. Then
// jumps to ctx.BreakScope, or dead code with a diag.NoNextScope if there
// is none.
func (ctx Context) walkBreak(n ast.Break, current *cfg.BasicBlock) *cfg.BasicBlock {
	exprSym := ctx.newTemporary(ctx.names.returnTemp)
	afterBreak := ctx.WithTarget(exprSym).walk(n.Expr, current)

	blockBreakAssign := ctx.newTemporary(ctx.names.blockBreakAssign)
	afterBreak.Emit(blockBreakAssign, n.Loc, cfg.Ident{Source: exprSym})
	afterBreak.Emit(ctx.BreakTarget, n.Loc, cfg.Ident{Source: blockBreakAssign})

	if ctx.BreakScope == nil {
		ctx.Sink.Report(diag.Diagnostic{
			Kind:   diag.NoNextScope,
			Loc:    n.Loc,
			Header: "No `do` block around `break`",
		})
		ctx.CFG.UnconditionalJump(afterBreak, ctx.CFG.DeadBlock, n.Loc)
	} else {
		ctx.CFG.UnconditionalJump(afterBreak, ctx.BreakScope, n.Loc)
	}

	return ctx.CFG.DeadBlock
}

// walkRetry jumps straight back to ctx.RescueScope's start, or dead code with a diag.NoNextScope if there's no enclosing
// rescue.
func (ctx Context) walkRetry(n ast.Retry, current *cfg.BasicBlock) *cfg.BasicBlock {
	if ctx.RescueScope == nil {
		ctx.Sink.Report(diag.Diagnostic{
			Kind:   diag.NoNextScope,
			Loc:    n.Loc,
			Header: "No `begin` block around `retry`",
		})
		ctx.CFG.UnconditionalJump(current, ctx.CFG.DeadBlock, n.Loc)
	} else {
		ctx.CFG.UnconditionalJump(current, ctx.RescueScope, n.Loc)
	}

	return ctx.CFG.DeadBlock
}
