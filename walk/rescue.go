package walk

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/symbols"
	"tlog.app/go/tlog"
)

// walkRescue lowers the full try/rescue/else/ensure skeleton. A single
// Unanalyzable gate at rescueStartBlock and another at shouldEnsureBlock
// stand in for "did something throw between here and there".
func (ctx Context) walkRescue(n ast.Rescue, current *cfg.BasicBlock) (ret *cfg.BasicBlock) {
	tr, goCtx := tlog.SpawnFromContextAndWrap(ctx.GoCtx, "walk: rescue", "cases", len(n.RescueCases))
	ctx.GoCtx = goCtx
	defer tr.Finish("cont", func() int { return ret.ID })

	rescueStartBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	ctx.CFG.UnconditionalJump(current, rescueStartBlock, n.Loc)

	bctx := ctx.WithRescueScope(rescueStartBlock)

	rescueHandlersBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	bodyBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)

	rescueStartTemp := ctx.newTemporary(ctx.names.rescueStartTemp)
	rescueStartBlock.EmitSynthetic(rescueStartTemp, n.Loc, cfg.Unanalyzable{})
	ctx.CFG.ConditionalJump(rescueStartBlock, rescueStartTemp, rescueHandlersBlock, bodyBlock, n.Loc)

	bodyBlock = bctx.walk(n.Body, bodyBlock)

	elseBody := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	ctx.CFG.UnconditionalJump(bodyBlock, elseBody, n.Loc)
	elseBody = bctx.walk(n.Else, elseBody)

	ensureBody := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	shouldEnsureBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	ctx.CFG.UnconditionalJump(elseBody, shouldEnsureBlock, n.Loc)

	rescueEndTemp := ctx.newTemporary(ctx.names.rescueEndTemp)
	shouldEnsureBlock.EmitSynthetic(rescueEndTemp, n.Loc, cfg.Unanalyzable{})
	ctx.CFG.ConditionalJump(shouldEnsureBlock, rescueEndTemp, rescueHandlersBlock, ensureBody, n.Loc)

	for _, rc := range n.RescueCases {
		caseBody := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
		local := ctx.LocalOf(rc.Var)
		rescueHandlersBlock.Emit(local, rc.Loc, cfg.Unanalyzable{})

		exceptions := rc.Exceptions
		if len(exceptions) == 0 {
			standardError := ast.ConstantLit{Symbol: symbols.StandardError}
			standardError.Loc = rc.Loc
			exceptions = []ast.Node{standardError}
		}

		for _, ex := range exceptions {
			loc := ast.NodeLoc(ex)
			exceptionClass := ctx.newTemporary(ctx.names.exceptionClass)
			rescueHandlersBlock = ctx.WithTarget(exceptionClass).walk(ex, rescueHandlersBlock)

			isaCheck := ctx.newTemporary(ctx.names.isaCheckTemp)
			rescueHandlersBlock.Emit(isaCheck, loc, cfg.Send{
				Recv:    local,
				Method:  ctx.names.isAP,
				RecvLoc: loc,
				Args:    []cfg.LocalVariable{exceptionClass},
				ArgLocs: []ast.Loc{loc},
			})

			otherHandlerBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
			ctx.CFG.ConditionalJump(rescueHandlersBlock, isaCheck, caseBody, otherHandlerBlock, loc)
			rescueHandlersBlock = otherHandlerBlock
		}

		caseBody = bctx.walk(rc.Body, caseBody)
		ctx.CFG.UnconditionalJump(caseBody, ensureBody, rc.Loc)
	}

	// If no rescue case's is_a? matched, the exception keeps propagating:
	// after ensure runs, jump to dead instead of falling out normally.
	gotoDeadTemp := ctx.newTemporary(ctx.names.gotoDeadTemp)
	rescueHandlersBlock.EmitSynthetic(gotoDeadTemp, n.Loc.ZeroLength(), cfg.Literal{
		Value: symbols.LiteralValue{Kind: symbols.LiteralTrue},
	})
	ctx.CFG.UnconditionalJump(rescueHandlersBlock, ensureBody, n.Loc)

	throwAway := ctx.newTemporary(ctx.names.throwAwayTemp)
	ensureBody = ctx.WithTarget(throwAway).walk(n.Ensure, ensureBody)

	after := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	ctx.CFG.ConditionalJump(ensureBody, gotoDeadTemp, ctx.CFG.DeadBlock, after, n.Loc)

	ret = after
	return ret
}
