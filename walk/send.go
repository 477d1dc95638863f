package walk

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
	"tlog.app/go/tlog"
)

// walkSend walks receiver and args left to right into fresh statTemps and
// emits one Send. `T.absurd(x)` is special-cased into TAbsurd.
func (ctx Context) walkSend(n ast.Send, current *cfg.BasicBlock) *cfg.BasicBlock {
	if n.Method == ctx.names.absurd {
		if cnst, ok := n.Recv.(ast.ConstantLit); ok && cnst.Symbol == symbols.TModule {
			return ctx.walkTAbsurd(n, current)
		}
	}

	recv := ctx.newTemporary(ctx.names.statTemp)
	current = ctx.WithTarget(recv).walk(n.Recv, current)

	args := make([]cfg.LocalVariable, 0, len(n.Args))
	argLocs := make([]ast.Loc, 0, len(n.Args))

	for _, a := range n.Args {
		temp := ctx.newTemporary(ctx.names.statTemp)
		current = ctx.WithTarget(temp).walk(a, current)
		args = append(args, temp)
		argLocs = append(argLocs, ast.NodeLoc(a))
	}

	if n.Block == nil {
		current.Emit(ctx.Target, n.Loc, cfg.Send{
			Recv:        recv,
			Method:      n.Method,
			RecvLoc:     ast.NodeLoc(n.Recv),
			Args:        args,
			ArgLocs:     argLocs,
			IsPrivateOk: n.IsPrivateOk,
		})
		return current
	}

	return ctx.walkSendWithBlock(n, recv, args, argLocs, current)
}

func (ctx Context) walkTAbsurd(n ast.Send, current *cfg.BasicBlock) *cfg.BasicBlock {
	if len(n.Args) != 1 {
		ctx.Sink.Report(diag.Diagnostic{
			Kind:   diag.MalformedTAbsurd,
			Loc:    n.Loc,
			Header: "`T.absurd` expects exactly one argument",
			Args:   []any{len(n.Args)},
		})
		return current
	}

	if _, ok := n.Args[0].(ast.Send); ok {
		ctx.Sink.Report(diag.Diagnostic{
			Kind:   diag.MalformedTAbsurd,
			Loc:    n.Loc,
			Header: "`T.absurd` expects to be called on a variable, not a method call",
		})
		return current
	}

	temp := ctx.newTemporary(ctx.names.statTemp)
	current = ctx.WithTarget(temp).walk(n.Args[0], current)
	current.Emit(ctx.Target, n.Loc, cfg.TAbsurd{Local: temp})

	return current
}

// walkSendWithBlock lowers `recv.method(args) { |...| body }` into the
// header/body/solveConstraint/post diamond, sharing a SendAndBlockLink
// between the call and its SolveConstraint.
func (ctx Context) walkSendWithBlock(n ast.Send, recv cfg.LocalVariable, args []cfg.LocalVariable, argLocs []ast.Loc, current *cfg.BasicBlock) (ret *cfg.BasicBlock) {
	tr, goCtx := tlog.SpawnFromContextAndWrap(ctx.GoCtx, "walk: send with block", "method", ctx.Table.NameString(n.Method))
	ctx.GoCtx = goCtx
	defer tr.Finish("post", func() int { return ret.ID })

	newBlockScopeID := ctx.CFG.NewBlockScope()

	argFlags := make([]cfg.ArgFlags, 0, len(n.Block.Args))
	for _, a := range n.Block.Args {
		argFlags = append(argFlags, cfg.ArgFlags{
			Keyword:    a.Keyword,
			Repeated:   a.Repeated,
			HasDefault: a.Default,
			Shadow:     a.Shadow,
		})
	}

	link := &cfg.SendAndBlockLink{Method: n.Method, ArgFlags: argFlags, BlockScopeID: newBlockScopeID}

	sendTemp := ctx.newTemporary(ctx.names.blockPreCallTemp)
	current.Emit(sendTemp, n.Loc, cfg.Send{
		Recv:        recv,
		Method:      n.Method,
		RecvLoc:     ast.NodeLoc(n.Recv),
		Args:        args,
		ArgLocs:     argLocs,
		IsPrivateOk: n.IsPrivateOk,
		Link:        link,
	})

	restoreSelf := ctx.newTemporary(ctx.names.selfRestore)
	self := cfg.SelfVariable
	current.EmitSynthetic(restoreSelf, ast.Loc{}, cfg.Ident{Source: self})

	header := ctx.CFG.FreshBlock(ctx.Loops+1, newBlockScopeID)
	solveConstraintBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	postBlock := ctx.CFG.FreshBlock(ctx.Loops, ctx.BlockScopeID)
	bodyBlock := ctx.CFG.FreshBlock(ctx.Loops+1, newBlockScopeID)

	argTemp := ctx.newTemporary(ctx.names.blkArg)
	idxTemp := ctx.newTemporary(ctx.names.blkArg)

	bodyBlock.Emit(self, n.Loc, cfg.LoadSelf{Link: link, SelfLocal: self})
	bodyBlock.Emit(argTemp, ast.NodeLoc(n.Block), cfg.LoadYieldParams{Link: link})

	for i, arg := range n.Block.Args {
		if arg.Repeated {
			if i != 0 {
				bodyBlock.Emit(ctx.LocalOf(arg.Local), arg.Loc, cfg.Alias{Symbol: symbols.Untyped})
			} else {
				bodyBlock.Emit(ctx.LocalOf(arg.Local), arg.Loc, cfg.Ident{Source: argTemp})
			}
			continue
		}

		zeroLoc := arg.Loc.ZeroLength()
		bodyBlock.Emit(idxTemp, zeroLoc, cfg.Literal{
			Value: symbols.LiteralValue{Kind: symbols.LiteralInt, Int: int64(i)},
		})
		bodyBlock.Emit(ctx.LocalOf(arg.Local), arg.Loc, cfg.Send{
			Recv:    argTemp,
			Method:  ctx.names.squareBrackets,
			RecvLoc: zeroLoc,
			Args:    []cfg.LocalVariable{idxTemp},
			ArgLocs: []ast.Loc{zeroLoc},
		})
	}

	ctx.CFG.ConditionalJump(header, cfg.BlockCallVariable, bodyBlock, solveConstraintBlock, n.Loc)
	ctx.CFG.UnconditionalJump(current, header, n.Loc)

	blockrv := ctx.newTemporary(ctx.names.blockReturnTemp)
	blockLast := ctx.WithTarget(blockrv).
		WithBlockBreakTarget(ctx.Target).
		WithLoopScope(header, postBlock, true).
		WithLoops(ctx.Loops+1).
		WithSendAndBlockLink(link).
		WithBlockScopeID(newBlockScopeID).
		walk(n.Block.Body, bodyBlock)

	if blockLast != ctx.CFG.DeadBlock {
		dead := ctx.newTemporary(ctx.names.blockReturnTemp)
		blockLast.EmitSynthetic(dead, ast.NodeLoc(n.Block), cfg.BlockReturn{Link: link, Local: blockrv})
	}

	ctx.CFG.UnconditionalJump(blockLast, header, n.Loc)
	ctx.CFG.UnconditionalJump(solveConstraintBlock, postBlock, n.Loc)

	solveConstraintBlock.Emit(ctx.Target, n.Loc, cfg.SolveConstraint{Link: link, SendResult: sendTemp})

	postBlock.EmitSynthetic(self, n.Loc, cfg.Ident{Source: restoreSelf})

	ret = postBlock
	return ret
}
