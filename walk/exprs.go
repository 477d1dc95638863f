package walk

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/symbols"
)

// walkConstantLit emits an Alias to the resolved symbol, or to
// symbols.Untyped when the resolver could only produce a stub. A qualified constant (A::B::C) carries its qualifier's
// AST in Original purely so editor features keep a location to hang off
// of; it's walked into a throwaway local that nothing downstream reads.
func (ctx Context) walkConstantLit(n ast.ConstantLit, current *cfg.BasicBlock) *cfg.BasicBlock {
	if n.Symbol == symbols.StubModule {
		current.Emit(ctx.Target, n.Loc, cfg.Alias{Symbol: symbols.Untyped})
	} else {
		current.Emit(ctx.Target, n.Loc, cfg.Alias{Symbol: n.Symbol})
	}

	if n.Original != nil {
		dead := ctx.newTemporary(ctx.names.keepForIDE)
		current = ctx.WithTarget(dead).walk(n.Original, current)
	}

	return current
}

// walkAssign resolves the LHS to a cfg local (a global/field alias, the
// local itself, or an unresolved-ident member), walks the RHS straight
// into it, then re-reads it into ctx.Target so `a = b = c` and `x = (a =
// 1)` both see the assigned value as the expression's own result.
func (ctx Context) walkAssign(n ast.Assign, current *cfg.BasicBlock) *cfg.BasicBlock {
	var lhs cfg.LocalVariable

	switch l := n.LHS.(type) {
	case ast.ConstantLit:
		lhs = ctx.globalToLocal(l.Symbol)
	case ast.Field:
		lhs = ctx.globalToLocal(l.Symbol)
	case ast.Local:
		lhs = ctx.LocalOf(l.Var)
	case ast.UnresolvedIdent:
		lhs = ctx.unresolvedIdentToLocal(l)
	default:
		internalErrorf("assignment target %T should never reach the cfg builder", n.LHS)
	}

	rhsCont := ctx.WithTarget(lhs).walk(n.RHS, current)
	rhsCont.Emit(ctx.Target, n.Loc, cfg.Ident{Source: lhs})

	return rhsCont
}

// walkInsSeq walks every statement for effect into a fresh statTemp, then
// walks the trailing expression into ctx.Target.
func (ctx Context) walkInsSeq(n ast.InsSeq, current *cfg.BasicBlock) *cfg.BasicBlock {
	for _, stat := range n.Stats {
		temp := ctx.newTemporary(ctx.names.statTemp)
		current = ctx.WithTarget(temp).walk(stat, current)
	}

	return ctx.walk(n.Expr, current)
}

// walkArray lowers a literal array into a synthetic Magic receiver and a
// buildArray send over each walked element.
func (ctx Context) walkArray(n ast.Array, current *cfg.BasicBlock) *cfg.BasicBlock {
	vars := make([]cfg.LocalVariable, 0, len(n.Elems))
	locs := make([]ast.Loc, 0, len(n.Elems))

	for _, elem := range n.Elems {
		tmp := ctx.newTemporary(ctx.names.arrayTemp)
		current = ctx.WithTarget(tmp).walk(elem, current)
		vars = append(vars, tmp)
		locs = append(locs, n.Loc)
	}

	magic := ctx.newTemporary(ctx.names.magic)
	current.EmitSynthetic(magic, n.Loc.ZeroLength(), cfg.Alias{Symbol: symbols.MagicClass})

	current.Emit(ctx.Target, n.Loc, cfg.Send{
		Recv:    magic,
		Method:  ctx.names.buildArray,
		RecvLoc: n.Loc,
		Args:    vars,
		ArgLocs: locs,
	})

	return current
}

// walkHash lowers a literal hash the same way walkArray lowers an array:
// a Magic receiver and a buildHash send over the interleaved key/value
// locals.
func (ctx Context) walkHash(n ast.Hash, current *cfg.BasicBlock) *cfg.BasicBlock {
	vars := make([]cfg.LocalVariable, 0, 2*len(n.Keys))
	locs := make([]ast.Loc, 0, 2*len(n.Keys))

	for i := range n.Keys {
		keyTmp := ctx.newTemporary(ctx.names.hashTemp)
		valTmp := ctx.newTemporary(ctx.names.hashTemp)

		current = ctx.WithTarget(keyTmp).walk(n.Keys[i], current)
		current = ctx.WithTarget(valTmp).walk(n.Values[i], current)

		vars = append(vars, keyTmp, valTmp)
		locs = append(locs, ast.NodeLoc(n.Keys[i]), ast.NodeLoc(n.Values[i]))
	}

	magic := ctx.newTemporary(ctx.names.magic)
	current.EmitSynthetic(magic, n.Loc.ZeroLength(), cfg.Alias{Symbol: symbols.MagicClass})

	current.Emit(ctx.Target, n.Loc, cfg.Send{
		Recv:    magic,
		Method:  ctx.names.buildHash,
		RecvLoc: n.Loc,
		Args:    vars,
		ArgLocs: locs,
	})

	return current
}

// walkCast walks the argument into a castTemp, emits the Cast over it, and for
// `let` pins the target's minimum loop depth to cfg.MinLoopLet so a value
// ascribed outside any loop can't spuriously widen inside one.
func (ctx Context) walkCast(n ast.Cast, current *cfg.BasicBlock) *cfg.BasicBlock {
	tmp := ctx.newTemporary(ctx.names.castTemp)
	current = ctx.WithTarget(tmp).walk(n.Arg, current)

	current.Emit(ctx.Target, n.Loc, cfg.Cast{Local: tmp, Type: n.Type, Kind: n.Kind})

	if n.Kind == ast.CastLet {
		ctx.CFG.MinLoops[ctx.Target] = cfg.MinLoopLet
	}

	return current
}
