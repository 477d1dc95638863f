package walk

import (
	"fmt"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Walk converts node into blocks/instructions starting at current and
// returns the block subsequent statements continue in. Arms that always
// diverge (Return, Next, Break, Retry) return ctx.CFG.DeadBlock.
func (ctx Context) Walk(node ast.Node, current *cfg.BasicBlock) (continuation *cfg.BasicBlock, err error) {
	tr, goCtx := tlog.SpawnFromContextAndWrap(ctx.GoCtx, "walk: node", "type", fmt.Sprintf("%T", node))
	defer tr.Finish("err", &err)
	ctx.GoCtx = goCtx

	return ctx.walkRecover(node, current)
}

func (ctx Context) walkRecover(node ast.Node, current *cfg.BasicBlock) (ret *cfg.BasicBlock, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie := &InternalError{Loc: ast.NodeLoc(node)}

			switch p := r.(type) {
			case *internalPanic:
				ie.Cause = p.cause
				ie.Breadcrumbs = p.breadcrumbs
			case *cfg.InternalPanic:
				ie.Cause = p.Cause
				ie.Breadcrumbs = p.Breadcrumbs
			case error:
				ie.Cause = p
			default:
				ie.Cause = errors.New("%v", r)
			}

			ctx.Sink.Report(diag.Diagnostic{
				Kind:   diag.InternalError,
				Loc:    ie.Loc,
				Header: "Failed to convert tree to CFG",
				Args:   []any{ie.Cause},
			})

			ret, err = nil, ie
		}
	}()

	return ctx.walk(node, current), nil
}

// walk dispatches one arm per ast.Node kind. User errors go to ctx.Sink;
// internal errors panic through internalErrorf, caught by walkRecover.
func (ctx Context) walk(node ast.Node, current *cfg.BasicBlock) *cfg.BasicBlock {
	if current.Exit != nil && current != ctx.CFG.DeadBlock {
		internalErrorf("current block has already been finalized")
	}

	tlog.V("walk").Printw("walk", "node", fmt.Sprintf("%T", node), "loc", ast.NodeLoc(node))

	switch n := node.(type) {
	case ast.Literal:
		current.Emit(ctx.Target, n.Loc, cfg.Literal{Value: n.Value})
		return current

	case ast.Field:
		current.Emit(ctx.Target, n.Loc, cfg.Ident{Source: ctx.globalToLocal(n.Symbol)})
		return current

	case ast.ConstantLit:
		return ctx.walkConstantLit(n, current)

	case ast.UnresolvedIdent:
		local := ctx.unresolvedIdentToLocal(n)
		current.Emit(ctx.Target, n.Loc, cfg.Ident{Source: local})
		return current

	case ast.Local:
		current.Emit(ctx.Target, n.Loc, cfg.Ident{Source: ctx.LocalOf(n.Var)})
		return current

	case ast.Assign:
		return ctx.walkAssign(n, current)

	case ast.InsSeq:
		return ctx.walkInsSeq(n, current)

	case ast.If:
		return ctx.walkIf(n, current)

	case ast.While:
		return ctx.walkWhile(n, current)

	case ast.Return:
		return ctx.walkReturn(n, current)

	case ast.Next:
		return ctx.walkNext(n, current)

	case ast.Break:
		return ctx.walkBreak(n, current)

	case ast.Retry:
		return ctx.walkRetry(n, current)

	case ast.Send:
		return ctx.walkSend(n, current)

	case ast.Block:
		internalErrorf("should never encounter a bare block outside a send")
		return nil

	case ast.Rescue:
		return ctx.walkRescue(n, current)

	case ast.Array:
		return ctx.walkArray(n, current)

	case ast.Hash:
		return ctx.walkHash(n, current)

	case ast.Cast:
		return ctx.walkCast(n, current)

	case ast.EmptyTree:
		return current

	case ast.ClassDef:
		internalErrorf("class definitions should have been flattened out of expression position")
		return nil

	case ast.MethodDef:
		internalErrorf("method definitions should have been flattened out of expression position")
		return nil

	case ast.UnresolvedConstant:
		internalErrorf("unresolved constants should have been eliminated by the namer/resolver")
		return nil

	default:
		internalErrorf("unimplemented AST node: %T", node)
		return nil
	}
}
