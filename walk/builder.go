package walk

import (
	"context"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
	"tlog.app/go/tlog"
)

// BuildMethod is the package's top-level entrypoint: it wires a fresh
// Builder, walks body to completion, synthesizes the implicit `nil`
// return every method body falls through to if control reaches its last
// statement without an explicit `return`, and hands back the finished
// CFG. Diagnostics go to sink as they're found; a non-nil error means
// the walk hit an internal error and no CFG is returned.
func BuildMethod(goCtx context.Context, table *symbols.Table, sink diag.Sink, ownerClass symbols.Symbol, body ast.Node) (result *cfg.CFG, err error) {
	tr, goCtx := tlog.SpawnFromContextAndWrap(goCtx, "walk: build method", "owner", ownerClass)
	defer tr.Finish("blocks", func() any {
		if result == nil {
			return 0
		}
		return len(result.Blocks)
	}, "err", &err)

	b, root := NewBuilder(goCtx, table, sink, ownerClass)

	bodySym := b.CFG.NewTemporary(table.InternName("bodyTemp"))
	ctx := root.WithTarget(bodySym)

	last, walkErr := ctx.Walk(body, b.CFG.Entry)
	if walkErr != nil {
		return nil, walkErr
	}

	if last != b.CFG.DeadBlock {
		last.Emit(bodySym, ast.Loc{}, cfg.Literal{Value: symbols.LiteralValue{Kind: symbols.LiteralNil}})
		last.Emit(cfg.NoVariable, ast.Loc{}, cfg.Return{Local: bodySym})
		b.CFG.JumpToDead(last, ast.Loc{})
	}

	if invErr := b.CFG.CheckInvariants(); invErr != nil {
		return nil, &InternalError{Cause: invErr}
	}

	return b.CFG, nil
}
