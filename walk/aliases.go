package walk

import (
	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
)

func (ctx Context) globalToLocal(sym symbols.Symbol) cfg.LocalVariable {
	if l, ok := ctx.CFG.Aliases[sym]; ok {
		return l
	}

	l := ctx.newTemporary(ctx.Table.SymbolName(sym))
	ctx.CFG.Aliases[sym] = l

	return l
}

func (ctx Context) unresolvedIdentToLocal(id ast.UnresolvedIdent) cfg.LocalVariable {
	var klass symbols.Symbol

	switch id.Kind {
	case ast.IdentClass:
		klass = ctx.classVarOwner()
	case ast.IdentInstance:
		klass = ctx.OwnerClass
	default:
		internalErrorf("unresolved ident of kind %v should have been removed by the namer", id.Kind)
	}

	sym := ctx.Table.FindMemberTransitive(klass, id.Name)
	if sym.Exists() {
		return ctx.globalToLocal(sym)
	}

	if l, ok := ctx.CFG.DiscoveredUndeclaredFields[id.Name]; ok {
		return l
	}

	ctx.Sink.Report(diag.Diagnostic{
		Kind:   diag.UndeclaredVariable,
		Loc:    id.Loc,
		Header: "Use of undeclared variable",
		Args:   []any{ctx.Table.NameString(id.Name)},
	})

	l := ctx.newTemporary(id.Name)
	ctx.CFG.DiscoveredUndeclaredFields[id.Name] = l

	return l
}

// classVarOwner climbs AttachedClass links to the nearest non-singleton
// class.
func (ctx Context) classVarOwner() symbols.Symbol {
	klass := ctx.OwnerClass

	for {
		attached := ctx.Table.AttachedClass(klass)
		if !attached.Exists() {
			return klass
		}

		klass = attached
	}
}
