// Package cfgtext renders a built cfg.CFG as deterministic text, good
// enough to diff in a test. It never mutates what it's given.
package cfgtext

import (
	"context"

	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

// Dump renders every block reachable from c.Entry in c.ReversePostorder
// order, one block per paragraph, instructions in emission order,
// terminated by the block's exit. Blocks not reachable from the entry
// are not rendered.
func Dump(ctx context.Context, table *symbols.Table, c *cfg.CFG) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil cfg")
	}

	var b []byte

	for _, blk := range c.ReversePostorder() {
		b = dumpBlock(b, table, c, blk)
	}

	return b, nil
}

func dumpBlock(b []byte, table *symbols.Table, c *cfg.CFG, blk *cfg.BasicBlock) []byte {
	name := "bb"
	if blk == c.DeadBlock {
		name = "dead"
	}

	b = hfmt.Appendf(b, "%s%d [loop=%d scope=%d]:\n", name, blk.ID, blk.LoopDepth, blk.BlockScopeID)

	for _, ins := range blk.Instructions {
		b = dumpInstruction(b, table, ins)
	}

	b = dumpExit(b, table, blk)
	b = append(b, '\n')

	return b
}

func dumpInstruction(b []byte, table *symbols.Table, ins cfg.Instruction) []byte {
	mark := ""
	if ins.Synthetic {
		mark = " (synthetic)"
	}

	b = hfmt.Appendf(b, "  %s = ", local(table, ins.Target))
	b = dumpOp(b, table, ins.Op)
	b = hfmt.Appendf(b, "%s\n", mark)

	return b
}

func dumpOp(b []byte, table *symbols.Table, op cfg.InstructionOp) []byte {
	switch op := op.(type) {
	case cfg.Literal:
		return hfmt.Appendf(b, "literal(%s)", literalString(op.Value))
	case cfg.Ident:
		return hfmt.Appendf(b, "ident(%s)", local(table, op.Source))
	case cfg.Alias:
		return hfmt.Appendf(b, "alias(%s)", table.NameString(table.SymbolName(op.Symbol)))
	case cfg.Send:
		b = hfmt.Appendf(b, "send(%s, %s", local(table, op.Recv), table.NameString(op.Method))
		for _, a := range op.Args {
			b = hfmt.Appendf(b, ", %s", local(table, a))
		}
		if op.Link != nil {
			b = hfmt.Appendf(b, ", &block%d", op.Link.BlockScopeID)
		}
		return append(b, ')')
	case cfg.Return:
		return hfmt.Appendf(b, "return(%s)", local(table, op.Local))
	case cfg.BlockReturn:
		return hfmt.Appendf(b, "blockReturn(%s)", local(table, op.Local))
	case cfg.LoadSelf:
		return hfmt.Appendf(b, "loadSelf(&block%d)", op.Link.BlockScopeID)
	case cfg.LoadYieldParams:
		return hfmt.Appendf(b, "loadYieldParams(&block%d)", op.Link.BlockScopeID)
	case cfg.SolveConstraint:
		return hfmt.Appendf(b, "solveConstraint(&block%d, %s)", op.Link.BlockScopeID, local(table, op.SendResult))
	case cfg.Cast:
		return hfmt.Appendf(b, "cast(%s, %s)", local(table, op.Local), table.TypeString(op.Type))
	case cfg.TAbsurd:
		return hfmt.Appendf(b, "tAbsurd(%s)", local(table, op.Local))
	case cfg.Unanalyzable:
		return append(b, "unanalyzable()"...)
	default:
		return hfmt.Appendf(b, "unknown(%T)", op)
	}
}

func dumpExit(b []byte, table *symbols.Table, blk *cfg.BasicBlock) []byte {
	if blk.Exit == nil {
		return append(b, "  (no exit)\n"...)
	}

	if blk.Exit.IsConditional() {
		return hfmt.Appendf(b, "  if %s then bb%d else bb%d\n", local(table, blk.Exit.Cond), blk.Exit.Then.ID, blk.Exit.Else.ID)
	}

	return hfmt.Appendf(b, "  jump bb%d\n", blk.Exit.Then.ID)
}

func local(table *symbols.Table, lv cfg.LocalVariable) string {
	if !lv.Exists() {
		return "_"
	}

	return string(hfmt.Appendf(nil, "%s$%d", table.NameString(lv.Name), lv.Disambiguator))
}

func literalString(v symbols.LiteralValue) string {
	switch v.Kind {
	case symbols.LiteralInt:
		return string(hfmt.Appendf(nil, "%d", v.Int))
	case symbols.LiteralFloat:
		return string(hfmt.Appendf(nil, "%d", v.Int))
	case symbols.LiteralString:
		return string(hfmt.Appendf(nil, "%q", v.Str))
	case symbols.LiteralSymbol:
		return string(hfmt.Appendf(nil, ":%v", v.Sym))
	case symbols.LiteralNil:
		return "nil"
	case symbols.LiteralTrue:
		return "true"
	case symbols.LiteralFalse:
		return "false"
	default:
		return "?"
	}
}
