package walk

import (
	"context"
	"testing"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture() (*symbols.Table, *diag.Collector) {
	return symbols.NewTable(), &diag.Collector{}
}

func litInt(v int64) ast.Literal {
	return ast.Literal{Value: symbols.LiteralValue{Kind: symbols.LiteralInt, Int: v}}
}

func TestBuildMethodLiteralAssign(t *testing.T) {
	table, sink := newFixture()
	ref := table.NewLocalRef("a")

	body := ast.Assign{LHS: ast.Local{Var: ref}, RHS: litInt(1)}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	assert.Empty(t, sink.Diagnostics)
	assert.NoError(t, got.CheckInvariants())

	var sawIdent bool
	for _, ins := range got.Entry.Instructions {
		if _, ok := ins.Op.(cfg.Ident); ok {
			sawIdent = true
		}
	}
	assert.True(t, sawIdent, "assign should re-read the lhs into the assign's own target")
}

func TestBuildMethodInsSeqOrdersStatementsBeforeExpr(t *testing.T) {
	table, sink := newFixture()

	body := ast.InsSeq{
		Stats: []ast.Node{litInt(1), litInt(2)},
		Expr:  litInt(3),
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	var lits []int64
	for _, ins := range got.Entry.Instructions {
		if l, ok := ins.Op.(cfg.Literal); ok {
			lits = append(lits, l.Value.Int)
		}
	}
	// two statement literals plus the trailing expression's literal, then
	// the `nil` literal of the synthesized fallback return, which is emitted
	// because the body's continuation is live.
	require.GreaterOrEqual(t, len(lits), 3)
	assert.Equal(t, []int64{1, 2, 3}, lits[:3])
}

func TestWalkIfJoinsWhenBothArmsLive(t *testing.T) {
	table, sink := newFixture()
	ref := table.NewLocalRef("cond")

	body := ast.If{
		Cond: ast.Local{Var: ref},
		Then: litInt(1),
		Else: litInt(2),
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	require.NoError(t, got.CheckInvariants())

	// entry -> cond eval -> conditional jump into two blocks that both join
	// into one more block before the synthesized return.
	assert.True(t, len(got.Blocks) >= 5)
}

func TestWalkIfSkipsJoinWhenOneArmDiverges(t *testing.T) {
	table, sink := newFixture()
	ref := table.NewLocalRef("cond")

	body := ast.If{
		Cond: ast.Local{Var: ref},
		Then: ast.Return{Expr: litInt(1)},
		Else: litInt(2),
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	require.NoError(t, got.CheckInvariants())

	// no join block: the else block's own continuation is reused directly,
	// so it should flow straight into the synthesized final return.
	found := false
	for _, b := range got.Blocks {
		if b.Exit != nil && !b.Exit.IsConditional() && b.Exit.Then == got.DeadBlock {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWalkWhileBreakSkipsNilFallback(t *testing.T) {
	table, sink := newFixture()
	condRef := table.NewLocalRef("cond")
	aRef := table.NewLocalRef("a")

	loop := ast.While{
		Cond: ast.Local{Var: condRef},
		Body: ast.Break{Expr: litInt(7)},
	}
	body := ast.Assign{LHS: ast.Local{Var: aRef}, RHS: loop}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	require.NoError(t, got.CheckInvariants())
	assert.Empty(t, sink.Diagnostics)
}

func TestWalkNextOutsideLoopReportsDiagnostic(t *testing.T) {
	table, sink := newFixture()

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, ast.Next{Expr: ast.EmptyTree{}})
	require.NoError(t, err)

	assert.True(t, sink.HasKind(diag.NoNextScope))
}

func TestWalkBreakOutsideLoopReportsDiagnostic(t *testing.T) {
	table, sink := newFixture()

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, ast.Break{Expr: ast.EmptyTree{}})
	require.NoError(t, err)

	assert.True(t, sink.HasKind(diag.NoNextScope))
}

func TestWalkRetryOutsideRescueReportsDiagnostic(t *testing.T) {
	table, sink := newFixture()

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, ast.Retry{})
	require.NoError(t, err)

	assert.True(t, sink.HasKind(diag.NoNextScope))
}

func TestWalkArrayBuildsViaMagicSend(t *testing.T) {
	table, sink := newFixture()

	body := ast.Array{Elems: []ast.Node{litInt(1), litInt(2), litInt(3)}}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	var send *cfg.Send
	for _, ins := range got.Entry.Instructions {
		if s, ok := ins.Op.(cfg.Send); ok {
			send = &s
		}
	}
	require.NotNil(t, send)
	assert.Equal(t, "buildArray", table.NameString(send.Method))
	assert.Len(t, send.Args, 3)
}

func TestWalkHashBuildsViaMagicSend(t *testing.T) {
	table, sink := newFixture()

	body := ast.Hash{Keys: []ast.Node{litInt(1)}, Values: []ast.Node{litInt(2)}}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	var send *cfg.Send
	for _, ins := range got.Entry.Instructions {
		if s, ok := ins.Op.(cfg.Send); ok {
			send = &s
		}
	}
	require.NotNil(t, send)
	assert.Equal(t, "buildHash", table.NameString(send.Method))
	assert.Len(t, send.Args, 2)
}

func TestWalkCastLetPinsMinLoop(t *testing.T) {
	table, sink := newFixture()
	tp := table.AddType("Integer")

	body := ast.Cast{Arg: litInt(1), Type: tp, Kind: ast.CastLet}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	found := false
	for local, depth := range got.MinLoops {
		_ = local
		if depth == cfg.MinLoopLet {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWalkTAbsurdValid(t *testing.T) {
	table, sink := newFixture()
	ref := table.NewLocalRef("x")
	tModule := ast.ConstantLit{Symbol: symbols.TModule}

	body := ast.Send{
		Recv:   tModule,
		Method: table.InternName("absurd"),
		Args:   []ast.Node{ast.Local{Var: ref}},
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	assert.Empty(t, sink.Diagnostics)

	found := false
	for _, ins := range got.Entry.Instructions {
		if _, ok := ins.Op.(cfg.TAbsurd); ok {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWalkTAbsurdMalformedArgCount(t *testing.T) {
	table, sink := newFixture()
	tModule := ast.ConstantLit{Symbol: symbols.TModule}

	body := ast.Send{
		Recv:   tModule,
		Method: table.InternName("absurd"),
		Args:   []ast.Node{litInt(1), litInt(2)},
	}

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	assert.True(t, sink.HasKind(diag.MalformedTAbsurd))
}

func TestWalkTAbsurdMalformedSendArgument(t *testing.T) {
	table, sink := newFixture()
	tModule := ast.ConstantLit{Symbol: symbols.TModule}
	innerSend := ast.Send{Recv: litInt(1), Method: table.InternName("foo")}

	body := ast.Send{
		Recv:   tModule,
		Method: table.InternName("absurd"),
		Args:   []ast.Node{innerSend},
	}

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	assert.True(t, sink.HasKind(diag.MalformedTAbsurd))
}

func TestWalkErasedClassDefIsInternalError(t *testing.T) {
	table, sink := newFixture()

	_, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, ast.ClassDef{})
	require.Error(t, err)

	var ie *InternalError
	assert.ErrorAs(t, err, &ie)
	assert.True(t, sink.HasKind(diag.InternalError))
}

func TestBuildMethodIsIdempotent(t *testing.T) {
	table, _ := newFixture()
	condRef := table.NewLocalRef("cond")
	aRef := table.NewLocalRef("a")
	bRef := table.NewLocalRef("b")

	loop := ast.While{
		Cond: ast.Local{Var: condRef},
		Body: ast.Break{Expr: litInt(7)},
	}

	body := ast.InsSeq{
		Stats: []ast.Node{
			ast.Assign{LHS: ast.Local{Var: aRef}, RHS: loop},
			ast.If{
				Cond: ast.Local{Var: condRef},
				Then: litInt(1),
				Else: litInt(2),
			},
		},
		Expr: ast.Assign{
			LHS: ast.Local{Var: bRef},
			RHS: ast.Array{Elems: []ast.Node{litInt(1), litInt(2), litInt(3)}},
		},
	}

	first, err := BuildMethod(context.Background(), table, &diag.Collector{}, symbols.Symbol{}, body)
	require.NoError(t, err)

	second, err := BuildMethod(context.Background(), table, &diag.Collector{}, symbols.Symbol{}, body)
	require.NoError(t, err)

	assert.NoError(t, cfg.Isomorphic(first, second))
}
