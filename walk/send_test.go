package walk

import (
	"context"
	"testing"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/cfg"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkSendWithoutBlockEmitsSingleSend(t *testing.T) {
	table, sink := newFixture()
	recvRef := table.NewLocalRef("recv")

	body := ast.Send{
		Recv:   ast.Local{Var: recvRef},
		Method: table.InternName("foo"),
		Args:   []ast.Node{litInt(1)},
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	var sends []cfg.Send
	for _, ins := range got.Entry.Instructions {
		if s, ok := ins.Op.(cfg.Send); ok {
			sends = append(sends, s)
		}
	}
	require.Len(t, sends, 1)
	assert.Nil(t, sends[0].Link)
}

func TestWalkSendWithBlockWiresLinkAcrossBlocks(t *testing.T) {
	table, sink := newFixture()
	recvRef := table.NewLocalRef("recv")
	argRef := table.NewLocalRef("x")

	body := ast.Send{
		Recv:   ast.Local{Var: recvRef},
		Method: table.InternName("each"),
		Block: &ast.Block{
			Args: []ast.BlockArg{{Local: argRef}},
			Body: ast.Local{Var: argRef},
		},
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	require.NoError(t, got.CheckInvariants())

	var link *cfg.SendAndBlockLink
	var loadSelf, loadYield, solve bool

	for _, b := range got.Blocks {
		for _, ins := range b.Instructions {
			switch op := ins.Op.(type) {
			case cfg.Send:
				if op.Link != nil {
					link = op.Link
				}
			case cfg.LoadSelf:
				loadSelf = true
			case cfg.LoadYieldParams:
				loadYield = true
			case cfg.SolveConstraint:
				solve = true
			}
		}
	}

	require.NotNil(t, link)
	assert.Equal(t, "each", table.NameString(link.Method))
	assert.True(t, loadSelf)
	assert.True(t, loadYield)
	assert.True(t, solve)
}

func TestWalkSendWithBlockBreakSkipsSolveConstraint(t *testing.T) {
	table, sink := newFixture()
	recvRef := table.NewLocalRef("recv")
	argRef := table.NewLocalRef("x")

	body := ast.Send{
		Recv:   ast.Local{Var: recvRef},
		Method: table.InternName("each"),
		Block: &ast.Block{
			Args: []ast.BlockArg{{Local: argRef}},
			Body: ast.Break{Expr: litInt(9)},
		},
	}

	got, err := BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)
	require.NoError(t, got.CheckInvariants())
	assert.Empty(t, sink.Diagnostics)
}
