package cfgtext

import (
	"context"
	"strings"
	"testing"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/diag"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/glint-lang/cfgbuild/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpProducesOneParagraphPerBlock(t *testing.T) {
	table := symbols.NewTable()
	sink := &diag.Collector{}
	ref := table.NewLocalRef("a")

	body := ast.Assign{
		LHS: ast.Local{Var: ref},
		RHS: ast.Literal{Value: symbols.LiteralValue{Kind: symbols.LiteralInt, Int: 42}},
	}

	c, err := walk.BuildMethod(context.Background(), table, sink, symbols.Symbol{}, body)
	require.NoError(t, err)

	out, err := Dump(context.Background(), table, c)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "literal(42)")
	assert.Contains(t, text, "dead")
	assert.Equal(t, len(c.Blocks), strings.Count(text, "]:\n"))
}

func TestDumpRejectsNilCFG(t *testing.T) {
	_, err := Dump(context.Background(), symbols.NewTable(), nil)
	assert.Error(t, err)
}
