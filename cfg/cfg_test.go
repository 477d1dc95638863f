package cfg

import (
	"testing"

	"github.com/glint-lang/cfgbuild/ast"
	"github.com/glint-lang/cfgbuild/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshBlockAssignsIncreasingIDs(t *testing.T) {
	c := New(0, 0)

	b1 := c.FreshBlock(0, 0)
	b2 := c.FreshBlock(1, 0)

	assert.Less(t, b1.ID, b2.ID)
	assert.Equal(t, 1, b2.LoopDepth)
}

func TestUnconditionalJumpSetsExitAndBackEdge(t *testing.T) {
	c := New(0, 0)
	b := c.FreshBlock(0, 0)

	c.UnconditionalJump(c.Entry, b, ast.Loc{})

	require.NotNil(t, c.Entry.Exit)
	assert.Equal(t, NoVariable, c.Entry.Exit.Cond)
	assert.Same(t, b, c.Entry.Exit.Then)
	assert.Same(t, b, c.Entry.Exit.Else)
	assert.Equal(t, 1, b.BackEdges[c.Entry])
}

func TestConditionalJumpMarksBothDestinationsAsJumpTargets(t *testing.T) {
	c := New(0, 0)
	thenB := c.FreshBlock(0, 0)
	elseB := c.FreshBlock(0, 0)
	names := symbols.NewTable()
	cond := c.NewTemporary(names.InternName("cond"))

	c.ConditionalJump(c.Entry, cond, thenB, elseB, ast.Loc{})

	assert.True(t, thenB.HasFlag(WasJumpDestination))
	assert.True(t, elseB.HasFlag(WasJumpDestination))
	assert.Equal(t, 1, thenB.BackEdges[c.Entry])
	assert.Equal(t, 1, elseB.BackEdges[c.Entry])
}

func TestJumpFromDeadBlockIsNoOp(t *testing.T) {
	c := New(0, 0)
	b := c.FreshBlock(0, 0)

	c.UnconditionalJump(c.DeadBlock, b, ast.Loc{})

	assert.Nil(t, c.DeadBlock.Exit)
	assert.Equal(t, 0, b.BackEdges[c.DeadBlock])
}

func TestSecondJumpFromSameBlockPanics(t *testing.T) {
	c := New(0, 0)
	a := c.FreshBlock(0, 0)
	b := c.FreshBlock(0, 0)

	c.UnconditionalJump(c.Entry, a, ast.Loc{})

	assert.Panics(t, func() {
		c.UnconditionalJump(c.Entry, b, ast.Loc{})
	})
}

func TestNewTemporaryDisambiguatorsAreUnique(t *testing.T) {
	c := New(0, 0)
	names := symbols.NewTable()
	n := names.InternName("statTemp")

	a := c.NewTemporary(n)
	b := c.NewTemporary(n)

	assert.Equal(t, a.Name, b.Name)
	assert.NotEqual(t, a.Disambiguator, b.Disambiguator)
	assert.True(t, a.Exists())
	assert.False(t, NoVariable.Exists())
}

func TestCheckInvariantsCatchesUnsetExit(t *testing.T) {
	c := New(0, 0)
	c.FreshBlock(0, 0) // never linked

	err := c.CheckInvariants()
	assert.Error(t, err)
}

func TestCheckInvariantsPassesForLinkedGraph(t *testing.T) {
	c := New(0, 0)
	b := c.FreshBlock(0, 0)

	c.UnconditionalJump(c.Entry, b, ast.Loc{})
	c.JumpToDead(b, ast.Loc{})

	assert.NoError(t, c.CheckInvariants())
}

func TestIsomorphicAcceptsTwoIdenticallyBuiltGraphs(t *testing.T) {
	build := func() *CFG {
		c := New(0, 0)
		b := c.FreshBlock(0, 0)
		c.UnconditionalJump(c.Entry, b, ast.Loc{})
		c.JumpToDead(b, ast.Loc{})
		return c
	}

	assert.NoError(t, Isomorphic(build(), build()))
}

func TestIsomorphicRejectsDifferingShapes(t *testing.T) {
	a := New(0, 0)
	b1 := a.FreshBlock(0, 0)
	a.UnconditionalJump(a.Entry, b1, ast.Loc{})
	a.JumpToDead(b1, ast.Loc{})

	other := New(0, 0)
	other.JumpToDead(other.Entry, ast.Loc{})

	assert.Error(t, Isomorphic(a, other))
}

func TestReversePostorderVisitsEveryReachableBlock(t *testing.T) {
	c := New(0, 0)
	b1 := c.FreshBlock(0, 0)
	b2 := c.FreshBlock(1, 0)

	c.UnconditionalJump(c.Entry, b1, ast.Loc{})
	c.UnconditionalJump(b1, b2, ast.Loc{})
	c.JumpToDead(b2, ast.Loc{})

	order := c.ReversePostorder()

	assert.Len(t, order, 4)
	assert.Same(t, c.Entry, order[0])
}
