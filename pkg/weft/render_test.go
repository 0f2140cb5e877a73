package weft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingComp records how many times Render ran.
type countingComp struct {
	Base
	line    string
	renders int
}

func (c *countingComp) Validate() {}
func (c *countingComp) Render(RenderContext) RenderResult {
	c.renders++
	return RenderResult{Lines: []string{c.line}}
}

func TestRenderCachedReusesCleanOutput(t *testing.T) {
	c := &countingComp{line: "hello"}
	Attach(c, NewScheduler())

	ctx := RenderContext{Width: 10, Height: 1}
	first := RenderCached(c, ctx)
	second := RenderCached(c, ctx)

	assert.Equal(t, 1, c.renders)
	assert.Equal(t, first, second)
}

func TestRenderCachedInvalidationForcesRerender(t *testing.T) {
	c := &countingComp{line: "hello"}
	Attach(c, NewScheduler())
	ctx := RenderContext{Width: 10, Height: 1}

	RenderCached(c, ctx)
	c.Invalidate(FlagData)
	c.line = "changed"

	r := RenderCached(c, ctx)
	assert.Equal(t, 2, c.renders)
	assert.Equal(t, []string{"changed"}, r.Lines)

	// Clean again: the new output is what gets reused.
	RenderCached(c, ctx)
	assert.Equal(t, 2, c.renders)
}

func TestRenderCachedConstraintChangeForcesRerender(t *testing.T) {
	c := &countingComp{line: "hello"}
	Attach(c, NewScheduler())

	RenderCached(c, RenderContext{Width: 10, Height: 1})
	RenderCached(c, RenderContext{Width: 20, Height: 1})

	assert.Equal(t, 2, c.renders)
}

func TestRenderCachedChildInvalidationReachesParentCache(t *testing.T) {
	child := &countingComp{line: "child"}
	g := &Group{}
	Attach(g, NewScheduler())
	g.Add(child)

	ctx := RenderContext{Width: 10, Height: 2}
	r := RenderCached(g, ctx)
	require.Equal(t, []string{"child"}, r.Lines)
	RenderCached(g, ctx)
	assert.Equal(t, 1, child.renders)

	// Invalidating the child must punch through the parent's cache too.
	child.Invalidate(FlagData)
	child.line = "updated"
	r = RenderCached(g, ctx)
	assert.Equal(t, 2, child.renders)
	assert.Equal(t, []string{"updated"}, r.Lines)
}
