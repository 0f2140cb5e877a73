package weft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flagSink is a minimal control that records its validations.
type flagSink struct {
	Base
	validated  int
	sawFlags   []Flag
	onValidate func(p *flagSink)
}

func (p *flagSink) Validate() {
	p.validated++
	p.sawFlags = nil
	for _, f := range []Flag{FlagData, FlagSelection, FlagStyle, FlagLayout, FlagState} {
		if p.IsInvalid(f) {
			p.sawFlags = append(p.sawFlags, f)
		}
	}
	if p.onValidate != nil {
		p.onValidate(p)
	}
}

func (p *flagSink) Render(ctx RenderContext) RenderResult { return RenderResult{} }

func TestInvalidateCoalesces(t *testing.T) {
	s := NewScheduler()
	p := &flagSink{}
	Attach(p, s)

	p.Invalidate(FlagData)
	p.Invalidate(FlagData)
	p.Invalidate(FlagSelection)

	require.True(t, s.Pending())
	s.RunPass()

	assert.Equal(t, 1, p.validated)
	assert.ElementsMatch(t, []Flag{FlagData, FlagSelection}, p.sawFlags)
	assert.False(t, p.Invalid())
}

func TestIsInvalidDoesNotClear(t *testing.T) {
	p := &flagSink{}
	Attach(p, NewScheduler())
	p.Invalidate(FlagLayout)

	assert.True(t, p.IsInvalid(FlagLayout))
	assert.True(t, p.IsInvalid(FlagLayout))
	assert.False(t, p.IsInvalid(FlagData))
}

func TestInvalidateAllFlags(t *testing.T) {
	p := &flagSink{}
	s := NewScheduler()
	Attach(p, s)

	p.Invalidate()
	assert.True(t, p.IsInvalid(FlagStyle))
	assert.True(t, p.IsInvalid(FlagCustom("anything")))

	s.RunPass()
	assert.False(t, p.Invalid())
}

func TestFlagsRaisedDuringPassDeferred(t *testing.T) {
	s := NewScheduler()
	p := &flagSink{}
	Attach(p, s)

	p.onValidate = func(p *flagSink) {
		if p.validated == 1 {
			// Re-raise from inside the pass: must not run reentrantly.
			p.Invalidate(FlagState)
			assert.False(t, p.IsInvalid(FlagState), "flag raised during pass must not join the current snapshot")
		}
	}

	p.Invalidate(FlagData)
	s.RunPass()
	assert.Equal(t, 1, p.validated)

	require.True(t, s.Pending(), "deferred flag should have re-scheduled")
	s.RunPass()
	assert.Equal(t, 2, p.validated)
	assert.ElementsMatch(t, []Flag{FlagState}, p.sawFlags)
}

func TestRunUntilCleanBoundsCycles(t *testing.T) {
	s := NewScheduler()
	p := &flagSink{}
	Attach(p, s)
	p.onValidate = func(p *flagSink) { p.Invalidate(FlagData) }
	p.Invalidate(FlagData)

	assert.PanicsWithValue(t,
		InvariantError{Op: "RunUntilClean", Detail: "controls kept re-invalidating after 100 passes"},
		func() { s.RunUntilClean() })
}

func TestCleanControlSkipsValidate(t *testing.T) {
	s := NewScheduler()
	p := &flagSink{}
	Attach(p, s)

	s.RunPass()
	assert.Equal(t, 0, p.validated)

	p.Invalidate(FlagData)
	s.RunPass()
	s.RunPass()
	assert.Equal(t, 1, p.validated)
}

func TestGroupPropagatesAttach(t *testing.T) {
	s := NewScheduler()
	g := &Group{}
	child := &flagSink{}
	Attach(g, s)
	g.Add(child)

	child.Invalidate(FlagData)
	s.RunUntilClean()
	assert.Equal(t, 1, child.validated)
	assert.Equal(t, g, child.Parent())
}
