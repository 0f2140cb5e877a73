package controls

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftui/weft/pkg/weft"
)

type stubContent struct {
	weft.Base
	line      string
	validated int
}

func (c *stubContent) Validate() { c.validated++ }
func (c *stubContent) Render(weft.RenderContext) weft.RenderResult {
	return weft.RenderResult{Lines: []string{c.line}}
}

func newTestTabNavigator(t *testing.T) (*TabNavigator, *weft.Scheduler, []*TabItem) {
	t.Helper()
	tn := NewTabNavigator()
	sched := weft.NewScheduler()
	weft.Attach(tn, sched)
	tn.SetViewport(40, 6)

	tabs := []*TabItem{
		NewTab("First", &stubContent{line: "first content"}),
		NewTab("Second", &stubContent{line: "second content"}),
		NewTab("Third", &stubContent{line: "third content"}),
	}
	for _, tab := range tabs {
		require.NoError(t, tn.AddTab(tab))
	}
	sched.RunUntilClean()
	return tn, sched, tabs
}

func TestTabNavigatorSelectsFirstTabByDefault(t *testing.T) {
	tn, _, tabs := newTestTabNavigator(t)
	assert.Equal(t, 0, tn.SelectedIndex())
	assert.Same(t, tabs[0], tn.SelectedTab())
}

func TestTabNavigatorShowsOneContent(t *testing.T) {
	tn, sched, _ := newTestTabNavigator(t)

	r := tn.Render(weft.RenderContext{})
	require.NotEmpty(t, r.Lines)
	assert.Contains(t, r.Lines[0], "First")
	assert.Contains(t, r.Lines[0], "Second")
	assert.Contains(t, r.Lines, "first content")
	assert.NotContains(t, r.Lines, "second content")

	tn.SetSelectedIndex(1)
	sched.RunUntilClean()
	r = tn.Render(weft.RenderContext{})
	assert.Contains(t, r.Lines, "second content")
	assert.NotContains(t, r.Lines, "first content")
}

func TestTabNavigatorHeadersAreRecycled(t *testing.T) {
	tn, sched, tabs := newTestTabNavigator(t)

	first := tn.TabToRenderer(tabs[0])
	require.NotNil(t, first)

	require.NoError(t, tn.RemoveTab(tabs[2]))
	sched.RunUntilClean()
	assert.Nil(t, tn.TabToRenderer(tabs[2]))
	assert.Same(t, first, tn.TabToRenderer(tabs[0]))
}

func TestTabNavigatorKeyboardCycles(t *testing.T) {
	tn, sched, _ := newTestTabNavigator(t)
	var changes int
	tn.OnSelectionChange = func(int, *TabItem) { changes++ }

	tn.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyRight))
	assert.Equal(t, 1, tn.SelectedIndex())
	tn.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyRight))
	tn.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyRight))
	// Cycles past the end back to the first tab.
	assert.Equal(t, 0, tn.SelectedIndex())

	tn.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyLeft))
	assert.Equal(t, 2, tn.SelectedIndex())
	assert.Equal(t, 4, changes)
	sched.RunUntilClean()
}

func TestTabNavigatorSelectionSurvivesRemoval(t *testing.T) {
	tn, sched, tabs := newTestTabNavigator(t)
	tn.SetSelectedIndex(2)

	require.NoError(t, tn.RemoveTab(tabs[0]))
	sched.RunUntilClean()
	assert.Equal(t, 1, tn.SelectedIndex())
	assert.Same(t, tabs[2], tn.SelectedTab())

	// Removing the selected tab falls back to the first.
	require.NoError(t, tn.RemoveTab(tabs[2]))
	sched.RunUntilClean()
	assert.Equal(t, 0, tn.SelectedIndex())
	assert.Same(t, tabs[1], tn.SelectedTab())
}

func TestTabNavigatorAttachesContentToScheduler(t *testing.T) {
	_, sched, tabs := newTestTabNavigator(t)

	// AddTab wires content components to the navigator's scheduler, so
	// their own invalidations get validation passes.
	second := tabs[1].Content.(*stubContent)
	before := second.validated
	second.Invalidate(weft.FlagData)
	sched.RunUntilClean()
	assert.Greater(t, second.validated, before)
}
