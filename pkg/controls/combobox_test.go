package controls

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

func newTestComboBox(t *testing.T) (*ComboBox, *weft.Scheduler, []*poolItem) {
	t.Helper()
	items := []*poolItem{{"apple"}, {"banana"}, {"cherry"}, {"apricot"}}
	vals := make([]any, len(items))
	for i := range items {
		vals[i] = items[i]
	}
	cb := NewComboBox()
	cb.ItemToText = func(item any) string { return item.(*poolItem).name }
	sched := weft.NewScheduler()
	weft.Attach(cb, sched)
	cb.SetViewport(20)
	cb.SetData(collections.NewArrayList(vals...))
	sched.RunUntilClean()
	return cb, sched, items
}

func typeText(cb *ComboBox, s string) {
	for _, r := range s {
		cb.HandleKeyPress(weft.EventContext{}, uv.KeyPressEvent{Code: r, Text: string(r)})
	}
}

func TestComboBoxCommitOnEnter(t *testing.T) {
	cb, sched, items := newTestComboBox(t)
	var changes []any
	cb.OnSelectionChange = func(_ int, item any) { changes = append(changes, item) }

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	require.True(t, cb.IsOpen())
	sched.RunUntilClean()

	// Navigating the open popup is pending state only.
	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyDown))
	assert.Equal(t, -1, cb.SelectedIndex())
	assert.Empty(t, changes)

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	assert.False(t, cb.IsOpen())
	assert.Equal(t, 1, cb.SelectedIndex())
	assert.Same(t, items[1], cb.SelectedItem())
	assert.Equal(t, []any{items[1]}, changes)
	sched.RunUntilClean()
}

func TestComboBoxEscapeDiscardsPending(t *testing.T) {
	cb, sched, items := newTestComboBox(t)
	cb.SetSelectedIndex(0)
	var changes int
	cb.OnSelectionChange = func(int, any) { changes++ }

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	sched.RunUntilClean()
	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyDown))
	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEscape))

	assert.False(t, cb.IsOpen())
	assert.Equal(t, 0, cb.SelectedIndex())
	assert.Same(t, items[0], cb.SelectedItem())
	assert.Zero(t, changes)
}

func TestComboBoxTypeToFilter(t *testing.T) {
	cb, sched, items := newTestComboBox(t)

	cb.Open()
	sched.RunUntilClean()
	typeText(cb, "ap")

	// Fuzzy match keeps apple and apricot.
	assert.Equal(t, 2, cb.popupData.Len())
	sched.RunUntilClean()

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	assert.Same(t, items[0], cb.SelectedItem())
	// The committed index is resolved against the unfiltered source.
	assert.Equal(t, 0, cb.SelectedIndex())
}

func TestComboBoxFilterCommitResolvesUnfilteredIndex(t *testing.T) {
	cb, sched, items := newTestComboBox(t)

	cb.Open()
	sched.RunUntilClean()
	typeText(cb, "cher")
	require.Equal(t, 1, cb.popupData.Len())
	sched.RunUntilClean()

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	assert.Same(t, items[2], cb.SelectedItem())
	assert.Equal(t, 2, cb.SelectedIndex())
}

func TestComboBoxBackspaceWidensFilter(t *testing.T) {
	cb, sched, _ := newTestComboBox(t)

	cb.Open()
	sched.RunUntilClean()
	typeText(cb, "apr")
	require.Equal(t, 1, cb.popupData.Len())

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyBackspace))
	assert.Equal(t, 2, cb.popupData.Len())
	sched.RunUntilClean()
}

func TestComboBoxRenderClosedAndOpen(t *testing.T) {
	cb, sched, _ := newTestComboBox(t)
	cb.Placeholder = "pick one"

	r := cb.Render(weft.RenderContext{})
	require.Len(t, r.Lines, 1)
	assert.Contains(t, r.Lines[0], "pick one")

	cb.Open()
	sched.RunUntilClean()
	r = cb.Render(weft.RenderContext{})
	assert.Greater(t, len(r.Lines), 1)
	assert.Contains(t, r.Lines[1], "apple")
}

func TestComboBoxLosingFocusDiscards(t *testing.T) {
	cb, sched, _ := newTestComboBox(t)
	cb.SetFocused(true)
	cb.Open()
	sched.RunUntilClean()
	var changes int
	cb.OnSelectionChange = func(int, any) { changes++ }

	cb.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyDown))
	cb.SetFocused(false)

	assert.False(t, cb.IsOpen())
	assert.Zero(t, changes)
	assert.Equal(t, -1, cb.SelectedIndex())
}
