package controls

import (
	"fmt"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

func keyPress(code rune) uv.KeyPressEvent {
	return uv.KeyPressEvent{Code: code}
}

func newTestListView(t *testing.T, n int) (*ListView, *collections.ArrayList, *weft.Scheduler, []*poolItem) {
	t.Helper()
	items := make([]*poolItem, n)
	vals := make([]any, n)
	for i := range items {
		items[i] = &poolItem{name: fmt.Sprintf("item-%02d", i)}
		vals[i] = items[i]
	}
	list := collections.NewArrayList(vals...)

	lv := NewListView()
	lv.ItemToText = func(item any) string { return item.(*poolItem).name }
	sched := weft.NewScheduler()
	weft.Attach(lv, sched)
	lv.SetViewport(20, 5)
	lv.SetData(list)
	sched.RunUntilClean()
	return lv, list, sched, items
}

func TestListViewRendersOnlyViewport(t *testing.T) {
	lv, _, _, items := newTestListView(t, 50)

	assert.NotNil(t, lv.ItemToRenderer(items[0]))
	assert.NotNil(t, lv.ItemToRenderer(items[4]))
	assert.Nil(t, lv.ItemToRenderer(items[5]))
	assert.Nil(t, lv.ItemToRenderer(items[49]))

	r := lv.Render(weft.RenderContext{})
	assert.Len(t, r.Lines, 5)
	assert.Contains(t, r.Lines[0], "item-00")

	assert.Equal(t, 3, lv.ItemToDisplayIndex(items[3]))
	assert.Equal(t, -1, lv.ItemToDisplayIndex(items[20]))
}

func TestListViewScrollRecyclesRenderers(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 50)
	first := lv.ItemToRenderer(items[0])
	require.NotNil(t, first)

	lv.ScrollTo(10)
	sched.RunUntilClean()

	assert.Nil(t, lv.ItemToRenderer(items[0]))
	assert.NotNil(t, lv.ItemToRenderer(items[10]))
	// The renderer that showed item 0 was rebound, not destroyed.
	assert.Equal(t, items[10], lv.RendererToItem(lv.ItemToRenderer(items[10])))
}

func TestListViewItemToTextRefreshesWithoutRecreate(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 10)

	var created int
	rc := &Recycler{Create: func() ItemRenderer { created++; return NewRowRenderer() }}
	lv.SetRecycler(rc)
	sched.RunUntilClean()
	require.Equal(t, 5, created)
	row := lv.ItemToRenderer(items[0]).(*RowRenderer)
	require.Equal(t, "item-00", row.Text())

	lv.SetItemToText(func(item any) string { return "renamed " + item.(*poolItem).name })
	sched.RunUntilClean()

	// Same renderer instances, new text.
	assert.Equal(t, 5, created)
	assert.Same(t, row, lv.ItemToRenderer(items[0]).(*RowRenderer))
	assert.Equal(t, "renamed item-00", row.Text())
}

func TestListViewDataEventsCoalesceIntoOnePass(t *testing.T) {
	lv, list, sched, _ := newTestListView(t, 10)
	_ = lv

	list.Add(&poolItem{name: "x"})
	list.Add(&poolItem{name: "y"})
	list.RemoveAt(0)
	require.True(t, sched.Pending())
	sched.RunPass()
	assert.False(t, sched.Pending())
}

func TestListViewSelectionNotifiesOnce(t *testing.T) {
	lv, list, sched, items := newTestListView(t, 10)
	var changes int
	lv.OnSelectionChange = func(index int, item any) { changes++ }

	lv.SetSelectedIndex(3)
	require.Equal(t, 1, changes)
	require.Same(t, items[3], lv.SelectedItem())

	list.RemoveAt(0)
	sched.RunUntilClean()

	assert.Equal(t, 2, changes)
	assert.Equal(t, 2, lv.SelectedIndex())
	assert.Same(t, items[3], lv.SelectedItem())
}

func TestListViewKeyboardNavigation(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 10)

	require.True(t, lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyDown)))
	assert.Equal(t, 0, lv.SelectedIndex())

	lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyDown))
	assert.Equal(t, 1, lv.SelectedIndex())

	lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnd))
	assert.Equal(t, 9, lv.SelectedIndex())

	lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyUp))
	assert.Equal(t, 8, lv.SelectedIndex())

	lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyHome))
	assert.Equal(t, 0, lv.SelectedIndex())

	var triggered []any
	lv.OnItemTrigger = func(item any, index int) { triggered = append(triggered, item) }
	lv.HandleKeyPress(weft.EventContext{}, keyPress(uv.KeyEnter))
	assert.Equal(t, []any{items[0]}, triggered)
	// Triggering never moves the selection.
	assert.Equal(t, 0, lv.SelectedIndex())

	sched.RunUntilClean()
}

func TestListViewSelectionScrollsIntoView(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 50)

	lv.SetSelectedIndex(30)
	sched.RunUntilClean()

	assert.NotNil(t, lv.ItemToRenderer(items[30]))
	assert.Equal(t, 26, lv.ScrollY())
}

func TestListViewPressSelectsAndTriggers(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 50)
	var triggered []any
	lv.OnItemTrigger = func(item any, index int) { triggered = append(triggered, item) }

	lv.ScrollTo(10)
	sched.RunUntilClean()

	// Row 2 of the viewport sits over display index 12.
	assert.True(t, lv.HandlePress(weft.EventContext{}, 2, 0))
	assert.Equal(t, 12, lv.SelectedIndex())
	assert.Equal(t, []any{items[12]}, triggered)

	// Below the viewport is a miss.
	assert.False(t, lv.HandlePress(weft.EventContext{}, 5, 0))
}

func TestListViewUnbindReleasesRenderers(t *testing.T) {
	lv, _, sched, items := newTestListView(t, 10)

	lv.SetData(nil)
	sched.RunUntilClean()

	assert.Nil(t, lv.ItemToRenderer(items[0]))
	assert.Equal(t, -1, lv.SelectedIndex())
	r := lv.Render(weft.RenderContext{})
	assert.Len(t, r.Lines, 5)
}
