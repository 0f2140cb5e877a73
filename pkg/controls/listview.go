package controls

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/vlayout"
	"github.com/weftui/weft/pkg/weft"
)

// ListView is a virtualized, data-bound list: only the rows intersecting
// the viewport get renderers, drawn from a bounded pool that is reconciled
// once per validation pass.
type ListView struct {
	weft.Base

	data  collections.List
	unsub func()

	layout *vlayout.RowLayout
	cache  *vlayout.Cache
	pool   *pool
	sel    flatSelection

	// ItemToText derives a row's display text. Defaults to fmt.Sprint.
	ItemToText func(item any) string

	// ItemEnabled gates per-row interactivity. Defaults to all enabled.
	ItemEnabled func(item any) bool

	// OnSelectionChange fires once per selection change with the new
	// index and item (-1, nil for none).
	OnSelectionChange func(index int, item any)

	// OnItemTrigger fires when a row is triggered (Enter, or a press on
	// the row). Triggering does not change the selection.
	OnItemTrigger func(item any, index int)

	width, height int
	scrollY       int
	scrollPending bool
	focused       bool

	rows      map[int]*rendererRecord
	viewStart int
	viewEnd   int
}

// NewListView returns an empty list using the stock row recycler.
func NewListView() *ListView {
	lv := &ListView{
		layout: &vlayout.RowLayout{},
		cache:  vlayout.NewCache(0),
		sel:    newFlatSelection(),
		rows:   make(map[int]*rendererRecord),
	}
	lv.pool = newPool(lv, NewRowRecycler())
	lv.pool.onTrigger = func(item any) { lv.triggerItem(item) }
	lv.sel.onChange = func() {
		lv.Invalidate(weft.FlagSelection)
		if lv.OnSelectionChange != nil {
			lv.OnSelectionChange(lv.sel.index, lv.sel.item)
		}
	}
	return lv
}

// SetData binds the list to a data source (nil unbinds). Binding releases
// every renderer of the previous source and clears the selection.
func (lv *ListView) SetData(data collections.List) {
	if data == lv.data {
		return
	}
	if lv.unsub != nil {
		lv.unsub()
		lv.unsub = nil
	}
	lv.pool.releaseAll()
	lv.rows = make(map[int]*rendererRecord)
	lv.data = data
	lv.sel.set(-1, nil)
	if data != nil {
		lv.cache.Resize(data.Len())
		lv.unsub = data.Subscribe(lv.handleDataEvent)
	} else {
		lv.cache.Resize(0)
	}
	lv.Invalidate(weft.FlagData, weft.FlagLayout)
}

// Data returns the bound data source, or nil.
func (lv *ListView) Data() collections.List { return lv.data }

// SetRecycler swaps the renderer recycler. All pooled renderers of the
// old recycler are destroyed by it on the next pass.
func (lv *ListView) SetRecycler(rc *Recycler) {
	if lv.pool.setRecycler(rc) {
		lv.Invalidate(weft.FlagData, weft.FlagStyle)
	}
}

// SetRowLayout swaps the layout. A no-op when unchanged.
func (lv *ListView) SetRowLayout(l *vlayout.RowLayout) {
	if l == lv.layout || l == nil {
		return
	}
	lv.layout = l
	lv.Invalidate(weft.FlagLayout)
}

// SetViewport sets the width and height the list renders within.
func (lv *ListView) SetViewport(width, height int) {
	if width == lv.width && height == lv.height {
		return
	}
	lv.width, lv.height = width, height
	lv.Invalidate(weft.FlagLayout)
}

// SelectedIndex returns the selected index, or -1.
func (lv *ListView) SelectedIndex() int { return lv.sel.Index() }

// SelectedItem returns the selected item, or nil. O(1): the item is
// cached at selection time.
func (lv *ListView) SelectedItem() any { return lv.sel.Item() }

// SetSelectedIndex selects by index; out of range clears the selection.
func (lv *ListView) SetSelectedIndex(index int) {
	lv.sel.setIndex(lv.data, index)
	lv.scrollPending = true
}

// SetSelectedItem selects by item identity; absent items clear it.
func (lv *ListView) SetSelectedItem(item any) {
	lv.sel.setItem(lv.data, item)
	lv.scrollPending = true
}

// ItemToRenderer returns the renderer currently bound to item, or nil
// when the item is unrendered (off-window or absent).
func (lv *ListView) ItemToRenderer(item any) ItemRenderer {
	return lv.pool.rendererForItem(item)
}

// RendererToItem returns the item bound to the renderer, or nil.
func (lv *ListView) RendererToItem(r ItemRenderer) any {
	return lv.pool.itemForRenderer(r)
}

// ItemToDisplayIndex returns the display position of an item with an
// active renderer, or -1 when the item is unrendered. An O(1) identity
// lookup, unlike IndexOf on the data source.
func (lv *ListView) ItemToDisplayIndex(item any) int {
	if i, ok := lv.pool.displayIndexOf(item); ok {
		return i
	}
	return -1
}

// ScrollY returns the current scroll offset in lines.
func (lv *ListView) ScrollY() int { return lv.scrollY }

// ScrollTo scrolls so the given offset is the first visible line.
func (lv *ListView) ScrollTo(y int) {
	max := lv.layout.MaxScroll(lv.count(), lv.height, lv.cache)
	if y < 0 {
		y = 0
	}
	if y > max {
		y = max
	}
	if y != lv.scrollY {
		lv.scrollY = y
		lv.Invalidate(weft.FlagLayout)
	}
}

func (lv *ListView) count() int {
	if lv.data == nil {
		return 0
	}
	return lv.data.Len()
}

func (lv *ListView) itemText(item any) string {
	if lv.ItemToText != nil {
		return lv.ItemToText(item)
	}
	return fmt.Sprint(item)
}

func (lv *ListView) itemEnabled(item any) bool {
	if lv.ItemEnabled != nil {
		return lv.ItemEnabled(item)
	}
	return true
}

// SetItemToText replaces the text function and refreshes every bound row
// in place (no renderer is recreated).
func (lv *ListView) SetItemToText(fn func(item any) string) {
	lv.ItemToText = fn
	lv.Invalidate(weft.FlagData)
}

func (lv *ListView) handleDataEvent(ev collections.ListEvent) {
	switch ev.Kind {
	case collections.EventAdd:
		lv.cache.Insert(ev.Index, 1)
	case collections.EventRemove:
		lv.cache.Remove(ev.Index, 1)
	case collections.EventRemoveAll, collections.EventReset:
		lv.cache.Resize(lv.count())
	}
	lv.sel.handleEvent(lv.data, ev)
	lv.Invalidate(weft.FlagData, weft.FlagLayout)
}

func (lv *ListView) triggerItem(item any) {
	if lv.OnItemTrigger != nil {
		lv.OnItemTrigger(item, lv.data.IndexOf(item))
	}
}

// Validate reconciles the visible window against the renderer pool.
func (lv *ListView) Validate() {
	count := lv.count()
	if lv.cache.Len() != count {
		lv.cache.Resize(count)
	}
	if lv.scrollPending {
		lv.scrollPending = false
		lv.scrollToIndex(lv.sel.Index())
	}
	start, end := lv.layout.VisibleRange(count, lv.scrollY, lv.height, lv.cache)
	lv.viewStart, lv.viewEnd = start, end

	itemAt := func(int) any { return nil }
	if lv.data != nil {
		itemAt = lv.data.Get
	}
	lv.pool.sync(syncPass{
		count:  count,
		itemAt: itemAt,
		stateFor: func(item any, i int) RendererState {
			return RendererState{
				Owner:       lv,
				Item:        item,
				Index:       i,
				LayoutIndex: i,
				Text:        lv.itemText(item),
				Selected:    i == lv.sel.Index(),
				Enabled:     lv.itemEnabled(item),
			}
		},
		start: start,
		end:   end,
	})

	lv.rows = make(map[int]*rendererRecord, len(lv.pool.activeRecords()))
	for _, rec := range lv.pool.activeRecords() {
		lv.rows[rec.state.LayoutIndex] = rec
	}
}

func (lv *ListView) scrollToIndex(index int) {
	if index < 0 || lv.height <= 0 {
		return
	}
	top := lv.layout.RowOffset(index, lv.cache)
	bottom := top + lv.layout.RowHeight(index, lv.cache)
	switch {
	case top < lv.scrollY:
		lv.scrollY = top
	case bottom > lv.scrollY+lv.height:
		lv.scrollY = bottom - lv.height
	}
}

func (lv *ListView) Render(ctx weft.RenderContext) weft.RenderResult {
	width := lv.width
	if width == 0 {
		width = ctx.Width
	}
	height := lv.height
	if height == 0 {
		height = ctx.Height
	}
	var lines []string
	for i := lv.viewStart; i < lv.viewEnd; i++ {
		rec, ok := lv.rows[i]
		if !ok {
			continue
		}
		lines = append(lines, rec.renderer.RenderRow(width)...)
	}
	for height > 0 && len(lines) < height {
		lines = append(lines, strings.Repeat(" ", max(width, 0)))
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return weft.RenderResult{Lines: lines}
}

// HandleKeyPress implements keyboard navigation: Up/PgUp step the
// selection back, Down/PgDn step it forward, Home and End jump, Enter
// triggers the selected row without changing selection.
func (lv *ListView) HandleKeyPress(_ weft.EventContext, ev uv.KeyPressEvent) bool {
	count := lv.count()
	if count == 0 {
		return false
	}
	key := uv.Key(ev)
	switch key.Code {
	case uv.KeyUp, uv.KeyPgUp:
		lv.moveSelection(-1)
	case uv.KeyDown, uv.KeyPgDown:
		lv.moveSelection(1)
	case uv.KeyHome:
		lv.SetSelectedIndex(0)
	case uv.KeyEnd:
		lv.SetSelectedIndex(count - 1)
	case uv.KeyEnter:
		if item := lv.sel.Item(); item != nil {
			lv.triggerItem(item)
		}
	default:
		return false
	}
	return true
}

// HandlePress routes a press at control-relative coordinates to the row
// under it: the row is selected and its trigger fires.
func (lv *ListView) HandlePress(_ weft.EventContext, row, _ int) bool {
	count := lv.count()
	if count == 0 || row < 0 || (lv.height > 0 && row >= lv.height) {
		return false
	}
	idx, _ := lv.layout.VisibleRange(count, lv.scrollY+row, 1, lv.cache)
	if idx < 0 || idx >= count {
		return false
	}
	lv.SetSelectedIndex(idx)
	if item := lv.data.Get(idx); item != nil {
		lv.triggerItem(item)
	}
	return true
}

func (lv *ListView) moveSelection(delta int) {
	count := lv.count()
	next := lv.sel.Index() + delta
	if lv.sel.Index() < 0 {
		next = 0
	}
	if next < 0 {
		next = 0
	}
	if next > count-1 {
		next = count - 1
	}
	lv.SetSelectedIndex(next)
}

// SetFocused implements weft.Focusable.
func (lv *ListView) SetFocused(focused bool) {
	if lv.focused != focused {
		lv.focused = focused
		lv.Invalidate(weft.FlagState)
	}
}
