package controls

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/vlayout"
	"github.com/weftui/weft/pkg/weft"
)

// treeRow is one visible row of the flattened tree: a node whose every
// ancestor branch is open.
type treeRow struct {
	item   any
	loc    collections.Location
	branch bool
	opened bool
}

// TreeView is a virtualized, data-bound tree. Rows are the open-respecting
// pre-order flattening of the tree: a branch contributes its descendants
// only while open. The open set is keyed by item identity, so structural
// edits elsewhere in the tree never flip a branch's open state.
type TreeView struct {
	weft.Base

	data  collections.Tree
	unsub func()

	opened collections.IdentityMap[struct{}]

	flat      []treeRow
	flatDirty bool

	layout *vlayout.RowLayout
	cache  *vlayout.Cache
	pool   *pool

	selLoc  collections.Location
	selItem any

	// ItemToText derives a row's display text. Defaults to fmt.Sprint.
	ItemToText func(item any) string

	// ItemEnabled gates per-row interactivity. Defaults to all enabled.
	ItemEnabled func(item any) bool

	// OnSelectionChange fires once per selection change with the new
	// location and item (nil, nil for none).
	OnSelectionChange func(loc collections.Location, item any)

	// OnItemTrigger fires when a row is triggered. Triggering does not
	// change the selection.
	OnItemTrigger func(item any, loc collections.Location)

	// OnBranchOpen and OnBranchClose fire exactly once per actual state
	// change; re-opening an open branch is a no-op.
	OnBranchOpen  func(item any, loc collections.Location)
	OnBranchClose func(item any, loc collections.Location)

	width, height int
	scrollY       int
	scrollPending bool
	focused       bool

	rows      map[int]*rendererRecord
	viewStart int
	viewEnd   int
}

// NewTreeView returns an empty tree using the stock row recycler.
func NewTreeView() *TreeView {
	tv := &TreeView{
		layout: &vlayout.RowLayout{},
		cache:  vlayout.NewCache(0),
		rows:   make(map[int]*rendererRecord),
	}
	tv.pool = newPool(tv, NewRowRecycler())
	tv.pool.onTrigger = func(item any) { tv.triggerItem(item) }
	return tv
}

// SetData binds the tree to a data source (nil unbinds). Binding releases
// every renderer of the previous source, clears the open set, and clears
// the selection.
func (tv *TreeView) SetData(data collections.Tree) {
	if data == tv.data {
		return
	}
	if tv.unsub != nil {
		tv.unsub()
		tv.unsub = nil
	}
	tv.pool.releaseAll()
	tv.rows = make(map[int]*rendererRecord)
	tv.opened.Clear()
	tv.data = data
	tv.setSelection(nil, nil)
	tv.flatDirty = true
	tv.reflattenCache()
	if data != nil {
		tv.unsub = data.Subscribe(tv.handleTreeEvent)
	}
	tv.Invalidate(weft.FlagData, weft.FlagLayout)
}

// Data returns the bound data source, or nil.
func (tv *TreeView) Data() collections.Tree { return tv.data }

// SetRecycler swaps the renderer recycler. All pooled renderers of the
// old recycler are destroyed by it on the next pass.
func (tv *TreeView) SetRecycler(rc *Recycler) {
	if tv.pool.setRecycler(rc) {
		tv.Invalidate(weft.FlagData, weft.FlagStyle)
	}
}

// SetRowLayout swaps the layout. A no-op when unchanged.
func (tv *TreeView) SetRowLayout(l *vlayout.RowLayout) {
	if l == tv.layout || l == nil {
		return
	}
	tv.layout = l
	tv.Invalidate(weft.FlagLayout)
}

// SetViewport sets the width and height the tree renders within.
func (tv *TreeView) SetViewport(width, height int) {
	if width == tv.width && height == tv.height {
		return
	}
	tv.width, tv.height = width, height
	tv.Invalidate(weft.FlagLayout)
}

// IsBranchOpen reports whether the branch holding item is open.
func (tv *TreeView) IsBranchOpen(item any) bool { return tv.opened.Has(item) }

// OpenBranches returns a snapshot of the currently open branch items, in
// no particular order.
func (tv *TreeView) OpenBranches() []any {
	items := make([]any, 0, tv.opened.Len())
	tv.opened.Range(func(item any, _ struct{}) bool {
		items = append(items, item)
		return true
	})
	return items
}

// ToggleBranch opens or closes the branch at loc. Toggling to the current
// state is a no-op; an actual change notifies OnBranchOpen or
// OnBranchClose exactly once. Addressing a missing node or a leaf is a
// configuration error.
func (tv *TreeView) ToggleBranch(loc collections.Location, open bool) error {
	if tv.data == nil {
		return weft.ConfigErrorf("ToggleBranch: no data source bound")
	}
	item := tv.data.GetAt(loc)
	if item == nil {
		return weft.ConfigErrorf("ToggleBranch: no node at %v", loc)
	}
	if !tv.data.IsBranch(item) {
		return weft.ConfigErrorf("ToggleBranch: node at %v is not a branch", loc)
	}
	if open == tv.opened.Has(item) {
		return nil
	}

	tv.ensureFlat()
	idx := tv.LocationToDisplayIndex(loc, false)
	if open {
		tv.opened.Set(item, struct{}{})
		if idx >= 0 {
			tv.cache.Insert(idx+1, tv.visibleDescendants(loc))
		}
		if tv.OnBranchOpen != nil {
			tv.OnBranchOpen(item, loc)
		}
	} else {
		// Row count is computed before the open entry goes away, while
		// the descendants still count as visible.
		if idx >= 0 {
			tv.cache.Remove(idx+1, tv.visibleDescendants(loc))
		}
		tv.opened.Delete(item)
		if tv.OnBranchClose != nil {
			tv.OnBranchClose(item, loc)
		}
	}
	tv.flatDirty = true
	tv.Invalidate(weft.FlagData, weft.FlagLayout)
	return nil
}

// visibleDescendants counts the rows the subtree below loc contributes to
// the flattened view, honoring the current open set.
func (tv *TreeView) visibleDescendants(loc collections.Location) int {
	total := 0
	n := tv.data.Length(loc)
	for i := 0; i < n; i++ {
		child := loc.Child(i)
		total++
		item := tv.data.GetAt(child)
		if tv.data.IsBranch(item) && tv.opened.Has(item) {
			total += tv.visibleDescendants(child)
		}
	}
	return total
}

// ensureFlat rebuilds the flattened row list after a structural change.
func (tv *TreeView) ensureFlat() {
	if !tv.flatDirty {
		return
	}
	tv.flatDirty = false
	tv.flat = tv.flat[:0]
	if tv.data == nil {
		return
	}
	tv.flattenLevel(nil)
}

func (tv *TreeView) flattenLevel(parent collections.Location) {
	n := tv.data.Length(parent)
	for i := 0; i < n; i++ {
		loc := parent.Child(i)
		item := tv.data.GetAt(loc)
		branch := tv.data.IsBranch(item)
		opened := branch && tv.opened.Has(item)
		tv.flat = append(tv.flat, treeRow{item: item, loc: loc, branch: branch, opened: opened})
		if opened {
			tv.flattenLevel(loc)
		}
	}
}

// reflattenCache rebuilds the flattening and sizes the layout cache to
// match, discarding per-row hints. Structural events splice instead, so
// this only runs on wholesale changes.
func (tv *TreeView) reflattenCache() {
	tv.ensureFlat()
	tv.cache.Resize(len(tv.flat))
}

// LocationToDisplayIndex maps a location to its row in the flattened
// view, or -1 when no ancestor path to it is fully open. With nearest
// set, a hidden location resolves to its closest visible ancestor
// instead.
func (tv *TreeView) LocationToDisplayIndex(loc collections.Location, nearest bool) int {
	if loc == nil {
		return -1
	}
	tv.ensureFlat()
	for {
		for i, row := range tv.flat {
			if row.loc.Equal(loc) {
				return i
			}
		}
		if !nearest {
			return -1
		}
		loc = loc.Parent()
		if loc == nil {
			return -1
		}
	}
}

// DisplayIndexToLocation maps a flattened row index back to its location,
// or nil when out of range.
func (tv *TreeView) DisplayIndexToLocation(index int) collections.Location {
	tv.ensureFlat()
	if index < 0 || index >= len(tv.flat) {
		return nil
	}
	return tv.flat[index].loc
}

// SelectedLocation returns the selected location, or nil.
func (tv *TreeView) SelectedLocation() collections.Location { return tv.selLoc }

// SelectedItem returns the selected item, or nil. O(1): the item is
// cached at selection time.
func (tv *TreeView) SelectedItem() any { return tv.selItem }

// SetSelectedLocation selects the node at loc; an unaddressed location
// clears the selection.
func (tv *TreeView) SetSelectedLocation(loc collections.Location) {
	if tv.data == nil {
		tv.setSelection(nil, nil)
		return
	}
	item := tv.data.GetAt(loc)
	if item == nil {
		tv.setSelection(nil, nil)
		return
	}
	tv.setSelection(loc.Clone(), item)
	tv.scrollPending = true
}

// SetSelectedItem selects by item identity; an absent item clears it.
func (tv *TreeView) SetSelectedItem(item any) {
	if tv.data == nil || item == nil {
		tv.setSelection(nil, nil)
		return
	}
	tv.setSelection(tv.data.LocationOf(item), item)
	tv.scrollPending = true
}

func (tv *TreeView) setSelection(loc collections.Location, item any) {
	if loc == nil {
		item = nil
	}
	if item == nil {
		loc = nil
	}
	if loc.Equal(tv.selLoc) && item == tv.selItem {
		return
	}
	tv.selLoc, tv.selItem = loc, item
	tv.Invalidate(weft.FlagSelection)
	if tv.OnSelectionChange != nil {
		tv.OnSelectionChange(loc, item)
	}
}

// ItemToRenderer returns the renderer currently bound to item, or nil
// when the item is unrendered (off-window, hidden, or absent).
func (tv *TreeView) ItemToRenderer(item any) ItemRenderer {
	return tv.pool.rendererForItem(item)
}

// RendererToItem returns the item bound to the renderer, or nil.
func (tv *TreeView) RendererToItem(r ItemRenderer) any {
	return tv.pool.itemForRenderer(r)
}

// ItemToDisplayIndex returns the display position of an item with an
// active renderer, or -1 when the item is unrendered. Unlike
// [TreeView.LocationToDisplayIndex] it is an O(1) identity lookup, but
// only covers the rendered window.
func (tv *TreeView) ItemToDisplayIndex(item any) int {
	if i, ok := tv.pool.displayIndexOf(item); ok {
		return i
	}
	return -1
}

// ScrollY returns the current scroll offset in lines.
func (tv *TreeView) ScrollY() int { return tv.scrollY }

// ScrollTo scrolls so the given offset is the first visible line.
func (tv *TreeView) ScrollTo(y int) {
	tv.ensureFlat()
	max := tv.layout.MaxScroll(len(tv.flat), tv.height, tv.cache)
	if y < 0 {
		y = 0
	}
	if y > max {
		y = max
	}
	if y != tv.scrollY {
		tv.scrollY = y
		tv.Invalidate(weft.FlagLayout)
	}
}

func (tv *TreeView) itemText(item any) string {
	if tv.ItemToText != nil {
		return tv.ItemToText(item)
	}
	if node, ok := item.(*collections.TreeNode); ok {
		return fmt.Sprint(node.Value)
	}
	return fmt.Sprint(item)
}

func (tv *TreeView) itemEnabled(item any) bool {
	if tv.ItemEnabled != nil {
		return tv.ItemEnabled(item)
	}
	return true
}

// SetItemToText replaces the text function and refreshes every bound row
// in place (no renderer is recreated).
func (tv *TreeView) SetItemToText(fn func(item any) string) {
	tv.ItemToText = fn
	tv.Invalidate(weft.FlagData)
}

func (tv *TreeView) handleTreeEvent(ev collections.TreeEvent) {
	// tv.flat still describes the pre-mutation tree here; remove and
	// replace read their row counts from it before it is marked stale.
	switch ev.Kind {
	case collections.EventAdd:
		tv.flatDirty = true
		tv.ensureFlat()
		if idx := tv.LocationToDisplayIndex(ev.Location, false); idx >= 0 {
			tv.cache.Insert(idx, 1+tv.rowDescendants(idx))
		}
	case collections.EventRemove:
		if idx := tv.rowIndexOf(ev.Item); idx >= 0 {
			n := 1 + tv.rowDescendants(idx)
			tv.pruneOpened(idx, n)
			tv.cache.Remove(idx, n)
		}
		tv.opened.Delete(ev.Item)
		tv.flatDirty = true
	case collections.EventReplace:
		if idx := tv.rowIndexOf(ev.Replaced); idx >= 0 {
			n := 1 + tv.rowDescendants(idx)
			tv.pruneOpened(idx, n)
			tv.cache.Remove(idx, n)
			tv.cache.Insert(idx, 1)
		}
		tv.opened.Delete(ev.Replaced)
		tv.flatDirty = true
	case collections.EventUpdate:
		// in-place change, nothing structural
	case collections.EventRemoveAll, collections.EventReset:
		tv.opened.Clear()
		tv.flatDirty = true
		tv.reflattenCache()
	}
	tv.reconcileSelection(ev)
	tv.Invalidate(weft.FlagData, weft.FlagLayout)
}

// rowIndexOf finds an item's row in the current flattening by identity.
func (tv *TreeView) rowIndexOf(item any) int {
	tv.ensureFlat()
	for i, row := range tv.flat {
		if row.item == item {
			return i
		}
	}
	return -1
}

// rowDescendants counts the rows below idx that belong to its subtree.
func (tv *TreeView) rowDescendants(idx int) int {
	prefix := tv.flat[idx].loc
	n := 0
	for j := idx + 1; j < len(tv.flat) && tv.flat[j].loc.HasPrefix(prefix); j++ {
		n++
	}
	return n
}

// pruneOpened drops open-set entries for the n rows starting at idx.
// Entries for descendants hidden under a closed branch are dropped when
// their item leaves the tree via the top-level delete in the caller.
func (tv *TreeView) pruneOpened(idx, n int) {
	for j := idx; j < idx+n && j < len(tv.flat); j++ {
		tv.opened.Delete(tv.flat[j].item)
	}
}

// reconcileSelection keeps the selection pinned to the selected item's
// identity across structural edits, clearing it when the item leaves the
// tree.
func (tv *TreeView) reconcileSelection(ev collections.TreeEvent) {
	if tv.selItem == nil {
		return
	}
	switch ev.Kind {
	case collections.EventReplace:
		if ev.Replaced == tv.selItem {
			tv.setSelection(ev.Location.Clone(), ev.Item)
			return
		}
	case collections.EventRemoveAll, collections.EventReset:
		tv.setSelection(nil, nil)
		return
	case collections.EventUpdate:
		return
	}
	tv.setSelection(tv.data.LocationOf(tv.selItem), tv.selItem)
}

func (tv *TreeView) triggerItem(item any) {
	if tv.OnItemTrigger != nil {
		tv.OnItemTrigger(item, tv.data.LocationOf(item))
	}
}

// Validate reconciles the visible window against the renderer pool.
func (tv *TreeView) Validate() {
	tv.ensureFlat()
	count := len(tv.flat)
	if tv.cache.Len() != count {
		tv.cache.Resize(count)
	}
	if tv.scrollPending {
		tv.scrollPending = false
		tv.scrollToIndex(tv.LocationToDisplayIndex(tv.selLoc, true))
	}
	start, end := tv.layout.VisibleRange(count, tv.scrollY, tv.height, tv.cache)
	tv.viewStart, tv.viewEnd = start, end

	tv.pool.sync(syncPass{
		count:  count,
		itemAt: func(i int) any { return tv.flat[i].item },
		stateFor: func(item any, i int) RendererState {
			row := tv.flat[i]
			return RendererState{
				Owner:       tv,
				Item:        item,
				Index:       -1,
				Location:    row.loc,
				LayoutIndex: i,
				Text:        tv.itemText(item),
				Selected:    item == tv.selItem,
				Enabled:     tv.itemEnabled(item),
				Opened:      row.opened,
				Branch:      row.branch,
			}
		},
		start: start,
		end:   end,
	})

	tv.rows = make(map[int]*rendererRecord, len(tv.pool.activeRecords()))
	for _, rec := range tv.pool.activeRecords() {
		tv.rows[rec.state.LayoutIndex] = rec
	}
}

func (tv *TreeView) scrollToIndex(index int) {
	if index < 0 || tv.height <= 0 {
		return
	}
	top := tv.layout.RowOffset(index, tv.cache)
	bottom := top + tv.layout.RowHeight(index, tv.cache)
	switch {
	case top < tv.scrollY:
		tv.scrollY = top
	case bottom > tv.scrollY+tv.height:
		tv.scrollY = bottom - tv.height
	}
}

func (tv *TreeView) Render(ctx weft.RenderContext) weft.RenderResult {
	width := tv.width
	if width == 0 {
		width = ctx.Width
	}
	height := tv.height
	if height == 0 {
		height = ctx.Height
	}
	var lines []string
	for i := tv.viewStart; i < tv.viewEnd; i++ {
		rec, ok := tv.rows[i]
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

// HandleKeyPress implements keyboard navigation over display rows:
// Up/Left/PgUp step back, Down/Right/PgDn step forward, Home and End
// jump, Space toggles the selected branch, Enter triggers the selected
// row without changing selection.
func (tv *TreeView) HandleKeyPress(_ weft.EventContext, ev uv.KeyPressEvent) bool {
	tv.ensureFlat()
	if len(tv.flat) == 0 {
		return false
	}
	key := uv.Key(ev)
	switch key.Code {
	case uv.KeyUp, uv.KeyLeft, uv.KeyPgUp:
		tv.moveSelection(-1)
	case uv.KeyDown, uv.KeyRight, uv.KeyPgDown:
		tv.moveSelection(1)
	case uv.KeyHome:
		tv.selectDisplayIndex(0)
	case uv.KeyEnd:
		tv.selectDisplayIndex(len(tv.flat) - 1)
	case uv.KeySpace:
		if tv.selItem != nil && tv.data.IsBranch(tv.selItem) {
			_ = tv.ToggleBranch(tv.selLoc, !tv.opened.Has(tv.selItem))
		}
	case uv.KeyEnter:
		if tv.selItem != nil {
			tv.triggerItem(tv.selItem)
		}
	default:
		return false
	}
	return true
}

// HandlePress routes a press at control-relative coordinates to the row
// under it: the row is selected, branches toggle, leaves fire the trigger.
func (tv *TreeView) HandlePress(_ weft.EventContext, row, _ int) bool {
	tv.ensureFlat()
	count := len(tv.flat)
	if count == 0 || row < 0 || (tv.height > 0 && row >= tv.height) {
		return false
	}
	idx, _ := tv.layout.VisibleRange(count, tv.scrollY+row, 1, tv.cache)
	if idx < 0 || idx >= count {
		return false
	}
	tv.selectDisplayIndex(idx)
	r := tv.flat[idx]
	if r.branch {
		_ = tv.ToggleBranch(r.loc, !tv.opened.Has(r.item))
	} else {
		tv.triggerItem(r.item)
	}
	return true
}

func (tv *TreeView) moveSelection(delta int) {
	cur := tv.LocationToDisplayIndex(tv.selLoc, true)
	next := cur + delta
	if cur < 0 {
		next = 0
	}
	if next < 0 {
		next = 0
	}
	if next > len(tv.flat)-1 {
		next = len(tv.flat) - 1
	}
	tv.selectDisplayIndex(next)
}

func (tv *TreeView) selectDisplayIndex(index int) {
	if index < 0 || index >= len(tv.flat) {
		return
	}
	row := tv.flat[index]
	tv.setSelection(row.loc.Clone(), row.item)
	tv.scrollPending = true
}

// SetFocused implements weft.Focusable.
func (tv *TreeView) SetFocused(focused bool) {
	if tv.focused != focused {
		tv.focused = focused
		tv.Invalidate(weft.FlagState)
	}
}
