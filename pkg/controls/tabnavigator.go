package controls

import (
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

// TabItem is one tab of a [TabNavigator]: a header title and the content
// component shown while the tab is selected.
type TabItem struct {
	Title   string
	Content weft.Component
}

// NewTab builds a tab item.
func NewTab(title string, content weft.Component) *TabItem {
	return &TabItem{Title: title, Content: content}
}

// TabNavigator is a data-bound tab strip. Headers are recycled through
// the renderer pool like list rows; exactly one tab's content component
// is visible and validated at a time.
type TabNavigator struct {
	weft.Base

	tabs  collections.List
	unsub func()

	sel  flatSelection
	pool *pool

	// OnSelectionChange fires once per tab change with the new index and
	// tab (-1, nil for none).
	OnSelectionChange func(index int, tab *TabItem)

	width, height int
	focused       bool
}

// NewTabNavigator returns a tab navigator bound to its own empty tab
// list; use AddTab to populate it, or SetData to bind another source.
func NewTabNavigator() *TabNavigator {
	tn := &TabNavigator{}
	tn.sel = newFlatSelection()
	tn.sel.onChange = func() {
		tn.Invalidate(weft.FlagSelection, weft.FlagLayout)
		if tn.OnSelectionChange != nil {
			tab, _ := tn.sel.item.(*TabItem)
			tn.OnSelectionChange(tn.sel.index, tab)
		}
	}
	tn.pool = newPool(tn, NewRowRecycler())
	tn.pool.onTrigger = func(item any) {
		tn.sel.setItem(tn.tabs, item)
	}
	tn.bind(collections.NewArrayList())
	return tn
}

// SetData binds the tab strip to a data source of *TabItem values (nil
// rebinds an empty internal list).
func (tn *TabNavigator) SetData(tabs collections.List) {
	if tabs == tn.tabs {
		return
	}
	if tabs == nil {
		tabs = collections.NewArrayList()
	}
	tn.bind(tabs)
	tn.Invalidate(weft.FlagData, weft.FlagLayout)
}

func (tn *TabNavigator) bind(tabs collections.List) {
	if tn.unsub != nil {
		tn.unsub()
		tn.unsub = nil
	}
	if tn.pool != nil {
		tn.pool.releaseAll()
	}
	tn.tabs = tabs
	tn.sel.set(-1, nil)
	tn.unsub = tabs.Subscribe(tn.handleDataEvent)
	if tabs.Len() > 0 {
		tn.sel.setIndex(tabs, 0)
	}
}

// Data returns the bound tab source.
func (tn *TabNavigator) Data() collections.List { return tn.tabs }

// AddTab appends a tab. The bound source must be an [collections.ArrayList]
// (the default); foreign sources are mutated through their own API.
func (tn *TabNavigator) AddTab(tab *TabItem) error {
	list, ok := tn.tabs.(*collections.ArrayList)
	if !ok {
		return weft.ConfigErrorf("AddTab: bound tab source is not an ArrayList")
	}
	list.Add(tab)
	if tab.Content != nil {
		if sched := tn.Scheduler(); sched != nil {
			weft.Attach(tn, sched)
		}
	}
	return nil
}

// RemoveTab removes a tab. Same source constraint as AddTab.
func (tn *TabNavigator) RemoveTab(tab *TabItem) error {
	list, ok := tn.tabs.(*collections.ArrayList)
	if !ok {
		return weft.ConfigErrorf("RemoveTab: bound tab source is not an ArrayList")
	}
	list.Remove(tab)
	return nil
}

// Children exposes every tab's content so scheduler attachment reaches
// them; only the selected one is validated and rendered.
func (tn *TabNavigator) Children() []weft.Component {
	var out []weft.Component
	if tn.tabs == nil {
		return nil
	}
	for i := 0; i < tn.tabs.Len(); i++ {
		if tab, ok := tn.tabs.Get(i).(*TabItem); ok && tab.Content != nil {
			out = append(out, tab.Content)
		}
	}
	return out
}

// SetRecycler swaps the header renderer recycler.
func (tn *TabNavigator) SetRecycler(rc *Recycler) {
	if tn.pool.setRecycler(rc) {
		tn.Invalidate(weft.FlagData, weft.FlagStyle)
	}
}

// SetViewport sets the width and height the navigator renders within;
// content gets the height minus the header row.
func (tn *TabNavigator) SetViewport(width, height int) {
	if width == tn.width && height == tn.height {
		return
	}
	tn.width, tn.height = width, height
	tn.Invalidate(weft.FlagLayout)
}

// SelectedIndex returns the selected tab index, or -1.
func (tn *TabNavigator) SelectedIndex() int { return tn.sel.Index() }

// SelectedTab returns the selected tab, or nil.
func (tn *TabNavigator) SelectedTab() *TabItem {
	tab, _ := tn.sel.Item().(*TabItem)
	return tab
}

// SetSelectedIndex selects a tab by index; out of range clears it.
func (tn *TabNavigator) SetSelectedIndex(index int) { tn.sel.setIndex(tn.tabs, index) }

// SetSelectedTab selects a tab by identity.
func (tn *TabNavigator) SetSelectedTab(tab *TabItem) { tn.sel.setItem(tn.tabs, tab) }

// TabToRenderer returns the header renderer bound to tab, or nil.
func (tn *TabNavigator) TabToRenderer(tab *TabItem) ItemRenderer {
	return tn.pool.rendererForItem(tab)
}

func (tn *TabNavigator) handleDataEvent(ev collections.ListEvent) {
	tn.sel.handleEvent(tn.tabs, ev)
	// A tab strip always shows something while it has tabs.
	if tn.sel.Index() < 0 && tn.tabs.Len() > 0 {
		tn.sel.setIndex(tn.tabs, 0)
	}
	tn.Invalidate(weft.FlagData, weft.FlagLayout)
}

func (tn *TabNavigator) tabTitle(item any) string {
	if tab, ok := item.(*TabItem); ok {
		return tab.Title
	}
	return ""
}

// Validate reconciles every header against the pool (the strip is never
// virtualized; tab counts are small) and validates the selected content.
func (tn *TabNavigator) Validate() {
	count := 0
	if tn.tabs != nil {
		count = tn.tabs.Len()
	}
	itemAt := func(int) any { return nil }
	if tn.tabs != nil {
		itemAt = tn.tabs.Get
	}
	tn.pool.sync(syncPass{
		count:  count,
		itemAt: itemAt,
		stateFor: func(item any, i int) RendererState {
			return RendererState{
				Owner:       tn,
				Item:        item,
				Index:       i,
				LayoutIndex: i,
				Text:        tn.tabTitle(item),
				Selected:    i == tn.sel.Index(),
				Enabled:     true,
			}
		},
		start: 0,
		end:   count,
	})
	if tab := tn.SelectedTab(); tab != nil && tab.Content != nil {
		if v, ok := tab.Content.(interface{ ValidateNow() }); ok {
			v.ValidateNow()
		}
	}
}

func (tn *TabNavigator) Render(ctx weft.RenderContext) weft.RenderResult {
	width := tn.width
	if width == 0 {
		width = ctx.Width
	}
	height := tn.height
	if height == 0 {
		height = ctx.Height
	}

	byIndex := make(map[int]*rendererRecord, len(tn.pool.activeRecords()))
	for _, rec := range tn.pool.activeRecords() {
		byIndex[rec.state.LayoutIndex] = rec
	}
	var cells []string
	for i := 0; i < len(byIndex); i++ {
		rec, ok := byIndex[i]
		if !ok {
			continue
		}
		w := ansi.StringWidth(rec.state.Text) + 2
		if rows := rec.renderer.RenderRow(w); len(rows) > 0 {
			cells = append(cells, rows[0])
		}
	}
	header := strings.Join(cells, " ")
	if width > 0 {
		header = ansi.Truncate(header, width, "…")
	}
	lines := []string{header}

	if tab := tn.SelectedTab(); tab != nil && tab.Content != nil {
		contentH := 0
		if height > 0 {
			contentH = height - 1
		}
		r := weft.RenderCached(tab.Content, weft.RenderContext{Width: width, Height: contentH})
		lines = append(lines, r.Lines...)
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return weft.RenderResult{Lines: lines}
}

// HandleKeyPress cycles tabs with Left/Right and jumps with Home/End.
// Unhandled keys are offered to the selected tab's content when it is
// interactive.
func (tn *TabNavigator) HandleKeyPress(ctx weft.EventContext, ev uv.KeyPressEvent) bool {
	count := 0
	if tn.tabs != nil {
		count = tn.tabs.Len()
	}
	key := uv.Key(ev)
	switch key.Code {
	case uv.KeyLeft:
		if count > 0 {
			tn.step(-1, count)
			return true
		}
	case uv.KeyRight:
		if count > 0 {
			tn.step(1, count)
			return true
		}
	case uv.KeyHome:
		if count > 0 {
			tn.SetSelectedIndex(0)
			return true
		}
	case uv.KeyEnd:
		if count > 0 {
			tn.SetSelectedIndex(count - 1)
			return true
		}
	}
	if tab := tn.SelectedTab(); tab != nil && tab.Content != nil {
		if in, ok := tab.Content.(weft.Interactive); ok {
			return in.HandleKeyPress(ctx, ev)
		}
	}
	return false
}

func (tn *TabNavigator) step(delta, count int) {
	next := tn.sel.Index() + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	tn.SetSelectedIndex(next)
}

// SetFocused implements weft.Focusable.
func (tn *TabNavigator) SetFocused(focused bool) {
	if tn.focused != focused {
		tn.focused = focused
		tn.Invalidate(weft.FlagState)
	}
}
