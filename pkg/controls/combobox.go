package controls

import (
	"fmt"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

// ComboBox is a button that pops up a filterable list. While the popup is
// open, navigation moves a pending highlight; the committed selection
// changes only when the popup closes with a commit (Enter), and then
// exactly once. Escape discards the pending highlight.
type ComboBox struct {
	weft.Base

	data  collections.List
	unsub func()

	sel flatSelection

	// popupData mirrors data with the type-to-filter applied; the popup
	// list is bound to it so the pool machinery is shared with ListView.
	popupData *collections.ArrayList
	popup     *ListView

	open  bool
	query string

	// ItemToText derives an item's display text. Defaults to fmt.Sprint.
	ItemToText func(item any) string

	// OnSelectionChange fires once per committed selection change with
	// the new index and item (-1, nil for none).
	OnSelectionChange func(index int, item any)

	// OnOpen and OnClose fire when the popup opens and closes.
	OnOpen  func()
	OnClose func()

	// PopupHeight caps the popup list height in lines. Defaults to 8.
	PopupHeight int

	// Placeholder is shown while nothing is selected.
	Placeholder string

	width   int
	focused bool
}

// NewComboBox returns an empty combo box.
func NewComboBox() *ComboBox {
	cb := &ComboBox{
		popupData: collections.NewArrayList(),
		popup:     NewListView(),
	}
	cb.sel = newFlatSelection()
	cb.sel.onChange = func() {
		cb.Invalidate(weft.FlagSelection)
		if cb.OnSelectionChange != nil {
			cb.OnSelectionChange(cb.sel.index, cb.sel.item)
		}
	}
	cb.popup.SetData(cb.popupData)
	cb.popup.SetViewport(0, 8)
	cb.popup.ItemToText = func(item any) string { return cb.itemText(item) }
	cb.popup.OnItemTrigger = func(item any, _ int) { cb.Close(true) }
	return cb
}

// Children exposes the popup list so scheduler attachment reaches it.
func (cb *ComboBox) Children() []weft.Component {
	return []weft.Component{cb.popup}
}

// SetData binds the combo box to a data source (nil unbinds), clearing
// the selection and closing any open popup.
func (cb *ComboBox) SetData(data collections.List) {
	if data == cb.data {
		return
	}
	if cb.unsub != nil {
		cb.unsub()
		cb.unsub = nil
	}
	cb.data = data
	cb.open = false
	cb.query = ""
	cb.sel.set(-1, nil)
	cb.syncPopupData()
	if data != nil {
		cb.unsub = data.Subscribe(cb.handleDataEvent)
	}
	cb.Invalidate(weft.FlagData)
}

// Data returns the bound data source, or nil.
func (cb *ComboBox) Data() collections.List { return cb.data }

// SetRecycler swaps the popup list's renderer recycler.
func (cb *ComboBox) SetRecycler(rc *Recycler) { cb.popup.SetRecycler(rc) }

// SetViewport sets the width the button and popup render within.
func (cb *ComboBox) SetViewport(width int) {
	if width == cb.width {
		return
	}
	cb.width = width
	cb.Invalidate(weft.FlagLayout)
}

// SelectedIndex returns the committed selection index, or -1.
func (cb *ComboBox) SelectedIndex() int { return cb.sel.Index() }

// SelectedItem returns the committed selection item, or nil.
func (cb *ComboBox) SelectedItem() any { return cb.sel.Item() }

// SetSelectedIndex commits a selection by index; out of range clears it.
func (cb *ComboBox) SetSelectedIndex(index int) { cb.sel.setIndex(cb.data, index) }

// SetSelectedItem commits a selection by item identity.
func (cb *ComboBox) SetSelectedItem(item any) { cb.sel.setItem(cb.data, item) }

// IsOpen reports whether the popup is open.
func (cb *ComboBox) IsOpen() bool { return cb.open }

// Open shows the popup with the pending highlight on the committed
// selection and an empty filter.
func (cb *ComboBox) Open() {
	if cb.open || cb.data == nil {
		return
	}
	cb.open = true
	cb.query = ""
	cb.syncPopupData()
	cb.popup.SetSelectedItem(cb.sel.Item())
	if cb.popup.SelectedIndex() < 0 && cb.popupData.Len() > 0 {
		cb.popup.SetSelectedIndex(0)
	}
	cb.Invalidate(weft.FlagState, weft.FlagLayout)
	if cb.OnOpen != nil {
		cb.OnOpen()
	}
}

// Close hides the popup. With commit set, the pending highlight becomes
// the committed selection in one step: its index is resolved against the
// unfiltered data source at close time, and at most one selection change
// notification fires.
func (cb *ComboBox) Close(commit bool) {
	if !cb.open {
		return
	}
	cb.open = false
	pending := cb.popup.SelectedItem()
	cb.query = ""
	cb.popupData.SetFilter(nil)
	if commit && pending != nil {
		cb.sel.setItem(cb.data, pending)
	}
	cb.Invalidate(weft.FlagState, weft.FlagLayout)
	if cb.OnClose != nil {
		cb.OnClose()
	}
}

func (cb *ComboBox) itemText(item any) string {
	if item == nil {
		return ""
	}
	if cb.ItemToText != nil {
		return cb.ItemToText(item)
	}
	return fmt.Sprint(item)
}

// setQuery applies the type-to-filter: items whose text fuzzy-matches the
// query stay visible in the popup.
func (cb *ComboBox) setQuery(q string) {
	cb.query = q
	if q == "" {
		cb.popupData.SetFilter(nil)
	} else {
		cb.popupData.SetFilter(func(item any) bool {
			return fuzzy.MatchFold(q, cb.itemText(item))
		})
	}
	if cb.popup.SelectedIndex() < 0 && cb.popupData.Len() > 0 {
		cb.popup.SetSelectedIndex(0)
	}
	cb.Invalidate(weft.FlagState)
}

func (cb *ComboBox) syncPopupData() {
	var items []any
	if cb.data != nil {
		for i := 0; i < cb.data.Len(); i++ {
			items = append(items, cb.data.Get(i))
		}
	}
	cb.popupData.Reset(items...)
}

func (cb *ComboBox) handleDataEvent(ev collections.ListEvent) {
	cb.sel.handleEvent(cb.data, ev)
	cb.syncPopupData()
	cb.Invalidate(weft.FlagData)
}

func (cb *ComboBox) popupHeight() int {
	h := cb.PopupHeight
	if h <= 0 {
		h = 8
	}
	if n := cb.popupData.Len(); n < h {
		h = n
	}
	return h
}

func (cb *ComboBox) Validate() {
	cb.popup.SetViewport(cb.width, cb.popupHeight())
	if cb.open {
		cb.popup.ValidateNow()
	}
}

func (cb *ComboBox) Render(ctx weft.RenderContext) weft.RenderResult {
	width := cb.width
	if width == 0 {
		width = ctx.Width
	}
	label := cb.itemText(cb.sel.Item())
	if label == "" {
		label = cb.Placeholder
	}
	arrow := "▾"
	if cb.open {
		arrow = "▴"
	}
	button := fmt.Sprintf("%s %s", label, arrow)
	if cb.open && cb.query != "" {
		button = fmt.Sprintf("%s %s ∙ %s", label, arrow, cb.query)
	}
	lines := []string{pad(button, width)}
	if cb.open {
		r := weft.RenderCached(cb.popup, weft.RenderContext{Width: width, Height: cb.popupHeight()})
		lines = append(lines, r.Lines...)
	}
	return weft.RenderResult{Lines: lines}
}

func pad(s string, width int) string {
	if width <= 0 {
		return s
	}
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// HandleKeyPress drives the popup lifecycle: Enter, Down, or Space opens
// a closed combo; on an open one, Enter commits, Escape discards,
// printable text feeds the filter, Backspace trims it, and navigation
// keys move the pending highlight.
func (cb *ComboBox) HandleKeyPress(ctx weft.EventContext, ev uv.KeyPressEvent) bool {
	key := uv.Key(ev)
	if !cb.open {
		switch key.Code {
		case uv.KeyEnter, uv.KeyDown, uv.KeySpace:
			cb.Open()
			return true
		}
		return false
	}
	switch key.Code {
	case uv.KeyEnter:
		cb.Close(true)
		return true
	case uv.KeyEscape:
		cb.Close(false)
		return true
	case uv.KeyBackspace:
		if cb.query != "" {
			r := []rune(cb.query)
			cb.setQuery(string(r[:len(r)-1]))
		}
		return true
	}
	if key.Text != "" && key.Mod == 0 {
		cb.setQuery(cb.query + key.Text)
		return true
	}
	return cb.popup.HandleKeyPress(ctx, ev)
}

// SetFocused implements weft.Focusable. Losing focus discards an open
// popup without committing.
func (cb *ComboBox) SetFocused(focused bool) {
	if cb.focused == focused {
		return
	}
	cb.focused = focused
	if !focused {
		cb.Close(false)
	}
	cb.Invalidate(weft.FlagState)
}
