package controls

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/weftui/weft/pkg/collections"
)

// ItemRenderer is one visual row of a collection control: a lightweight
// object bound to at most one item at a time, attached to the control's
// visual output while pooled or active.
type ItemRenderer interface {
	// RenderRow produces the row's lines at the given width. Most rows
	// are a single line.
	RenderRow(width int) []string
}

// The optional renderer capabilities. A renderer type opts into a
// capability by implementing its interface; the pool resolves the full
// set once when a renderer is created and never type-checks again.

// TextSettable receives the item's display text. It is the only capability
// the default recycler update/reset hooks touch.
type TextSettable interface {
	SetText(text string)
}

// DataBindable receives the bound item itself (nil when unbinding).
type DataBindable interface {
	SetData(item any)
}

// LayoutIndexed receives the row's flattened display position.
type LayoutIndexed interface {
	SetLayoutIndex(index int)
}

// LocationAware receives the row's hierarchical location (nil for rows of
// flat controls).
type LocationAware interface {
	SetLocation(loc collections.Location)
}

// Toggleable receives the row's selected state.
type Toggleable interface {
	SetSelected(selected bool)
}

// Enableable receives the row's enabled state.
type Enableable interface {
	SetEnabled(enabled bool)
}

// OpenCloseable receives the open/closed state of a branch row.
type OpenCloseable interface {
	SetOpened(opened bool)
}

// BranchAware receives whether the row's item is a branch.
type BranchAware interface {
	SetBranch(branch bool)
}

// Pressable lets the pool attach and detach the row's trigger listener.
// The pool passes nil on detach.
type Pressable interface {
	SetOnTrigger(fn func())
}

// caps is a renderer's capability set, resolved once at creation so the
// per-pass binding path does no dynamic type inspection.
type caps struct {
	text   TextSettable
	data   DataBindable
	index  LayoutIndexed
	loc    LocationAware
	toggle Toggleable
	enable Enableable
	open   OpenCloseable
	branch BranchAware
	press  Pressable
}

func resolveCaps(r ItemRenderer) caps {
	var c caps
	c.text, _ = r.(TextSettable)
	c.data, _ = r.(DataBindable)
	c.index, _ = r.(LayoutIndexed)
	c.loc, _ = r.(LocationAware)
	c.toggle, _ = r.(Toggleable)
	c.enable, _ = r.(Enableable)
	c.open, _ = r.(OpenCloseable)
	c.branch, _ = r.(BranchAware)
	c.press, _ = r.(Pressable)
	return c
}

// apply pushes an item-state snapshot into whichever capabilities the
// renderer has.
func (c caps) apply(s RendererState) {
	if c.data != nil {
		c.data.SetData(s.Item)
	}
	if c.index != nil {
		c.index.SetLayoutIndex(s.LayoutIndex)
	}
	if c.loc != nil {
		c.loc.SetLocation(s.Location)
	}
	if c.toggle != nil {
		c.toggle.SetSelected(s.Selected)
	}
	if c.enable != nil {
		c.enable.SetEnabled(s.Enabled)
	}
	if c.open != nil {
		c.open.SetOpened(s.Opened)
	}
	if c.branch != nil {
		c.branch.SetBranch(s.Branch)
	}
}

// RowStyles holds the presentation of the default row renderer.
type RowStyles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style

	// Branch indicators, shown before the text of hierarchical rows.
	Opened string
	Closed string
	Leaf   string
}

// DefaultRowStyles returns the stock look: reverse-video selection, dim
// disabled rows, triangle branch indicators.
func DefaultRowStyles() RowStyles {
	return RowStyles{
		Normal:   lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Reverse(true),
		Disabled: lipgloss.NewStyle().Faint(true),
		Opened:   "▾ ",
		Closed:   "▸ ",
		Leaf:     "  ",
	}
}

// RowRenderer is the default item renderer: a single text line with
// selection styling and, for hierarchical rows, indentation and a branch
// indicator. It implements every renderer capability.
type RowRenderer struct {
	Styles RowStyles

	item      any
	text      string
	index     int
	location  collections.Location
	selected  bool
	enabled   bool
	opened    bool
	branch    bool
	onTrigger func()
}

// NewRowRenderer returns a RowRenderer with the default styles.
func NewRowRenderer() *RowRenderer {
	return &RowRenderer{Styles: DefaultRowStyles(), enabled: true}
}

func (r *RowRenderer) SetText(text string)                  { r.text = text }
func (r *RowRenderer) SetData(item any)                     { r.item = item }
func (r *RowRenderer) SetLayoutIndex(index int)             { r.index = index }
func (r *RowRenderer) SetLocation(loc collections.Location) { r.location = loc }
func (r *RowRenderer) SetSelected(selected bool)            { r.selected = selected }
func (r *RowRenderer) SetEnabled(enabled bool)              { r.enabled = enabled }
func (r *RowRenderer) SetOpened(opened bool)                { r.opened = opened }
func (r *RowRenderer) SetOnTrigger(fn func())               { r.onTrigger = fn }

// SetBranch marks the row as a branch so the indicator renders.
func (r *RowRenderer) SetBranch(branch bool) { r.branch = branch }

// Data returns the currently bound item (nil while pooled).
func (r *RowRenderer) Data() any { return r.item }

// Text returns the current display text.
func (r *RowRenderer) Text() string { return r.text }

// Trigger fires the row's trigger listener, if attached. The host calls
// this when a primary press or tap lands on the row.
func (r *RowRenderer) Trigger() {
	if r.onTrigger != nil {
		r.onTrigger()
	}
}

func (r *RowRenderer) RenderRow(width int) []string {
	var b strings.Builder
	depth := len(r.location)
	if depth > 1 {
		b.WriteString(strings.Repeat("  ", depth-1))
	}
	if r.location != nil {
		if !r.branch {
			b.WriteString(r.Styles.Leaf)
		} else if r.opened {
			b.WriteString(r.Styles.Opened)
		} else {
			b.WriteString(r.Styles.Closed)
		}
	}
	b.WriteString(r.text)

	line := b.String()
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
	}
	style := r.Styles.Normal
	switch {
	case !r.enabled:
		style = r.Styles.Disabled
	case r.selected:
		style = r.Styles.Selected
	}
	return []string{style.Render(line)}
}
