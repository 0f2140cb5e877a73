package controls

import (
	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

// RendererState is the per-pass snapshot of everything a renderer needs to
// display one item. The pool builds a fresh value for every binding; state
// is never shared between two in-flight bindings.
type RendererState struct {
	// Owner is the control the renderer belongs to.
	Owner weft.Component

	// Item is the bound data item, or nil when the renderer is being
	// reset on its way back to the pool.
	Item any

	// Index is the item's position in a flat collection, or -1 for rows
	// of hierarchical controls.
	Index int

	// Location is the item's path in a hierarchical collection, or nil
	// for rows of flat controls.
	Location collections.Location

	// LayoutIndex is the flattened display position.
	LayoutIndex int

	// Text is the item's display text, produced by the owning control's
	// item-to-text function.
	Text string

	Selected bool
	Enabled  bool
	Opened   bool
	Branch   bool
}

// Recycler is the pluggable create/update/reset/destroy policy for a
// control's item renderers. Create is required; the other hooks are
// optional.
//
// A control compares recyclers by pointer: assigning a different *Recycler
// makes the pool recover and destroy every pooled renderer with the old
// recycler before the new one creates any, so no renderer outlives the
// recycler that made it.
type Recycler struct {
	// Create mints a new unbound renderer.
	Create func() ItemRenderer

	// Update binds the renderer to the supplied state. When nil, the
	// default writes only the text label (through [TextSettable]).
	Update func(r ItemRenderer, state RendererState)

	// Reset unbinds the renderer before it returns to the pool. The state
	// carries the previous binding with Item already nil, so renderers
	// keyed to a data-changed signal still fire. When nil, the default
	// clears only the text label.
	Reset func(r ItemRenderer, state RendererState)

	// Destroy permanently releases a renderer the pool no longer needs.
	// When nil, the renderer is simply detached.
	Destroy func(r ItemRenderer)
}

// NewRowRecycler returns the stock recycler producing [RowRenderer] rows.
func NewRowRecycler() *Recycler {
	return &Recycler{
		Create: func() ItemRenderer { return NewRowRenderer() },
	}
}

func (rc *Recycler) update(r ItemRenderer, c caps, state RendererState) {
	if rc.Update != nil {
		rc.Update(r, state)
		return
	}
	if c.text != nil {
		c.text.SetText(state.Text)
	}
}

func (rc *Recycler) reset(r ItemRenderer, c caps, state RendererState) {
	if rc.Reset != nil {
		rc.Reset(r, state)
		return
	}
	if c.text != nil {
		c.text.SetText("")
	}
}
