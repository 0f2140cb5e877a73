package controls

import (
	"fmt"

	"github.com/weftui/weft/pkg/collections"
	"github.com/weftui/weft/pkg/weft"
)

// rendererRecord tracks one renderer instance through its lifecycle:
// inactive (pooled, unbound) -> active (bound, in the visual output) ->
// inactive -> destroyed.
type rendererRecord struct {
	renderer ItemRenderer
	caps     caps
	item     any
	state    RendererState
}

// pool owns a control's active and inactive renderer sets and the
// item<->renderer bookkeeping, and reconciles the visible window against
// the currently bound renderers once per update pass.
//
// Items are keyed by identity; a data source containing the same identity
// twice is detected during the pass and reported as a fatal error.
type pool struct {
	owner    weft.Component
	recycler *Recycler
	// prevRecycler is the recycler to retire pooled renderers with after
	// a recycler swap; nil between swaps.
	prevRecycler *Recycler

	active   []*rendererRecord
	inactive []*rendererRecord

	byItem       collections.IdentityMap[*rendererRecord]
	displayIndex collections.IdentityMap[int]
	byRenderer   map[ItemRenderer]any

	// attach/detach insert and remove a renderer from the control's
	// visual output. Either may be nil.
	attach func(r ItemRenderer)
	detach func(r ItemRenderer)

	// onTrigger is the interaction listener bound to each active
	// renderer's press capability.
	onTrigger func(item any)
}

func newPool(owner weft.Component, recycler *Recycler) *pool {
	return &pool{
		owner:      owner,
		recycler:   recycler,
		byRenderer: make(map[ItemRenderer]any),
	}
}

// setRecycler swaps the recycler. The old one is remembered so the next
// pass can retire every renderer it created.
func (p *pool) setRecycler(rc *Recycler) bool {
	if rc == p.recycler {
		return false
	}
	if p.prevRecycler == nil {
		p.prevRecycler = p.recycler
	}
	p.recycler = rc
	return true
}

// rendererForItem returns the renderer currently bound to the item, or nil.
func (p *pool) rendererForItem(item any) ItemRenderer {
	if rec, ok := p.byItem.Get(item); ok {
		return rec.renderer
	}
	return nil
}

// itemForRenderer returns the item bound to the renderer, or nil.
func (p *pool) itemForRenderer(r ItemRenderer) any {
	return p.byRenderer[r]
}

// displayIndexOf returns the display position an item was bound at, for
// items with an active renderer. An O(1) identity lookup, unlike an
// IndexOf scan of the data source.
func (p *pool) displayIndexOf(item any) (int, bool) {
	return p.displayIndex.Get(item)
}

// activeRecords returns the records bound in the last pass, in display
// order.
func (p *pool) activeRecords() []*rendererRecord { return p.active }

// syncPass describes one reconciliation: the full flattened item order,
// the visible window, and how to build a binding snapshot.
type syncPass struct {
	// count is the flattened item count.
	count int
	// itemAt returns the item at a display index.
	itemAt func(displayIndex int) any
	// stateFor builds the binding snapshot for a visible item.
	stateFor func(item any, displayIndex int) RendererState
	// start/end bound the visible window [start, end).
	start, end int
}

// sync runs the update pass. Postconditions (fatal when violated): the
// inactive set is empty and every active record's item maps back to it.
func (p *pool) sync(pass syncPass) {
	// Swap: last pass's active set becomes this pass's reuse pool.
	p.active, p.inactive = p.inactive, p.active
	if len(p.active) != 0 {
		panic(weft.InvariantError{Op: "pool.sync", Detail: "active renderers not empty before update"})
	}

	// A recycler swap retires every pooled renderer with the recycler
	// that created it before the new one mints any.
	if p.prevRecycler != nil {
		old := p.prevRecycler
		p.prevRecycler = nil
		for _, rec := range p.inactive {
			if rec.item != nil {
				p.recover(old, rec)
			}
			p.destroy(old, rec)
		}
		p.inactive = p.inactive[:0]
	}

	// Find unrendered: claim existing renderers for visible items,
	// remember the rest as needing a binding.
	type pending struct {
		index int
		item  any
	}
	var unrendered []pending
	for i := 0; i < pass.count; i++ {
		item := pass.itemAt(i)
		if i < pass.start || i >= pass.end {
			p.displayIndex.Delete(item)
			continue
		}
		rec, ok := p.byItem.Get(item)
		if !ok {
			unrendered = append(unrendered, pending{index: i, item: item})
			continue
		}
		if !p.removeInactive(rec) {
			// The record was already claimed earlier in this walk: two
			// positions presented the same identity.
			panic(weft.InvariantError{
				Op:     "pool.sync",
				Detail: fmt.Sprintf("collection contains duplicate item %v", item),
			})
		}
		p.bind(rec, item, pass.stateFor(item, i), i)
		p.active = append(p.active, rec)
	}

	// Recover stale: unbind every renderer not re-claimed above. They
	// stay pooled (and attached) for reuse below.
	for _, rec := range p.inactive {
		if rec.item == nil {
			continue
		}
		if cur, ok := p.byItem.Get(rec.item); !ok || cur != rec {
			panic(weft.InvariantError{
				Op:     "pool.sync",
				Detail: fmt.Sprintf("renderer bound to %v is not in the item map; the collection contains duplicate items", rec.item),
			})
		}
		p.recover(p.recycler, rec)
	}

	// Render unrendered: reuse pooled renderers, minting only when the
	// pool runs dry.
	for _, pend := range unrendered {
		var rec *rendererRecord
		if n := len(p.inactive); n > 0 {
			rec = p.inactive[n-1]
			p.inactive = p.inactive[:n-1]
		} else {
			r := p.recycler.Create()
			if r == nil {
				panic(weft.InvariantError{Op: "pool.sync", Detail: "recycler Create returned nil"})
			}
			rec = &rendererRecord{renderer: r, caps: resolveCaps(r)}
			if p.attach != nil {
				p.attach(r)
			}
		}
		p.bind(rec, pend.item, pass.stateFor(pend.item, pend.index), pend.index)
		p.active = append(p.active, rec)
	}

	// Free remainder: anything still pooled is surplus.
	for _, rec := range p.inactive {
		p.destroy(p.recycler, rec)
	}
	p.inactive = p.inactive[:0]

	if len(p.inactive) != 0 {
		panic(weft.InvariantError{Op: "pool.sync", Detail: "inactive renderers not empty after update"})
	}
}

// bind refreshes a record's binding and all maps for the given item.
func (p *pool) bind(rec *rendererRecord, item any, state RendererState, displayIndex int) {
	rec.item = item
	rec.state = state
	rec.caps.apply(state)
	p.recycler.update(rec.renderer, rec.caps, state)
	if rec.caps.press != nil {
		rec.caps.press.SetOnTrigger(func() {
			if p.onTrigger != nil {
				p.onTrigger(item)
			}
		})
	}
	p.byItem.Set(item, rec)
	p.byRenderer[rec.renderer] = item
	p.displayIndex.Set(item, displayIndex)
}

// recover unbinds a record: reset hook, maps, interaction listeners.
func (p *pool) recover(rc *Recycler, rec *rendererRecord) {
	prev := rec.state
	prev.Item = nil
	rc.reset(rec.renderer, rec.caps, prev)
	if rec.caps.data != nil {
		rec.caps.data.SetData(nil)
	}
	if rec.caps.press != nil {
		rec.caps.press.SetOnTrigger(nil)
	}
	p.byItem.Delete(rec.item)
	p.displayIndex.Delete(rec.item)
	delete(p.byRenderer, rec.renderer)
	rec.item = nil
	rec.state = RendererState{}
}

// destroy permanently releases a renderer and detaches it from the visual
// output.
func (p *pool) destroy(rc *Recycler, rec *rendererRecord) {
	if rc.Destroy != nil {
		rc.Destroy(rec.renderer)
	}
	if p.detach != nil {
		p.detach(rec.renderer)
	}
	delete(p.byRenderer, rec.renderer)
}

// releaseAll retires every renderer, active or pooled. Called when the
// control unbinds from its data source.
func (p *pool) releaseAll() {
	for _, rec := range p.active {
		p.recover(p.recycler, rec)
		p.destroy(p.recycler, rec)
	}
	for _, rec := range p.inactive {
		if rec.item != nil {
			p.recover(p.recycler, rec)
		}
		p.destroy(p.recycler, rec)
	}
	p.active = nil
	p.inactive = nil
	p.byItem.Clear()
	p.displayIndex.Clear()
	p.byRenderer = make(map[ItemRenderer]any)
}

func (p *pool) removeInactive(rec *rendererRecord) bool {
	for i, r := range p.inactive {
		if r == rec {
			p.inactive = append(p.inactive[:i], p.inactive[i+1:]...)
			return true
		}
	}
	return false
}
