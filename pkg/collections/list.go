package collections

import (
	"fmt"
	"sort"
)

// List is a flat, observable collection of identity-comparable items.
// Indices always refer to the visible order (after any filter/sort).
type List interface {
	Len() int
	Get(index int) any
	IndexOf(item any) int
	Contains(item any) bool

	// Subscribe registers a mutation handler and returns its removal func.
	Subscribe(fn func(ListEvent)) (remove func())
}

// ArrayList is a slice-backed List with optional filter and sort applied
// as a view over the backing items.
//
// While a filter or sort is active, structural mutations re-derive the
// view and report themselves as EventReset rather than positional events,
// since visible indices may shift arbitrarily.
type ArrayList struct {
	items []any
	view  []any // nil when no filter/sort is active

	filter func(item any) bool
	sortFn func(a, b any) int

	subs subscribers[ListEvent]
}

// NewArrayList builds an ArrayList over the given items. The slice is
// taken over, not copied.
func NewArrayList(items ...any) *ArrayList {
	return &ArrayList{items: items}
}

func (l *ArrayList) Subscribe(fn func(ListEvent)) (remove func()) {
	return l.subs.add(fn)
}

func (l *ArrayList) visible() []any {
	if l.view != nil {
		return l.view
	}
	return l.items
}

func (l *ArrayList) Len() int { return len(l.visible()) }

func (l *ArrayList) Get(index int) any {
	v := l.visible()
	if index < 0 || index >= len(v) {
		panic(fmt.Sprintf("collections: index %d out of range [0,%d)", index, len(v)))
	}
	return v[index]
}

func (l *ArrayList) IndexOf(item any) int {
	for i, it := range l.visible() {
		if it == item {
			return i
		}
	}
	return -1
}

func (l *ArrayList) Contains(item any) bool { return l.IndexOf(item) >= 0 }

// Add appends an item to the visible order.
func (l *ArrayList) Add(item any) {
	l.Insert(l.Len(), item)
}

// Insert places an item at the given visible index. With an active filter
// or sort the view decides the item's position; the index is ignored.
func (l *ArrayList) Insert(index int, item any) {
	if l.view != nil {
		l.items = append(l.items, item)
		l.Refresh()
		return
	}
	l.items = append(l.items, nil)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	l.subs.emit(ListEvent{Kind: EventAdd, Index: index, Item: item})
}

// RemoveAt removes and returns the item at the given visible index.
func (l *ArrayList) RemoveAt(index int) any {
	if l.view != nil {
		item := l.view[index]
		backing := l.backingIndexOf(item)
		l.items = append(l.items[:backing], l.items[backing+1:]...)
		l.Refresh()
		return item
	}
	item := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.subs.emit(ListEvent{Kind: EventRemove, Index: index, Item: item})
	return item
}

// Remove removes the first occurrence of item by identity. Reports whether
// anything was removed.
func (l *ArrayList) Remove(item any) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

// Replace swaps the item at the given visible index, returning the old one.
func (l *ArrayList) Replace(index int, item any) any {
	if l.view != nil {
		old := l.view[index]
		l.items[l.backingIndexOf(old)] = item
		l.Refresh()
		return old
	}
	old := l.items[index]
	l.items[index] = item
	l.subs.emit(ListEvent{Kind: EventReplace, Index: index, Item: item, Replaced: old})
	return old
}

// UpdateAt announces that the item at index changed in place (same
// identity, new contents), so bound renderers refresh.
func (l *ArrayList) UpdateAt(index int) {
	l.subs.emit(ListEvent{Kind: EventUpdate, Index: index, Item: l.Get(index)})
}

// RemoveAll empties the collection.
func (l *ArrayList) RemoveAll() {
	l.items = nil
	l.view = nil
	l.subs.emit(ListEvent{Kind: EventRemoveAll, Index: -1})
}

// Reset replaces the backing items wholesale.
func (l *ArrayList) Reset(items ...any) {
	l.items = items
	l.rebuildView()
	l.subs.emit(ListEvent{Kind: EventReset, Index: -1})
}

// SetFilter installs (or clears, with nil) a visibility predicate and
// refreshes the view.
func (l *ArrayList) SetFilter(fn func(item any) bool) {
	l.filter = fn
	l.Refresh()
}

// SetSort installs (or clears, with nil) a comparison for the visible
// order and refreshes the view.
func (l *ArrayList) SetSort(fn func(a, b any) int) {
	l.sortFn = fn
	l.Refresh()
}

// Refresh re-derives the filtered/sorted view and reports a reset.
func (l *ArrayList) Refresh() {
	l.rebuildView()
	l.subs.emit(ListEvent{Kind: EventReset, Index: -1})
}

func (l *ArrayList) rebuildView() {
	if l.filter == nil && l.sortFn == nil {
		l.view = nil
		return
	}
	view := make([]any, 0, len(l.items))
	for _, it := range l.items {
		if l.filter == nil || l.filter(it) {
			view = append(view, it)
		}
	}
	if l.sortFn != nil {
		sort.SliceStable(view, func(i, j int) bool { return l.sortFn(view[i], view[j]) < 0 })
	}
	l.view = view
}

func (l *ArrayList) backingIndexOf(item any) int {
	for i, it := range l.items {
		if it == item {
			return i
		}
	}
	return -1
}
