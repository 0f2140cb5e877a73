package controls

import "github.com/weftui/weft/pkg/collections"

// flatSelection is the selection state of a linear collection control: an
// optional selected index plus a cached selected-item reference so reads
// never re-query the collection.
//
// A single change notification fires whenever the index or the item
// identity changes — including an unchanged index over a different item,
// which covers in-place collection replacement.
type flatSelection struct {
	index int
	item  any

	// onChange is the owning control's notification hook.
	onChange func()
}

func newFlatSelection() flatSelection {
	return flatSelection{index: -1}
}

func (s *flatSelection) Index() int { return s.index }
func (s *flatSelection) Item() any  { return s.item }

// setIndex selects the index-th item of data. Out-of-range indices, or
// any index when data is nil, clamp to no selection.
func (s *flatSelection) setIndex(data collections.List, index int) {
	if data == nil || index < 0 || index >= data.Len() {
		s.set(-1, nil)
		return
	}
	s.set(index, data.Get(index))
}

// setItem selects by item identity; an absent item clears the selection.
func (s *flatSelection) setItem(data collections.List, item any) {
	if data == nil || item == nil {
		s.set(-1, nil)
		return
	}
	s.setIndex(data, data.IndexOf(item))
}

func (s *flatSelection) set(index int, item any) {
	if s.index == index && s.item == item {
		return
	}
	s.index = index
	s.item = item
	if s.onChange != nil {
		s.onChange()
	}
}

// handleEvent reconciles the selection with a collection mutation so the
// selected item's identity survives index shifts; only removal of the
// selected item itself (or a wholesale reset) clears the selection.
func (s *flatSelection) handleEvent(data collections.List, ev collections.ListEvent) {
	if s.index < 0 {
		return
	}
	switch ev.Kind {
	case collections.EventAdd:
		if ev.Index <= s.index {
			s.set(s.index+1, s.item)
		}
	case collections.EventRemove:
		switch {
		case ev.Index == s.index:
			s.set(-1, nil)
		case ev.Index < s.index:
			s.set(s.index-1, s.item)
		}
	case collections.EventReplace:
		if ev.Index == s.index {
			// Same index, new identity: still a selection change.
			s.set(s.index, ev.Item)
		}
	case collections.EventRemoveAll, collections.EventReset:
		s.set(-1, nil)
	}
}
