package collections

// EventKind classifies a collection mutation.
type EventKind int

const (
	// EventAdd reports an item inserted at Index/Location.
	EventAdd EventKind = iota
	// EventRemove reports an item removed from Index/Location.
	EventRemove
	// EventReplace reports the item at Index/Location swapped for another.
	EventReplace
	// EventUpdate reports an in-place change to the item at Index/Location
	// (same identity, new contents).
	EventUpdate
	// EventRemoveAll reports the collection emptied.
	EventRemoveAll
	// EventReset reports a wholesale change (new backing data, or a
	// filter/sort refresh) that invalidates all indices.
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventAdd:
		return "add"
	case EventRemove:
		return "remove"
	case EventReplace:
		return "replace"
	case EventUpdate:
		return "update"
	case EventRemoveAll:
		return "remove-all"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// ListEvent describes a mutation of a flat collection.
type ListEvent struct {
	Kind EventKind
	// Index is the affected position, or -1 for RemoveAll/Reset.
	Index int
	// Item is the added, removed, or replacing item. For EventReplace it
	// is the new item and Replaced carries the old one.
	Item     any
	Replaced any
}

// TreeEvent describes a mutation of a hierarchical collection.
type TreeEvent struct {
	Kind EventKind
	// Location is the affected path, or nil for RemoveAll/Reset.
	Location Location
	Item     any
	Replaced any
}

// subscribers is a tiny dispatch list. Subscribe returns a removal func,
// so consumers detach without knowing about tokens or IDs.
type subscribers[E any] struct {
	entries []*func(E)
}

func (s *subscribers[E]) add(fn func(E)) (remove func()) {
	p := &fn
	s.entries = append(s.entries, p)
	return func() {
		for i, e := range s.entries {
			if e == p {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers[E]) emit(ev E) {
	// Snapshot so handlers can unsubscribe themselves mid-dispatch.
	snapshot := make([]*func(E), len(s.entries))
	copy(snapshot, s.entries)
	for _, e := range snapshot {
		(*e)(ev)
	}
}
