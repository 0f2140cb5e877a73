package collections

import "fmt"

// Location is the path of child indices identifying a node in a
// hierarchical collection: the root's children have locations of length 1.
// A nil Location means "no location" (no selection) and sorts after every
// non-nil location.
type Location []int

// Compare orders locations lexicographically by index at each depth.
// A shorter location sorts before a longer one sharing its prefix, so a
// parent sorts immediately before its first child's subtree. The ordering
// is consistent with pre-order depth-first display order.
func (l Location) Compare(other Location) int {
	if l == nil && other == nil {
		return 0
	}
	if l == nil {
		return 1
	}
	if other == nil {
		return -1
	}
	for i := 0; i < len(l) && i < len(other); i++ {
		if l[i] != other[i] {
			if l[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(l) < len(other):
		return -1
	case len(l) > len(other):
		return 1
	}
	return 0
}

// Equal reports whether two locations address the same node. Two nil
// locations are equal.
func (l Location) Equal(other Location) bool { return l.Compare(other) == 0 }

// HasPrefix reports whether prefix addresses l itself or one of its
// ancestors. A nil prefix is not an ancestor of anything.
func (l Location) HasPrefix(prefix Location) bool {
	if prefix == nil || len(prefix) > len(l) {
		return false
	}
	for i, idx := range prefix {
		if l[i] != idx {
			return false
		}
	}
	return true
}

// Parent returns the location of the enclosing branch, or nil for a
// top-level location.
func (l Location) Parent() Location {
	if len(l) <= 1 {
		return nil
	}
	return l[:len(l)-1].Clone()
}

// Last returns the final index of the path. Panics on a nil location.
func (l Location) Last() int {
	if len(l) == 0 {
		panic(fmt.Sprintf("collections: Last on empty location %v", l))
	}
	return l[len(l)-1]
}

// Clone returns an independent copy.
func (l Location) Clone() Location {
	if l == nil {
		return nil
	}
	out := make(Location, len(l))
	copy(out, l)
	return out
}

// Child returns the location of the index-th child of l.
func (l Location) Child(index int) Location {
	out := make(Location, len(l)+1)
	copy(out, l)
	out[len(l)] = index
	return out
}

func (l Location) String() string {
	if l == nil {
		return "(none)"
	}
	return fmt.Sprint([]int(l))
}
