package collections

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct{ name string }

func TestArrayListMutationEvents(t *testing.T) {
	a, b, c := &rec{"a"}, &rec{"b"}, &rec{"c"}
	l := NewArrayList(a, b)

	var events []ListEvent
	unsub := l.Subscribe(func(ev ListEvent) { events = append(events, ev) })

	l.Add(c)
	l.RemoveAt(0)
	l.Replace(0, a)

	require.Len(t, events, 3)
	assert.Equal(t, ListEvent{Kind: EventAdd, Index: 2, Item: c}, events[0])
	assert.Equal(t, ListEvent{Kind: EventRemove, Index: 0, Item: a}, events[1])
	assert.Equal(t, ListEvent{Kind: EventReplace, Index: 0, Item: a, Replaced: b}, events[2])

	unsub()
	l.Add(b)
	assert.Len(t, events, 3, "unsubscribed handler must not fire")
}

func TestArrayListIdentityLookup(t *testing.T) {
	// Two distinct pointers to equal values are distinct items.
	x1, x2 := &rec{"x"}, &rec{"x"}
	l := NewArrayList(x1, x2)

	assert.Equal(t, 0, l.IndexOf(x1))
	assert.Equal(t, 1, l.IndexOf(x2))
	assert.True(t, l.Contains(x2))
	assert.Equal(t, -1, l.IndexOf(&rec{"x"}))
}

func TestArrayListFilterSortView(t *testing.T) {
	names := []any{&rec{"delta"}, &rec{"alpha"}, &rec{"charlie"}, &rec{"bravo"}}
	l := NewArrayList(names...)

	var resets int
	l.Subscribe(func(ev ListEvent) {
		if ev.Kind == EventReset {
			resets++
		}
	})

	l.SetSort(func(a, b any) int {
		return strings.Compare(a.(*rec).name, b.(*rec).name)
	})
	require.Equal(t, 1, resets)
	assert.Equal(t, "alpha", l.Get(0).(*rec).name)
	assert.Equal(t, "delta", l.Get(3).(*rec).name)

	l.SetFilter(func(item any) bool {
		return !strings.HasPrefix(item.(*rec).name, "a")
	})
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "bravo", l.Get(0).(*rec).name)

	// Structural mutation under an active view reports a reset.
	resets = 0
	l.RemoveAt(0)
	assert.Equal(t, 1, resets)
	assert.Equal(t, 2, l.Len())

	l.SetFilter(nil)
	l.SetSort(nil)
	assert.Equal(t, 3, l.Len())
}

func TestArrayListRemoveAllAndReset(t *testing.T) {
	l := NewArrayList(&rec{"a"})
	var kinds []EventKind
	l.Subscribe(func(ev ListEvent) { kinds = append(kinds, ev.Kind) })

	l.RemoveAll()
	l.Reset(&rec{"b"}, &rec{"c"})

	assert.Equal(t, []EventKind{EventRemoveAll, EventReset}, kinds)
	assert.Equal(t, 2, l.Len())
}
