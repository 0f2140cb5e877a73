package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() (*TreeList, *TreeNode, *TreeNode, *TreeNode) {
	node1A := Leaf("node1a")
	node1 := Branch("node1", node1A)
	node2 := Leaf("node2")
	return NewTreeList(node1, node2), node1, node1A, node2
}

func TestTreeListAddressing(t *testing.T) {
	tree, node1, node1A, node2 := sampleTree()

	assert.Equal(t, 2, tree.Length(nil))
	assert.Equal(t, 1, tree.Length(Location{0}))
	assert.Equal(t, 0, tree.Length(Location{1}))

	assert.Equal(t, node1, tree.GetAt(Location{0}))
	assert.Equal(t, node1A, tree.GetAt(Location{0, 0}))
	assert.Nil(t, tree.GetAt(Location{5}))
	assert.Nil(t, tree.GetAt(Location{0, 0, 0}))

	assert.Equal(t, Location{0, 0}, tree.LocationOf(node1A))
	assert.Equal(t, Location{1}, tree.LocationOf(node2))
	assert.Nil(t, tree.LocationOf(Leaf("stranger")))
	assert.True(t, tree.Contains(node1))
}

func TestTreeListIsBranch(t *testing.T) {
	tree, node1, node1A, _ := sampleTree()

	assert.True(t, tree.IsBranch(node1))
	assert.False(t, tree.IsBranch(node1A))
	// An empty branch is still a branch.
	empty := Branch("empty")
	tree.AddAt(empty, Location{2})
	assert.True(t, tree.IsBranch(empty))
}

func TestTreeListMutationEvents(t *testing.T) {
	tree, node1, _, _ := sampleTree()

	var events []TreeEvent
	tree.Subscribe(func(ev TreeEvent) { events = append(events, ev) })

	extra := Leaf("extra")
	tree.AddAt(extra, Location{0, 1})
	assert.Equal(t, extra, tree.GetAt(Location{0, 1}))
	assert.Equal(t, 2, len(node1.Children))

	removed := tree.RemoveAt(Location{0, 0})
	assert.Equal(t, "node1a", removed.Value)

	swap := Leaf("swap")
	old := tree.ReplaceAt(Location{1}, swap)
	assert.Equal(t, "node2", old.Value)

	require.Len(t, events, 3)
	assert.Equal(t, EventAdd, events[0].Kind)
	assert.Equal(t, Location{0, 1}, events[0].Location)
	assert.Equal(t, EventRemove, events[1].Kind)
	assert.Equal(t, EventReplace, events[2].Kind)
	assert.Equal(t, swap, events[2].Item)
	assert.Equal(t, old, events[2].Replaced)
}

func TestTreeListRemoveAllAndReset(t *testing.T) {
	tree, _, _, _ := sampleTree()
	var kinds []EventKind
	tree.Subscribe(func(ev TreeEvent) { kinds = append(kinds, ev.Kind) })

	tree.RemoveAll()
	assert.Equal(t, 0, tree.Length(nil))

	tree.Reset(Leaf("fresh"))
	assert.Equal(t, 1, tree.Length(nil))
	assert.Equal(t, []EventKind{EventRemoveAll, EventReset}, kinds)
}

func TestIdentityMap(t *testing.T) {
	var m IdentityMap[int]
	a, b := Leaf("same"), Leaf("same")

	m.Set(a, 1)
	m.Set(b, 2)
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a)
	require.True(t, ok)
	assert.Equal(t, 1, got)

	m.Delete(a)
	assert.False(t, m.Has(a))
	assert.True(t, m.Has(b))
}
