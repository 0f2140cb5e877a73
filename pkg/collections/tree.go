package collections

import "fmt"

// Tree is a hierarchical, observable collection addressed by [Location].
type Tree interface {
	// Length returns the child count of the branch at loc; a nil loc
	// addresses the root level.
	Length(loc Location) int
	// GetAt returns the item at loc, or nil if loc does not address a node.
	GetAt(loc Location) any
	// LocationOf returns the item's location, or nil when absent.
	LocationOf(item any) Location
	Contains(item any) bool
	// IsBranch reports whether the item may contain children. An empty
	// branch is still a branch.
	IsBranch(item any) bool

	Subscribe(fn func(TreeEvent)) (remove func())
}

// TreeNode is the item type of [TreeList]. Nodes are handed to controls as
// opaque items; their pointer identity is what the renderer bookkeeping
// keys on.
type TreeNode struct {
	// Value is the caller's payload.
	Value any
	// Branch marks the node as able to hold children even while empty.
	Branch bool
	// Children are the node's ordered children.
	Children []*TreeNode
}

// Branch builds a branch node with the given children.
func Branch(value any, children ...*TreeNode) *TreeNode {
	return &TreeNode{Value: value, Branch: true, Children: children}
}

// Leaf builds a childless, non-branch node.
func Leaf(value any) *TreeNode {
	return &TreeNode{Value: value}
}

// TreeList is a node-backed Tree.
type TreeList struct {
	roots []*TreeNode
	subs  subscribers[TreeEvent]
}

// NewTreeList builds a TreeList over the given root nodes.
func NewTreeList(roots ...*TreeNode) *TreeList {
	return &TreeList{roots: roots}
}

func (t *TreeList) Subscribe(fn func(TreeEvent)) (remove func()) {
	return t.subs.add(fn)
}

// siblingsAt returns the child slice holding the node addressed by loc's
// last index, or nil when the parent path is invalid.
func (t *TreeList) siblingsAt(loc Location) *[]*TreeNode {
	if len(loc) == 0 {
		return nil
	}
	siblings := &t.roots
	for _, idx := range loc[:len(loc)-1] {
		if idx < 0 || idx >= len(*siblings) {
			return nil
		}
		siblings = &(*siblings)[idx].Children
	}
	return siblings
}

func (t *TreeList) nodeAt(loc Location) *TreeNode {
	siblings := t.siblingsAt(loc)
	if siblings == nil {
		return nil
	}
	last := loc.Last()
	if last < 0 || last >= len(*siblings) {
		return nil
	}
	return (*siblings)[last]
}

func (t *TreeList) Length(loc Location) int {
	if len(loc) == 0 {
		return len(t.roots)
	}
	node := t.nodeAt(loc)
	if node == nil {
		return 0
	}
	return len(node.Children)
}

func (t *TreeList) GetAt(loc Location) any {
	node := t.nodeAt(loc)
	if node == nil {
		return nil
	}
	return node
}

func (t *TreeList) LocationOf(item any) Location {
	node, ok := item.(*TreeNode)
	if !ok {
		return nil
	}
	return findNode(t.roots, nil, node)
}

// findNode searches depth-first; recursion depth is bounded by tree depth.
func findNode(siblings []*TreeNode, prefix Location, target *TreeNode) Location {
	for i, n := range siblings {
		loc := prefix.Child(i)
		if n == target {
			return loc
		}
		if found := findNode(n.Children, loc, target); found != nil {
			return found
		}
	}
	return nil
}

func (t *TreeList) Contains(item any) bool {
	return t.LocationOf(item) != nil
}

func (t *TreeList) IsBranch(item any) bool {
	node, ok := item.(*TreeNode)
	if !ok {
		return false
	}
	return node.Branch || len(node.Children) > 0
}

// AddAt inserts a node so that it ends up addressed by loc.
func (t *TreeList) AddAt(node *TreeNode, loc Location) {
	siblings := t.siblingsAt(loc)
	if siblings == nil {
		panic(fmt.Sprintf("collections: AddAt at invalid location %v", loc))
	}
	idx := loc.Last()
	if idx < 0 || idx > len(*siblings) {
		panic(fmt.Sprintf("collections: AddAt index %d out of range [0,%d]", idx, len(*siblings)))
	}
	*siblings = append(*siblings, nil)
	copy((*siblings)[idx+1:], (*siblings)[idx:])
	(*siblings)[idx] = node
	t.subs.emit(TreeEvent{Kind: EventAdd, Location: loc.Clone(), Item: node})
}

// RemoveAt removes and returns the node at loc (with its subtree).
func (t *TreeList) RemoveAt(loc Location) *TreeNode {
	siblings := t.siblingsAt(loc)
	if siblings == nil {
		panic(fmt.Sprintf("collections: RemoveAt at invalid location %v", loc))
	}
	idx := loc.Last()
	if idx < 0 || idx >= len(*siblings) {
		panic(fmt.Sprintf("collections: RemoveAt index %d out of range [0,%d)", idx, len(*siblings)))
	}
	node := (*siblings)[idx]
	*siblings = append((*siblings)[:idx], (*siblings)[idx+1:]...)
	t.subs.emit(TreeEvent{Kind: EventRemove, Location: loc.Clone(), Item: node})
	return node
}

// ReplaceAt swaps the node at loc, returning the old one.
func (t *TreeList) ReplaceAt(loc Location, node *TreeNode) *TreeNode {
	siblings := t.siblingsAt(loc)
	if siblings == nil {
		panic(fmt.Sprintf("collections: ReplaceAt at invalid location %v", loc))
	}
	idx := loc.Last()
	old := (*siblings)[idx]
	(*siblings)[idx] = node
	t.subs.emit(TreeEvent{Kind: EventReplace, Location: loc.Clone(), Item: node, Replaced: old})
	return old
}

// UpdateAt announces an in-place change to the node at loc.
func (t *TreeList) UpdateAt(loc Location) {
	t.subs.emit(TreeEvent{Kind: EventUpdate, Location: loc.Clone(), Item: t.GetAt(loc)})
}

// RemoveAll empties the tree.
func (t *TreeList) RemoveAll() {
	t.roots = nil
	t.subs.emit(TreeEvent{Kind: EventRemoveAll})
}

// Reset replaces the root nodes wholesale.
func (t *TreeList) Reset(roots ...*TreeNode) {
	t.roots = roots
	t.subs.emit(TreeEvent{Kind: EventReset})
}
