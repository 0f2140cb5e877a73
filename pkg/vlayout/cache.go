// Package vlayout implements windowed ("virtualized") row layout for
// collection controls: given an item count and viewport bounds it answers
// which display indices are visible, without materializing anything for
// off-screen items. The per-item measurement cache is opaque payload owned
// by the layout; controls only keep it correctly sized as the flattened
// item count changes.
package vlayout

// Cache holds one slot per flattened display position. A slot is either a
// layout hint recorded by a previous measurement or nil. Controls resize
// it wholesale when the data source changes and splice it locally when a
// branch opens or closes, so display-index arithmetic stays valid.
type Cache struct {
	slots []any
}

// NewCache returns a cache sized for count display positions.
func NewCache(count int) *Cache {
	c := &Cache{}
	c.Resize(count)
	return c
}

// Len returns the number of display positions.
func (c *Cache) Len() int { return len(c.slots) }

// Resize rebuilds the cache at the given size, discarding every hint.
func (c *Cache) Resize(count int) {
	if count < 0 {
		count = 0
	}
	c.slots = make([]any, count)
}

// Get returns the hint at a display position, or nil for an empty slot or
// an out-of-range index.
func (c *Cache) Get(index int) any {
	if index < 0 || index >= len(c.slots) {
		return nil
	}
	return c.slots[index]
}

// Set records a hint at a display position. Out-of-range writes are
// dropped; the control resizes before the layout measures.
func (c *Cache) Set(index int, hint any) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	c.slots[index] = hint
}

// Insert splices count empty slots in at the given position, shifting
// later hints up. Used when a branch opens.
func (c *Cache) Insert(index, count int) {
	if count <= 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(c.slots) {
		index = len(c.slots)
	}
	c.slots = append(c.slots, make([]any, count)...)
	copy(c.slots[index+count:], c.slots[index:])
	for i := index; i < index+count; i++ {
		c.slots[i] = nil
	}
}

// Remove splices count slots out at the given position, shifting later
// hints down. Used when a branch closes.
func (c *Cache) Remove(index, count int) {
	if count <= 0 || index < 0 || index >= len(c.slots) {
		return
	}
	if index+count > len(c.slots) {
		count = len(c.slots) - index
	}
	c.slots = append(c.slots[:index], c.slots[index+count:]...)
}
