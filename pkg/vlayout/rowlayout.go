package vlayout

// RowHint is the measurement a row layout caches per display position.
type RowHint struct {
	// Height in lines.
	Height int
}

// RowLayout is a vertical layout of rows with a fixed default height and
// optional per-row overrides recorded in a [Cache].
type RowLayout struct {
	// DefaultRowHeight is used for positions without a cached hint.
	// Zero behaves as 1.
	DefaultRowHeight int
}

func (l *RowLayout) rowHeight(cache *Cache, index int) int {
	if cache != nil {
		if h, ok := cache.Get(index).(RowHint); ok && h.Height > 0 {
			return h.Height
		}
	}
	if l.DefaultRowHeight > 0 {
		return l.DefaultRowHeight
	}
	return 1
}

// ContentHeight returns the total height of count rows.
func (l *RowLayout) ContentHeight(count int, cache *Cache) int {
	total := 0
	for i := 0; i < count; i++ {
		total += l.rowHeight(cache, i)
	}
	return total
}

// RowOffset returns the vertical offset of the row at the given display
// index.
func (l *RowLayout) RowOffset(index int, cache *Cache) int {
	off := 0
	for i := 0; i < index; i++ {
		off += l.rowHeight(cache, i)
	}
	return off
}

// RowHeight returns the height of the row at the given display index.
func (l *RowLayout) RowHeight(index int, cache *Cache) int {
	return l.rowHeight(cache, index)
}

// VisibleRange returns the half-open display-index range [start, end) of
// rows intersecting a viewport of the given height scrolled to scrollY.
// With an unconstrained viewport (height <= 0), every row is visible.
func (l *RowLayout) VisibleRange(count, scrollY, viewportHeight int, cache *Cache) (start, end int) {
	if count <= 0 {
		return 0, 0
	}
	if viewportHeight <= 0 {
		return 0, count
	}
	if scrollY < 0 {
		scrollY = 0
	}
	off := 0
	start = count
	for i := 0; i < count; i++ {
		h := l.rowHeight(cache, i)
		if off+h > scrollY {
			start = i
			break
		}
		off += h
	}
	if start == count {
		return count, count
	}
	end = start
	for i := start; i < count && off < scrollY+viewportHeight; i++ {
		off += l.rowHeight(cache, i)
		end = i + 1
	}
	return start, end
}

// MaxScroll returns the largest useful scrollY for the given viewport.
func (l *RowLayout) MaxScroll(count, viewportHeight int, cache *Cache) int {
	if viewportHeight <= 0 {
		return 0
	}
	over := l.ContentHeight(count, cache) - viewportHeight
	if over < 0 {
		return 0
	}
	return over
}
