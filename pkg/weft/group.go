package weft

// Group is a component that stacks child components vertically. It is the
// plain visual container controls and hosts compose into.
type Group struct {
	Base
	children []Component
}

func (g *Group) Children() []Component { return g.children }

// Add appends a child and invalidates layout.
func (g *Group) Add(comp Component) {
	g.children = append(g.children, comp)
	setParent(comp, &g.Base)
	g.Invalidate(FlagLayout)
}

// Remove detaches a child. Removing a component that is not a child is a
// no-op.
func (g *Group) Remove(comp Component) {
	for i, ch := range g.children {
		if ch == comp {
			g.children = append(g.children[:i], g.children[i+1:]...)
			ch.base().parent = nil
			g.Invalidate(FlagLayout)
			return
		}
	}
}

// Clear detaches all children.
func (g *Group) Clear() {
	for _, ch := range g.children {
		ch.base().parent = nil
	}
	g.children = nil
	g.Invalidate(FlagLayout)
}

func (g *Group) Validate() {
	for _, ch := range g.children {
		ch.base().validateNow()
	}
}

func (g *Group) Render(ctx RenderContext) RenderResult {
	var lines []string
	for _, ch := range g.children {
		r := RenderCached(ch, ctx)
		lines = append(lines, r.Lines...)
	}
	return RenderResult{Lines: lines}
}
