package weft

// RenderContext carries the constraints a control renders within.
type RenderContext struct {
	// Width is the available width in terminal columns.
	Width int
	// Height is the allocated height in lines. 0 means unconstrained.
	Height int
}

// RenderResult is the output of a Component.Render call.
type RenderResult struct {
	Lines []string
}

// Component is the interface all controls implement. Embed [Base] to get
// flag tracking and scheduling; the unexported method keeps foreign types
// out.
type Component interface {
	// base returns the embedded Base; satisfied by embedding it.
	base() *Base

	// Validate recomputes whatever state the raised flags gate. It runs
	// inside a scheduler pass: flags it raises (on itself or on other
	// controls) are deferred to the next pass.
	Validate()

	// Render produces the control's visual output. Render must not mutate
	// control state; all recomputation belongs in Validate.
	Render(ctx RenderContext) RenderResult
}

// renderCache holds a control's last render output and the constraints
// it was produced under.
type renderCache struct {
	result RenderResult
	ctx    RenderContext
}

// Base is the embeddable core of every control: the raised-flag set, the
// scheduler hookup, the parent link used for input bubbling, and the
// generation-keyed render cache.
type Base struct {
	inv    invalidator
	sched  *Scheduler
	parent *Base
	self   Component

	// generation counts invalidations of this control and its subtree;
	// renderedGen is the generation the cache was rendered at. All on the
	// UI goroutine, so plain ints suffice.
	generation  int64
	renderedGen int64
	cache       *renderCache
}

func (b *Base) base() *Base { return b }

// Invalidate raises the given flags (all aspects when called with none)
// and schedules exactly one validation. Raising more flags before the
// pass runs coalesces into that same pass.
//
// The generation bump propagates to every ancestor, so a parent's cached
// render goes stale when any descendant changes.
func (b *Base) Invalidate(flags ...Flag) {
	for p := b; p != nil; p = p.parent {
		p.generation++
	}
	if b.inv.raise(flags...) && b.sched != nil && b.self != nil {
		b.sched.enqueue(b.self)
	}
}

// IsInvalid reports whether the flag is raised, without clearing it.
// During a validation pass it reads the pass's snapshot.
func (b *Base) IsInvalid(flag Flag) bool { return b.inv.isInvalid(flag) }

// Invalid reports whether any flag is raised.
func (b *Base) Invalid() bool { return b.inv.invalid() }

// ValidateNow validates immediately if any flag is raised. Hosts normally
// let the scheduler drive this; it exists for controls used standalone.
func (b *Base) ValidateNow() { b.validateNow() }

func (b *Base) validateNow() {
	if b.self == nil || !b.inv.invalid() {
		return
	}
	b.inv.begin()
	b.self.Validate()
	b.inv.end()
}

// Scheduler returns the scheduler the control is attached to, or nil.
func (b *Base) Scheduler() *Scheduler { return b.sched }

// Parent returns the enclosing component, or nil at the root.
func (b *Base) Parent() Component {
	if b.parent == nil {
		return nil
	}
	return b.parent.self
}

// Attach wires a component (and, through [ChildHolder], its descendants)
// to a scheduler. A control must be attached before invalidation can
// schedule work; until then flags accumulate silently.
func Attach(comp Component, sched *Scheduler) {
	b := comp.base()
	b.self = comp
	b.sched = sched
	if h, ok := comp.(ChildHolder); ok {
		for _, ch := range h.Children() {
			Attach(ch, sched)
			ch.base().parent = b
		}
	}
	// Anything raised before attachment gets its deferred schedule now.
	if b.inv.invalid() && b.inv.scheduled {
		sched.enqueue(comp)
	}
}

// RenderCached renders c, reusing its cached output when neither it nor
// any descendant was invalidated since the last render under the same
// constraints. Hosts and container controls render children through this
// so clean subtrees cost nothing per frame.
//
// The generation is snapshotted before Render and recorded after, so an
// invalidation raised during Render reads as stale on the next frame.
func RenderCached(c Component, ctx RenderContext) RenderResult {
	b := c.base()
	gen := b.generation
	if b.cache != nil && gen == b.renderedGen && b.cache.ctx == ctx {
		return b.cache.result
	}
	r := c.Render(ctx)
	b.cache = &renderCache{result: r, ctx: ctx}
	b.renderedGen = gen
	return r
}

// ParentOf returns the component enclosing c, or nil at the root. Hosts
// use it to bubble unconsumed input up the tree.
func ParentOf(c Component) Component {
	return c.base().Parent()
}

// ChildHolder is implemented by components that own child components, so
// Attach and input bubbling can traverse them.
type ChildHolder interface {
	Children() []Component
}

// setParent wires a child's parent link and scheduler from an already
// attached parent.
func setParent(child Component, parent *Base) {
	cb := child.base()
	cb.self = child
	cb.parent = parent
	if parent != nil && parent.sched != nil {
		Attach(child, parent.sched)
		cb.parent = parent
	}
}
