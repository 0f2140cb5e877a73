package weft

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// EventContext provides access to host operations from input handlers.
type EventContext struct {
	sched    *Scheduler
	setFocus func(Component)
}

// NewEventContext builds the context a host passes into input handlers.
func NewEventContext(sched *Scheduler, setFocus func(Component)) EventContext {
	return EventContext{sched: sched, setFocus: setFocus}
}

// Scheduler returns the scheduler driving the host's validation passes.
func (ctx EventContext) Scheduler() *Scheduler { return ctx.sched }

// SetFocus gives keyboard focus to the given component (or nil to blur).
func (ctx EventContext) SetFocus(comp Component) {
	if ctx.setFocus != nil {
		ctx.setFocus(comp)
	}
}

// Interactive is an optional interface for components that accept keyboard
// input when focused. Events are delivered to the focused component first;
// returning false lets the event bubble to parent components.
type Interactive interface {
	Component

	// HandleKeyPress receives a decoded key press. Return true if the
	// event was consumed.
	HandleKeyPress(ctx EventContext, ev uv.KeyPressEvent) bool
}

// Focusable is an optional interface for components that want to know when
// they gain or lose keyboard focus.
type Focusable interface {
	SetFocused(focused bool)
}

// Pressable is an optional interface for components that respond to a
// primary-pointer press at a row/column within their rendered output.
type Pressable interface {
	Component

	// HandlePress receives component-relative coordinates. Return true if
	// the press was consumed.
	HandlePress(ctx EventContext, row, col int) bool
}
