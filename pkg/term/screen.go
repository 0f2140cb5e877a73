package term

import (
	"fmt"
	"strings"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/weftui/weft/pkg/weft"
)

// Screen hosts a weft component tree on a Terminal. All component work —
// validation passes, input dispatch, rendering — runs on one event-loop
// goroutine; other goroutines hand work in through [Screen.Post].
type Screen struct {
	terminal Terminal
	sched    *weft.Scheduler

	// OnKey intercepts key events before focus dispatch. Return true to
	// consume the event.
	OnKey func(ev uv.KeyPressEvent) bool

	events chan any
	loopWG sync.WaitGroup

	stopMu  sync.Mutex
	stopped bool

	// Event-loop state below; touched only from the loop goroutine.
	root    weft.Component
	focused weft.Component

	prevLines []string
	prevWidth int
	cursorRow int
}

type keyMsg struct{ ev uv.KeyPressEvent }
type resizeMsg struct{}
type renderMsg struct{}
type funcMsg struct{ fn func() }

// NewScreen returns a screen over the given terminal. The event loop
// starts with [Screen.Start].
func NewScreen(t Terminal) *Screen {
	s := &Screen{
		terminal:  t,
		sched:     weft.NewScheduler(),
		events:    make(chan any, 64),
		prevWidth: -1,
	}
	s.sched.OnSchedule = func() { s.post(renderMsg{}) }
	return s
}

// Scheduler returns the scheduler driving the screen's validation passes.
func (s *Screen) Scheduler() *weft.Scheduler { return s.sched }

// SetRoot attaches the component tree the screen renders. Call before
// Start, or from the event loop via Post.
func (s *Screen) SetRoot(root weft.Component) {
	s.root = root
	if root != nil {
		weft.Attach(root, s.sched)
		if inv, ok := root.(interface{ Invalidate(flags ...weft.Flag) }); ok {
			inv.Invalidate()
		}
	}
}

// SetFocus gives keyboard focus to the given component (or nil to blur).
func (s *Screen) SetFocus(comp weft.Component) {
	if f, ok := s.focused.(weft.Focusable); ok {
		f.SetFocused(false)
	}
	s.focused = comp
	if f, ok := comp.(weft.Focusable); ok {
		f.SetFocused(true)
	}
}

// Focused returns the component holding keyboard focus, or nil.
func (s *Screen) Focused() weft.Component { return s.focused }

// Post runs fn on the event-loop goroutine. It is the only safe way to
// mutate components from other goroutines once the screen has started.
// Post must not be called from the loop goroutine itself (event handlers
// already run there); a full queue would deadlock.
func (s *Screen) Post(fn func()) { s.post(funcMsg{fn: fn}) }

// post delivers a message to the event loop. Render requests coalesce:
// when the queue is full a frame is already due, so dropping one is
// harmless. Keys and posted funcs must never be lost, so they block
// until the loop drains. Holding stopMu through the send keeps Stop
// from closing the channel under a blocked sender.
func (s *Screen) post(msg any) {
	s.stopMu.Lock()
	defer s.stopMu.Unlock()
	if s.stopped {
		return
	}
	if _, coalesce := msg.(renderMsg); coalesce {
		select {
		case s.events <- msg:
		default:
		}
		return
	}
	s.events <- msg
}

// Start puts the terminal in raw mode and runs the event loop until Stop.
func (s *Screen) Start() error {
	err := s.terminal.Start(
		func(data []byte) {
			for _, ev := range DecodeKeys(data) {
				s.post(keyMsg{ev: ev})
			}
		},
		func() { s.post(resizeMsg{}) },
	)
	if err != nil {
		return err
	}
	s.terminal.HideCursor()
	s.loopWG.Add(1)
	go s.loop()
	s.post(renderMsg{})
	return nil
}

// Stop ends the event loop and restores the terminal. The cursor is moved
// below the rendered content so the shell prompt lands cleanly.
func (s *Screen) Stop() {
	s.stopMu.Lock()
	if s.stopped {
		s.stopMu.Unlock()
		return
	}
	s.stopped = true
	close(s.events)
	s.stopMu.Unlock()
	s.loopWG.Wait()

	if n := len(s.prevLines); n > 0 {
		if diff := n - 1 - s.cursorRow; diff > 0 {
			s.terminal.WriteString(fmt.Sprintf("\x1b[%dB", diff))
		}
		s.terminal.WriteString("\r\n")
	}
	s.terminal.ShowCursor()
	s.terminal.Stop()
}

func (s *Screen) loop() {
	defer s.loopWG.Done()
	for msg := range s.events {
		switch m := msg.(type) {
		case keyMsg:
			s.dispatchKey(m.ev)
		case resizeMsg:
			// Force the clear-and-repaint path; stale lines from the
			// old geometry must not survive.
			s.prevLines = nil
			s.prevWidth = 0
		case funcMsg:
			m.fn()
		case renderMsg:
		}
		s.frame()
	}
}

// dispatchKey routes a key to the focused component, bubbling unconsumed
// events through its parents.
func (s *Screen) dispatchKey(ev uv.KeyPressEvent) {
	if s.OnKey != nil && s.OnKey(ev) {
		return
	}
	ctx := weft.NewEventContext(s.sched, s.SetFocus)
	for c := s.focused; c != nil; c = weft.ParentOf(c) {
		if in, ok := c.(weft.Interactive); ok && in.HandleKeyPress(ctx, ev) {
			return
		}
	}
}

// frame runs validation to quiescence and paints the result.
func (s *Screen) frame() {
	s.sched.RunUntilClean()
	width := s.terminal.Columns()
	height := s.terminal.Rows()
	var lines []string
	if s.root != nil {
		lines = weft.RenderCached(s.root, weft.RenderContext{Width: width, Height: height}).Lines
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	s.paint(lines, width)
}

// paint writes the frame differentially: only changed lines are repainted,
// inside a synchronized-output bracket. Any change in frame height falls
// back to a clear and full repaint.
func (s *Screen) paint(newLines []string, width int) {
	firstFrame := s.prevWidth == -1
	sameShape := !firstFrame && width == s.prevWidth && len(newLines) == len(s.prevLines)

	var buf strings.Builder
	buf.WriteString("\x1b[?2026h")

	switch {
	case firstFrame:
		for i, line := range newLines {
			if i > 0 {
				buf.WriteString("\r\n")
			}
			buf.WriteString(line)
		}
		s.cursorRow = max(0, len(newLines)-1)

	case !sameShape:
		buf.WriteString("\x1b[2J\x1b[H")
		for i, line := range newLines {
			if i > 0 {
				buf.WriteString("\r\n")
			}
			buf.WriteString("\x1b[2K")
			buf.WriteString(line)
		}
		s.cursorRow = max(0, len(newLines)-1)

	default:
		first, last := -1, -1
		for i := range newLines {
			if newLines[i] != s.prevLines[i] {
				if first == -1 {
					first = i
				}
				last = i
			}
		}
		if first == -1 {
			s.prevLines = newLines
			return
		}
		moveCursor(&buf, s.cursorRow, first)
		buf.WriteString("\r")
		for i := first; i <= last; i++ {
			if i > first {
				buf.WriteString("\r\n")
			}
			buf.WriteString("\x1b[2K")
			buf.WriteString(newLines[i])
		}
		s.cursorRow = last
	}

	buf.WriteString("\x1b[?2026l")
	s.terminal.WriteString(buf.String())
	s.prevLines = newLines
	s.prevWidth = width
}

func moveCursor(buf *strings.Builder, from, to int) {
	if diff := to - from; diff > 0 {
		fmt.Fprintf(buf, "\x1b[%dB", diff)
	} else if diff < 0 {
		fmt.Fprintf(buf, "\x1b[%dA", -diff)
	}
}
