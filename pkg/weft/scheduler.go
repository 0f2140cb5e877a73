package weft

// Scheduler batches control validation. Controls enqueue themselves when
// their first flag is raised; RunPass drains the queue on the single UI
// goroutine. Controls invalidated while a pass runs (including a control
// re-invalidating itself from its own Validate) are queued for the next
// pass, never the current one.
//
// The scheduler does not own a goroutine. A host (such as term.Screen)
// sets OnSchedule to wake its loop; tests simply call RunPass.
type Scheduler struct {
	pending []Component
	queued  map[*Base]struct{}
	running bool
	woken   bool

	// OnSchedule is called at most once per idle period when work becomes
	// pending. It must not call RunPass synchronously.
	OnSchedule func()
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{queued: make(map[*Base]struct{})}
}

// enqueue adds a control to the pending queue, deduplicating repeats.
func (s *Scheduler) enqueue(c Component) {
	b := c.base()
	if _, ok := s.queued[b]; ok {
		return
	}
	s.queued[b] = struct{}{}
	s.pending = append(s.pending, c)
	if !s.woken && !s.running {
		s.woken = true
		if s.OnSchedule != nil {
			s.OnSchedule()
		}
	}
}

// Pending reports whether any control is waiting to validate.
func (s *Scheduler) Pending() bool { return len(s.pending) > 0 }

// RunPass validates every control that was pending when the pass started.
// Controls enqueued during the pass stay pending for the next call; use
// [Scheduler.RunUntilClean] to drain them all.
func (s *Scheduler) RunPass() {
	if s.running {
		// A control tried to run a pass from inside a pass. Validation is
		// strictly non-reentrant.
		panic(InvariantError{Op: "RunPass", Detail: "validation pass is already running"})
	}
	take := s.pending
	s.pending = nil
	s.queued = make(map[*Base]struct{})
	s.woken = false

	s.running = true
	defer func() { s.running = false }()
	for _, c := range take {
		c.base().validateNow()
	}
}

// RunUntilClean runs passes until no control is pending. The limit bounds
// runaway invalidation cycles; exceeding it is an invariant violation.
func (s *Scheduler) RunUntilClean() {
	const limit = 100
	for i := 0; s.Pending(); i++ {
		if i == limit {
			panic(InvariantError{Op: "RunUntilClean", Detail: "controls kept re-invalidating after 100 passes"})
		}
		s.RunPass()
	}
}
