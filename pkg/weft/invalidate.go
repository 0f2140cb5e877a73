package weft

// Flag identifies one aspect of a control's state that must be recomputed
// during its next validation pass. The built-in flags cover the common
// aspects; controls may define their own with [FlagCustom].
type Flag string

const (
	// FlagData is raised when the bound data source changed.
	FlagData Flag = "data"
	// FlagSelection is raised when the selected index, item, or location
	// changed.
	FlagSelection Flag = "selection"
	// FlagStyle is raised when presentation settings changed.
	FlagStyle Flag = "style"
	// FlagLayout is raised when geometry, scroll position, or the layout
	// itself changed.
	FlagLayout Flag = "layout"
	// FlagState is raised when interaction state (focus, enabled, open)
	// changed.
	FlagState Flag = "state"
)

// FlagCustom returns a control-defined flag. Custom flags share a namespace
// with the built-in ones, so prefix them (e.g. "treeview:opened") when that
// matters.
func FlagCustom(name string) Flag { return Flag(name) }

// invalidator tracks the raised flags of a single control and schedules
// exactly one validation for any number of raises.
//
// A validation pass snapshots the raised set at its start and clears the
// snapshot at its end. Flags raised while the pass runs land in the next
// snapshot: they are never acted on reentrantly, which is what prevents
// infinite validate-inside-validate loops.
type invalidator struct {
	raised   map[Flag]struct{}
	inFlight map[Flag]struct{}

	// raisedAll / inFlightAll record a blanket invalidation (Invalidate
	// with no arguments), which makes every flag read as raised.
	raisedAll   bool
	inFlightAll bool

	validating bool
	scheduled  bool
}

// raise records flags and reports whether a validation needs scheduling.
// With no arguments, everything is considered invalid.
func (iv *invalidator) raise(flags ...Flag) (needsSchedule bool) {
	if len(flags) == 0 {
		iv.raisedAll = true
	}
	for _, f := range flags {
		if iv.raised == nil {
			iv.raised = make(map[Flag]struct{})
		}
		iv.raised[f] = struct{}{}
	}
	if iv.scheduled {
		return false
	}
	iv.scheduled = true
	return true
}

// isInvalid reports whether a flag is currently raised, without clearing
// anything. During a validation pass it consults the pass's snapshot, so
// work stays gated on the flags the pass committed to act on.
func (iv *invalidator) isInvalid(flag Flag) bool {
	if iv.validating {
		if iv.inFlightAll {
			return true
		}
		_, ok := iv.inFlight[flag]
		return ok
	}
	if iv.raisedAll {
		return true
	}
	_, ok := iv.raised[flag]
	return ok
}

// invalid reports whether any flag at all is raised.
func (iv *invalidator) invalid() bool {
	if iv.validating {
		return iv.inFlightAll || len(iv.inFlight) > 0
	}
	return iv.raisedAll || len(iv.raised) > 0
}

// begin starts a validation pass: the raised set becomes the pass snapshot
// and the live set is emptied so that raises during the pass accumulate
// for the next one.
func (iv *invalidator) begin() {
	iv.inFlight = iv.raised
	iv.inFlightAll = iv.raisedAll
	iv.raised = nil
	iv.raisedAll = false
	iv.scheduled = false
	iv.validating = true
}

// end finishes the pass, clearing the snapshot atomically.
func (iv *invalidator) end() {
	iv.inFlight = nil
	iv.inFlightAll = false
	iv.validating = false
}
