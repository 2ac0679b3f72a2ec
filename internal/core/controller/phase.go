package controller

// Phase identifies one lifecycle hook of a controller.
type Phase int

const (
	PhaseInitialize Phase = iota // once, resolved order
	PhasePollEvents              // per frame: input/events
	PhaseUpdate                  // per frame: state advance
	PhaseBeginDraw               // per frame: prepare render targets
	PhaseDraw                    // per frame: submit draw work
	PhaseEndDraw                 // per frame: finalize + present
	PhaseLoop                    // per frame: termination query
	PhaseTerminate               // once, reverse resolved order
)

var phaseNames = [...]string{
	PhaseInitialize: "initialize",
	PhasePollEvents: "poll_events",
	PhaseUpdate:     "update",
	PhaseBeginDraw:  "begin_draw",
	PhaseDraw:       "draw",
	PhaseEndDraw:    "end_draw",
	PhaseLoop:       "loop",
	PhaseTerminate:  "terminate",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Gated reports whether a disabled controller is skipped for this phase.
// Only the three draw phases consult the enable flag; input polling must keep
// running so a controller can re-enable itself from its own PollEvents.
func (p Phase) Gated() bool {
	switch p {
	case PhaseBeginDraw, PhaseDraw, PhaseEndDraw:
		return true
	}
	return false
}

var framePhases = [...]Phase{
	PhasePollEvents,
	PhaseUpdate,
	PhaseBeginDraw,
	PhaseDraw,
	PhaseEndDraw,
}

// FramePhases returns the per-frame phases in execution order.
func FramePhases() []Phase {
	out := framePhases
	return out[:]
}

// Invoke calls the hook for a per-frame phase. Initialize, Loop and Terminate
// have return values and are called directly by the driver.
func Invoke(c Controller, p Phase) {
	switch p {
	case PhasePollEvents:
		c.PollEvents()
	case PhaseUpdate:
		c.Update()
	case PhaseBeginDraw:
		c.BeginDraw()
	case PhaseDraw:
		c.Draw()
	case PhaseEndDraw:
		c.EndDraw()
	}
}
