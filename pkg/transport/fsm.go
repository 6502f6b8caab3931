// Package transport implements the TransportFSM that coordinates start,
// stop, and locate (seek) between the realtime thread, the butler, and an
// external transport controller. It owns no audio state itself; every
// observable effect is a call out to a TransportAPI collaborator.
package transport

// State is one of the TransportFSM's six states.
type State int

const (
	// Stopped is the initial state.
	Stopped State = iota
	Rolling
	Locating
	DeclickOut
	ButlerWait
	// MasterWait is part of the state space declared for a
	// slaved-to-external-master session; no event in the transition
	// table currently enters or leaves it.
	MasterWait
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Rolling:
		return "Rolling"
	case Locating:
		return "Locating"
	case DeclickOut:
		return "DeclickOut"
	case ButlerWait:
		return "ButlerWait"
	case MasterWait:
		return "MasterWait"
	default:
		return "Unknown"
	}
}

// EventKind identifies which TransportFSM event is being injected.
type EventKind int

const (
	EventStart EventKind = iota
	EventStop
	EventLocate
	EventLocateDone
	EventButlerDone
	EventButlerRequired
	EventDeclickDone
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventStop:
		return "stop"
	case EventLocate:
		return "locate"
	case EventLocateDone:
		return "locate_done"
	case EventButlerDone:
		return "butler_done"
	case EventButlerRequired:
		return "butler_required"
	case EventDeclickDone:
		return "declick_done"
	default:
		return "unknown"
	}
}

// StopParams carries the stop event's payload.
type StopParams struct {
	Abort      bool
	ClearState bool
}

// LocateParams carries the locate event's payload and is latched into
// last_locate on a locate/mark_for_locate transition.
type LocateParams struct {
	Target    int64
	WithRoll  bool
	WithFlush bool
	WithLoop  bool
	Force     bool
}

// Event is one FSM input; only the fields matching Kind are meaningful.
type Event struct {
	Kind   EventKind
	Stop   StopParams
	Locate LocateParams
}

// StartEvent builds a start event.
func StartEvent() Event { return Event{Kind: EventStart} }

// StopEventWith builds a stop event with the given payload.
func StopEventWith(abort, clearState bool) Event {
	return Event{Kind: EventStop, Stop: StopParams{Abort: abort, ClearState: clearState}}
}

// LocateEvent builds a locate event with the given payload.
func LocateEvent(p LocateParams) Event { return Event{Kind: EventLocate, Locate: p} }

// LocateDoneEvent, ButlerDoneEvent, ButlerRequiredEvent, DeclickDoneEvent
// build their respective zero-payload events.
func LocateDoneEvent() Event     { return Event{Kind: EventLocateDone} }
func ButlerDoneEvent() Event     { return Event{Kind: EventButlerDone} }
func ButlerRequiredEvent() Event { return Event{Kind: EventButlerRequired} }
func DeclickDoneEvent() Event    { return Event{Kind: EventDeclickDone} }

// API is the set of actions the FSM invokes on its embedder. None of these
// are implemented by the FSM itself — it only sequences calls to them.
type API interface {
	StartPlayback()
	StopPlayback(abort, clearState bool)
	StartLocate(target int64, withRoll, withFlush, withLoop, force bool)
	ScheduleButlerForTransportWork()
	ButlerCompletedTransportWork()
	ExitDeclick()
	RollAfterLocate()
	LocatePhaseTwo()
}

// FSM is the TransportFSM. It is not safe for concurrent use — the control
// thread must serialize event injection (see the package doc for the
// three-thread model this implements one leg of).
type FSM struct {
	state           State
	stoppedToLocate bool
	lastLocate      LocateParams
	deferred        []Event
	api             API
}

// New returns an FSM in the Stopped state.
func New(api API) *FSM {
	return &FSM{state: Stopped, api: api}
}

// State returns the current state.
func (f *FSM) State() State { return f.state }

// StoppedToLocate reports why DeclickOut was entered: true if declicking
// toward a pending locate, false if declicking toward a plain stop.
func (f *FSM) StoppedToLocate() bool { return f.stoppedToLocate }

// LastLocate returns the most recently latched locate request.
func (f *FSM) LastLocate() LocateParams { return f.lastLocate }

// PendingDeferred returns how many events are queued behind ButlerWait.
func (f *FSM) PendingDeferred() int { return len(f.deferred) }

// Inject delivers an event to the FSM. While in ButlerWait, start and stop
// are queued rather than processed; they're replayed in FIFO order as soon
// as a transition leaves ButlerWait.
func (f *FSM) Inject(e Event) {
	if f.state == ButlerWait && (e.Kind == EventStart || e.Kind == EventStop) {
		f.deferred = append(f.deferred, e)
		return
	}

	prev := f.state
	f.dispatch(e)

	if prev == ButlerWait && f.state != ButlerWait {
		f.drainDeferred()
	}
}

func (f *FSM) drainDeferred() {
	pending := f.deferred
	f.deferred = nil
	for _, e := range pending {
		f.Inject(e)
	}
}

func (f *FSM) dispatch(e Event) {
	switch f.state {
	case Stopped:
		f.dispatchStopped(e)
	case Rolling:
		f.dispatchRolling(e)
	case DeclickOut:
		f.dispatchDeclickOut(e)
	case Locating:
		f.dispatchLocating(e)
	case ButlerWait:
		f.dispatchButlerWait(e)
	}
}

func (f *FSM) dispatchStopped(e Event) {
	switch e.Kind {
	case EventStart:
		f.api.StartPlayback()
		f.state = Rolling
	case EventStop:
		// already stopped
	case EventLocate:
		f.markForLocate(e.Locate)
		f.state = Locating
	case EventButlerDone:
		f.api.ButlerCompletedTransportWork()
	case EventButlerRequired:
		f.api.ScheduleButlerForTransportWork()
		f.state = ButlerWait
	}
}

func (f *FSM) dispatchRolling(e Event) {
	switch e.Kind {
	case EventStop:
		f.markForStop(e.Stop)
		f.state = DeclickOut
	case EventStart:
		// already rolling
	case EventLocate:
		f.markForLocate(e.Locate)
		f.state = DeclickOut
	case EventButlerDone:
		// no action, stays Rolling
	}
}

func (f *FSM) dispatchDeclickOut(e Event) {
	switch e.Kind {
	case EventDeclickDone:
		f.api.ExitDeclick()
		if f.stoppedToLocate {
			l := f.lastLocate
			f.api.StartLocate(l.Target, l.WithRoll, l.WithFlush, l.WithLoop, l.Force)
			f.state = Locating
		} else {
			f.state = Stopped
		}
	case EventButlerRequired:
		f.api.ScheduleButlerForTransportWork()
		f.state = ButlerWait
	}
}

func (f *FSM) dispatchLocating(e Event) {
	switch e.Kind {
	case EventLocateDone:
		if f.lastLocate.WithRoll {
			f.api.RollAfterLocate()
			f.state = Rolling
		} else {
			f.state = Stopped
		}
	case EventStop:
		f.api.StopPlayback(e.Stop.Abort, e.Stop.ClearState)
		f.state = Stopped
	case EventStart:
		f.state = Rolling
	case EventLocate:
		f.state = Rolling
	case EventButlerDone:
		// no action, stays Locating
	case EventButlerRequired:
		f.api.ScheduleButlerForTransportWork()
		f.state = ButlerWait
	}
}

func (f *FSM) dispatchButlerWait(e Event) {
	switch e.Kind {
	case EventButlerDone:
		if f.stoppedToLocate {
			f.api.LocatePhaseTwo()
			f.state = Locating
		} else {
			f.api.ButlerCompletedTransportWork()
			f.state = Stopped
		}
	case EventButlerRequired:
		f.api.ScheduleButlerForTransportWork()
		// stays ButlerWait
	}
}

// markForLocate latches the locate request and starts declicking toward it.
func (f *FSM) markForLocate(l LocateParams) {
	f.stoppedToLocate = true
	f.lastLocate = l
	f.api.StopPlayback(false, false)
}

// markForStop records a plain stop and starts declicking toward it.
func (f *FSM) markForStop(s StopParams) {
	f.stoppedToLocate = false
	f.api.StopPlayback(s.Abort, s.ClearState)
}
