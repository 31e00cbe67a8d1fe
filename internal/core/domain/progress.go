package domain

// Phase is the importer's position in its state machine.
// Phases only move forward: Idle, LoadingRecords, ResolvingRelationships,
// AwaitingDisplayReady, Done.
type Phase int

const (
	// PhaseIdle is the state before Import is called.
	PhaseIdle Phase = iota

	// PhaseLoadingRecords decodes records into the collection.
	PhaseLoadingRecords

	// PhaseResolvingRelationships dereferences relation GUIDs.
	PhaseResolvingRelationships

	// PhaseAwaitingDisplayReady waits for the display consumer's ready signal.
	PhaseAwaitingDisplayReady

	// PhaseDone is terminal.
	PhaseDone
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingRecords:
		return "loading"
	case PhaseResolvingRelationships:
		return "resolving"
	case PhaseAwaitingDisplayReady:
		return "awaiting_display"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition exists.
func (p Phase) Terminal() bool {
	return p == PhaseDone
}

// Progress is the transient import status shown to the user.
type Progress struct {
	// Status is the latest human-readable status line.
	Status string

	// Processed is the number of records loaded so far. It never decreases.
	Processed int

	// Total is the number of records in the import.
	Total int
}

// Fraction returns Processed/Total in [0, 1]. An empty import counts as complete.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	f := float64(p.Processed) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}
