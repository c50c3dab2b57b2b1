package model

// Phase is the stage of the sync state machine.
type Phase int32

const (
	PhaseReplaying Phase = iota
	PhaseCatchingUp
	PhaseLive
)

func (p Phase) String() string {
	switch p {
	case PhaseReplaying:
		return "replaying"
	case PhaseCatchingUp:
		return "catching_up"
	case PhaseLive:
		return "live"
	default:
		return "unknown"
	}
}
