package login

import "strings"

// State is the state of one login attempt.
type State string

const (
	StateInit      State = "INIT"
	StatePending   State = "PENDING"
	StateUserSign  State = "USER_SIGN"
	StateOK        State = "OK"
	StateError     State = "ERROR"
	StateCancelled State = "CANCELLED"
)

func (s State) Name() string {
	return string(s)
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateOK || s == StateError || s == StateCancelled
}

// transitions lists the legal targets per source state. A self loop on
// PENDING is emitted again; a self loop on USER_SIGN is silent.
var transitions = map[State][]State{
	StateInit:     {StatePending, StateError, StateCancelled},
	StatePending:  {StatePending, StateUserSign, StateOK, StateError, StateCancelled},
	StateUserSign: {StateUserSign, StateOK, StateError, StateCancelled},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// emits reports whether moving from -> to notifies subscribers.
func emits(from, to State) bool {
	return from != to || to == StatePending
}

// remoteState maps a status string of the remote authority to a State.
// Unknown values yield a *ProtocolError.
func remoteState(raw string) (State, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "OUTSTANDING_TRANSACTION", "NO_CLIENT":
		return StatePending, nil
	case "USER_SIGN", "STARTED":
		return StateUserSign, nil
	case "OK", "COMPLETE", "COMPLETED":
		return StateOK, nil
	case "ERROR", "FAILED", "EXPIRED", "EXPIRED_TRANSACTION", "CANCELLED", "USER_CANCEL", "START_FAILED":
		return StateError, nil
	default:
		return "", &ProtocolError{Op: "poll", Status: raw}
	}
}

// settle resolves the state a remote answer leads to from the current state.
// Once the user is signing, a pending answer does not move the attempt back.
func settle(from, to State) State {
	if from == StateUserSign && to == StatePending {
		return StateUserSign
	}
	return to
}
