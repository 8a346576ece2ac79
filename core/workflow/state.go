package workflow

import "turnos/common/errs"

type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateInvalid    State = "invalid"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// Busy reports whether a submission is in flight.
func (s State) Busy() bool {
	return s == StateValidating || s == StateSubmitting
}

type action string

const (
	actionValidate action = "validate"
	actionReject   action = "reject"
	actionSubmit   action = "submit"
	actionConfirm  action = "confirm"
	actionFail     action = "fail"
	actionEdit     action = "edit"
)

var transitionMap = map[action][]State{
	actionValidate: {StateEditing, StateConfirmed},
	actionReject:   {StateValidating},
	actionSubmit:   {StateValidating},
	actionConfirm:  {StateSubmitting},
	actionFail:     {StateSubmitting},
	actionEdit:     {StateInvalid, StateFailed, StateConfirmed},
}

var targetState = map[action]State{
	actionValidate: StateValidating,
	actionReject:   StateInvalid,
	actionSubmit:   StateSubmitting,
	actionConfirm:  StateConfirmed,
	actionFail:     StateFailed,
	actionEdit:     StateEditing,
}

func validTransition(a action, from State) bool {
	allowed, ok := transitionMap[a]
	if !ok {
		return false
	}
	for _, state := range allowed {
		if state == from {
			return true
		}
	}
	return false
}

// next returns the state a leads to from, or ErrBusy when a new submission
// is attempted while one is in flight.
func next(a action, from State) (State, error) {
	if validTransition(a, from) {
		return targetState[a], nil
	}
	if a == actionValidate && from.Busy() {
		return from, errs.ErrBusy
	}
	return from, errs.ErrInvalidState
}
