package worksession

import (
	"errors"
	"strings"
)

// State is the attendance state of one user on one calendar day.
type State string

const (
	NotCheckedIn State = "NOT_CHECKED_IN"
	CheckedIn    State = "CHECKED_IN"
	CheckedOut   State = "CHECKED_OUT"
)

type Action string

const (
	ActionCheckIn  Action = "CHECK_IN"
	ActionCheckOut Action = "CHECK_OUT"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrNotCheckedIn     = errors.New("not checked in today")
	ErrDayCompleted     = errors.New("attendance for today is already completed")
	ErrUnknownAction    = errors.New("unknown attendance action")
)

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// StateOf derives the day's state from the stored times.
func StateOf(checkIn, checkOut *string) State {
	switch {
	case !present(checkIn):
		return NotCheckedIn
	case !present(checkOut):
		return CheckedIn
	default:
		return CheckedOut
	}
}

// Transition applies action to s. Invalid actions return s unchanged together
// with the reason, so a state can never move backwards.
func Transition(s State, a Action) (State, error) {
	if s == CheckedOut {
		return s, ErrDayCompleted
	}
	switch a {
	case ActionCheckIn:
		if s != NotCheckedIn {
			return s, ErrAlreadyCheckedIn
		}
		return CheckedIn, nil
	case ActionCheckOut:
		if s != CheckedIn {
			return s, ErrNotCheckedIn
		}
		return CheckedOut, nil
	default:
		return s, ErrUnknownAction
	}
}

// NextAction is the single action available from s, if any.
func NextAction(s State) (Action, bool) {
	switch s {
	case NotCheckedIn:
		return ActionCheckIn, true
	case CheckedIn:
		return ActionCheckOut, true
	default:
		return "", false
	}
}

// Label is the user-facing status text for s.
func Label(s State) string {
	switch s {
	case CheckedIn:
		return "Sedang bekerja"
	case CheckedOut:
		return "Selesai"
	default:
		return "Belum Check-in"
	}
}
