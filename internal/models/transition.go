package models

import "fmt"

// Transition - команда модерации над инцидентом
type Transition string

const (
	TransitionVerify  Transition = "verify"
	TransitionReject  Transition = "reject"
	TransitionResolve Transition = "resolve"
)

// Target возвращает статус, в который переводит команда
func (t Transition) Target() Status {
	switch t {
	case TransitionVerify:
		return StatusVerified
	case TransitionReject:
		return StatusRejected
	case TransitionResolve:
		return StatusResolved
	}
	return ""
}

// CheckTransition проверяет, допустима ли команда из текущего статуса.
//
//	reported -> verified | rejected
//	rejected -> verified
//	verified -> rejected | resolved
//	resolved -> (терминальный)
func CheckTransition(from Status, t Transition) error {
	switch t {
	case TransitionVerify:
		if from == StatusReported || from == StatusRejected {
			return nil
		}
		if from == StatusVerified {
			return fmt.Errorf("%w: incident is already verified", ErrConflict)
		}
	case TransitionReject:
		if from == StatusReported || from == StatusVerified {
			return nil
		}
		if from == StatusRejected {
			return fmt.Errorf("%w: incident is already rejected", ErrConflict)
		}
	case TransitionResolve:
		if from == StatusVerified {
			return nil
		}
		if from == StatusResolved {
			return fmt.Errorf("%w: incident is already resolved", ErrConflict)
		}
		return fmt.Errorf("%w: only verified incidents can be marked as resolved", ErrConflict)
	default:
		return fmt.Errorf("%w: unknown transition %q", ErrValidation, t)
	}
	return fmt.Errorf("%w: cannot %s incident in status %s", ErrConflict, t, from)
}
