package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNilState            = errors.New("invalid state: state cannot be nil")
	ErrNilEvent            = errors.New("invalid event: event cannot be nil")
	ErrDuplicateTransition = errors.New("duplicate transition")
)

// IllegalTransitionError indicates no edge exists for the given state/event
// combination. The caller's event was simply inapplicable; nothing was changed.
type IllegalTransitionError struct {
	StateName string
	EventName string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: no edge from state '%s' for event '%s'", e.StateName, e.EventName)
}

func newIllegalTransitionError(stateName, eventName string) *IllegalTransitionError {
	return &IllegalTransitionError{
		StateName: stateName,
		EventName: eventName,
	}
}

// TerminalStateError indicates the entity already reached a terminal state,
// from which no event is ever accepted. Distinct from IllegalTransitionError
// so callers can tell "this entity is done" from "you sent the wrong event".
type TerminalStateError struct {
	StateName string
	EventName string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("terminal state: '%s' accepts no events, rejected '%s'", e.StateName, e.EventName)
}

func newTerminalStateError(stateName, eventName string) *TerminalStateError {
	return &TerminalStateError{
		StateName: stateName,
		EventName: eventName,
	}
}

func IsIllegalTransitionError(err error) bool {
	var e *IllegalTransitionError
	return errors.As(err, &e)
}

func IsTerminalStateError(err error) bool {
	var e *TerminalStateError
	return errors.As(err, &e)
}
