// Package statemachine implements the finite-state-machine pattern around an
// immutable transition chart.
//
// The package revolves around two minimal interfaces, State and Event, that
// give you full freedom to model domain specific states and events while the
// library handles:
//  1. Transition lookup and legality validation
//  2. Terminal-state enforcement (a terminal state accepts no events, even
//     when the table defines an outgoing edge)
//  3. Production of Outcome audit records for every accepted transition
//
// Ready-made helpers such as StringState and StringEvent let you get started
// quickly for simple scenarios, while custom struct types can satisfy the
// interfaces when additional data is required.
//
// # Architecture
//
// A Chart is assembled once at process start through functional options and
// never mutated afterwards, so it can be shared read-only across all
// goroutines with no locking. Decide is a pure function: it consults the
// chart, rejects illegal (state, event) pairs and any event against a
// terminal state, and returns a timestamped Outcome. It performs no I/O and
// holds no entity state; persisting the outcome belongs to the caller.
//
// Rich error types with helper predicates (e.g. IsIllegalTransitionError)
// allow callers to differentiate between "no such edge" and "entity already
// terminal" cases.
//
// # Usage
//
//	const (
//	    Draft    = statemachine.StringState("draft")
//	    InReview = statemachine.StringState("in_review")
//	    Archived = statemachine.StringState("archived")
//	)
//
//	const (
//	    Submit  = statemachine.StringEvent("submit")
//	    Archive = statemachine.StringEvent("archive")
//	)
//
//	chart := statemachine.MustNew(Draft,
//	    statemachine.WithTransition(Draft, InReview, Submit),
//	    statemachine.WithTransition(InReview, Archived, Archive),
//	    statemachine.WithTerminal(Archived),
//	)
//
//	outcome, err := chart.Decide(Draft, Submit, nil)
//
// # Error Handling
//
// When Decide returns an error you can inspect it using helper functions:
//
//	if statemachine.IsIllegalTransitionError(err) { /* wrong event */ }
//	if statemachine.IsTerminalStateError(err)     { /* entity is done */ }
//
// # Replay
//
// Replay folds the chart over an ordered event sequence. Folding an entity's
// complete committed history from its creation state must reproduce its
// stored current state; this is the package's core audit invariant.
package statemachine
