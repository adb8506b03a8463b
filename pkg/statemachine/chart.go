package statemachine

import (
	"time"
)

// Chart is an immutable transition table plus terminal set for one entity
// kind. It is built once via New and shared read-only across goroutines, so
// no locking is required; Decide is a pure function of its inputs.
//
// Uses a nested map structure for O(1) transition lookups: [fromState][event]target.
type Chart struct {
	initial     State
	transitions map[string]map[string]State
	terminal    map[string]State
}

// Initial returns the chart's designated start state.
func (c *Chart) Initial() State {
	return c.initial
}

// Lookup returns the target state for the given (state, event) pair. The
// second return value reports whether the pair is defined; an absent pair is
// a normal negative result, not an error.
func (c *Chart) Lookup(state State, event Event) (State, bool) {
	if state == nil || event == nil {
		return nil, false
	}
	targets, ok := c.transitions[state.Name()]
	if !ok {
		return nil, false
	}
	to, ok := targets[event.Name()]
	return to, ok
}

// IsTerminal reports whether the given state belongs to the terminal set.
func (c *Chart) IsTerminal(state State) bool {
	if state == nil {
		return false
	}
	_, ok := c.terminal[state.Name()]
	return ok
}

// Allows reports whether applying event in the given state would succeed.
func (c *Chart) Allows(state State, event Event) bool {
	if c.IsTerminal(state) {
		return false
	}
	_, ok := c.Lookup(state, event)
	return ok
}

// Decide validates a single transition and produces its audit record. The
// terminal check runs first and wins even when the table defines an outgoing
// edge for the state. Decide performs no I/O and mutates nothing; either a
// fully formed Outcome is returned or an error, never a partial effect.
func (c *Chart) Decide(current State, event Event, payload Payload) (Outcome, error) {
	if current == nil {
		return Outcome{}, ErrNilState
	}
	if event == nil {
		return Outcome{}, ErrNilEvent
	}

	if c.IsTerminal(current) {
		return Outcome{}, newTerminalStateError(current.Name(), event.Name())
	}

	next, ok := c.Lookup(current, event)
	if !ok {
		return Outcome{}, newIllegalTransitionError(current.Name(), event.Name())
	}

	return Outcome{
		From:       current,
		Event:      event,
		To:         next,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// Replay folds the chart over an ordered event sequence starting from the
// given state and returns the resulting state. A committed history replayed
// from the creation state must reproduce the stored current state; any
// decision failure during the fold indicates a corrupted history.
func (c *Chart) Replay(initial State, events []Event) (State, error) {
	current := initial
	for _, event := range events {
		outcome, err := c.Decide(current, event, nil)
		if err != nil {
			return nil, err
		}
		current = outcome.To
	}
	return current, nil
}

// States returns the names of all states mentioned by the chart's
// transitions and terminal set. Useful for exhaustiveness checks in tests.
func (c *Chart) States() []string {
	seen := make(map[string]struct{})
	for from, targets := range c.transitions {
		seen[from] = struct{}{}
		for _, to := range targets {
			seen[to.Name()] = struct{}{}
		}
	}
	for name := range c.terminal {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}
