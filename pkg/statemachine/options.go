package statemachine

import (
	"fmt"
)

// Option configures a chart during construction. Options run only inside
// New; once New returns, the chart is frozen.
type Option func(*Chart) error

// New creates an immutable chart with the given initial state and options.
func New(initial State, opts ...Option) (*Chart, error) {
	if initial == nil {
		return nil, ErrNilState
	}

	c := &Chart{
		initial:     initial,
		transitions: make(map[string]map[string]State),
		terminal:    make(map[string]State),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// MustNew creates a chart and panics if any option fails to apply. Charts
// are process-wide configuration assembled at startup, so misdeclaration
// should prevent boot rather than surface at runtime.
func MustNew(initial State, opts ...Option) *Chart {
	c, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build chart: %v", err))
	}
	return c
}

// WithTransition adds a single (from, event) -> to edge to the chart.
// A (from, event) pair may map to at most one target state.
func WithTransition(from, to State, event Event) Option {
	return func(c *Chart) error {
		return c.addTransition(from, to, event)
	}
}

// WithTransitions adds multiple edges to the chart at once.
func WithTransitions(transitions []TransitionDef) Option {
	return func(c *Chart) error {
		for i, t := range transitions {
			if err := c.addTransition(t.From, t.To, t.Event); err != nil {
				return fmt.Errorf("transition[%d] %s->%s on %s: %w",
					i, nameOf(t.From), nameOf(t.To), nameOf(t.Event), err)
			}
		}
		return nil
	}
}

// WithTerminal marks states as terminal. Once an entity's current state is
// terminal, Decide rejects every event regardless of the transition table.
func WithTerminal(states ...State) Option {
	return func(c *Chart) error {
		for _, s := range states {
			if s == nil {
				return ErrNilState
			}
			c.terminal[s.Name()] = s
		}
		return nil
	}
}

func (c *Chart) addTransition(from, to State, event Event) error {
	if from == nil || to == nil {
		return ErrNilState
	}
	if event == nil {
		return ErrNilEvent
	}

	fromName := from.Name()
	eventName := event.Name()

	if _, ok := c.transitions[fromName]; !ok {
		c.transitions[fromName] = make(map[string]State)
	}
	if _, ok := c.transitions[fromName][eventName]; ok {
		return fmt.Errorf("%w: %s + %s already defined", ErrDuplicateTransition, fromName, eventName)
	}

	c.transitions[fromName][eventName] = to
	return nil
}

type named interface {
	Name() string
}

func nameOf(n named) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}
