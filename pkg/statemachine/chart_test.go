package statemachine_test

import (
	"testing"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// Vending machine vocabulary used across the tests below.
const (
	Idle     = statemachine.StringState("IDLE")
	HasMoney = statemachine.StringState("HAS_MONEY")
	Brewing  = statemachine.StringState("BREWING")
	Complete = statemachine.StringState("COMPLETE")
)

const (
	InsertMoney = statemachine.StringEvent("INSERT_MONEY")
	BrewCoffee  = statemachine.StringEvent("BREW_COFFEE")
	BrewingDone = statemachine.StringEvent("BREWING_DONE")
	TakeCoffee  = statemachine.StringEvent("TAKE_COFFEE")
)

func vendingChart(t *testing.T) *statemachine.Chart {
	t.Helper()
	return statemachine.MustNew(Idle,
		statemachine.WithTransition(Idle, HasMoney, InsertMoney),
		statemachine.WithTransition(HasMoney, Brewing, BrewCoffee),
		statemachine.WithTransition(Brewing, Complete, BrewingDone),
		statemachine.WithTransition(Complete, Idle, TakeCoffee),
	)
}

func TestChartDecide(t *testing.T) {
	t.Parallel()

	t.Run("happy path walks the full cycle", func(t *testing.T) {
		t.Parallel()
		chart := vendingChart(t)

		current := statemachine.State(chart.Initial())
		for _, event := range []statemachine.Event{InsertMoney, BrewCoffee, BrewingDone, TakeCoffee} {
			outcome, err := chart.Decide(current, event, nil)
			if err != nil {
				t.Fatalf("Decide(%s, %s) failed: %v", current.Name(), event.Name(), err)
			}
			if outcome.From != current {
				t.Fatalf("Expected outcome.From to be %s, got %s", current.Name(), outcome.From.Name())
			}
			if outcome.OccurredAt.IsZero() {
				t.Fatal("Expected outcome.OccurredAt to be set")
			}
			current = outcome.To
		}

		if current != Idle {
			t.Fatalf("Expected to end back at %s, got %s", Idle, current.Name())
		}
	})

	t.Run("illegal pair is rejected without effect", func(t *testing.T) {
		t.Parallel()
		chart := vendingChart(t)

		// You can't brew coffee while the machine is idle.
		_, err := chart.Decide(Idle, BrewCoffee, nil)
		if !statemachine.IsIllegalTransitionError(err) {
			t.Fatalf("Expected IllegalTransitionError, got %v", err)
		}
	})

	t.Run("same event twice is not idempotent", func(t *testing.T) {
		t.Parallel()
		chart := vendingChart(t)

		outcome, err := chart.Decide(Idle, InsertMoney, nil)
		if err != nil {
			t.Fatalf("First Decide failed: %v", err)
		}

		// The second application operates on the new state and fails;
		// there is no edge for (HAS_MONEY, INSERT_MONEY).
		_, err = chart.Decide(outcome.To, InsertMoney, nil)
		if !statemachine.IsIllegalTransitionError(err) {
			t.Fatalf("Expected IllegalTransitionError on repeat, got %v", err)
		}
	})

	t.Run("payload is carried but never consulted", func(t *testing.T) {
		t.Parallel()
		chart := vendingChart(t)

		payload := statemachine.Payload{"coins": 3}
		outcome, err := chart.Decide(Idle, InsertMoney, payload)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		if outcome.Payload["coins"] != 3 {
			t.Fatalf("Expected payload to round-trip, got %v", outcome.Payload)
		}
		if outcome.To != HasMoney {
			t.Fatalf("Expected %s, got %s", HasMoney, outcome.To.Name())
		}
	})

	t.Run("nil inputs", func(t *testing.T) {
		t.Parallel()
		chart := vendingChart(t)

		if _, err := chart.Decide(nil, InsertMoney, nil); err == nil {
			t.Fatal("Expected error for nil state")
		}
		if _, err := chart.Decide(Idle, nil, nil); err == nil {
			t.Fatal("Expected error for nil event")
		}
	})
}

func TestChartTerminal(t *testing.T) {
	t.Parallel()

	const (
		Open   = statemachine.StringState("OPEN")
		Closed = statemachine.StringState("CLOSED")
	)
	const (
		Close  = statemachine.StringEvent("CLOSE")
		Reopen = statemachine.StringEvent("REOPEN")
	)

	// The chart deliberately defines an edge out of the terminal state to
	// prove the terminal check takes precedence over the table.
	chart := statemachine.MustNew(Open,
		statemachine.WithTransition(Open, Closed, Close),
		statemachine.WithTransition(Closed, Open, Reopen),
		statemachine.WithTerminal(Closed),
	)

	t.Run("terminal check precedes table lookup", func(t *testing.T) {
		t.Parallel()
		_, err := chart.Decide(Closed, Reopen, nil)
		if !statemachine.IsTerminalStateError(err) {
			t.Fatalf("Expected TerminalStateError, got %v", err)
		}
	})

	t.Run("terminal state rejects every event", func(t *testing.T) {
		t.Parallel()
		for _, event := range []statemachine.Event{Close, Reopen, statemachine.StringEvent("ANYTHING")} {
			if _, err := chart.Decide(Closed, event, nil); !statemachine.IsTerminalStateError(err) {
				t.Fatalf("Expected TerminalStateError for %s, got %v", event.Name(), err)
			}
		}
	})

	t.Run("Allows reflects both table and terminal set", func(t *testing.T) {
		t.Parallel()
		if !chart.Allows(Open, Close) {
			t.Fatal("Expected Allows(OPEN, CLOSE) to be true")
		}
		if chart.Allows(Closed, Reopen) {
			t.Fatal("Expected Allows(CLOSED, REOPEN) to be false")
		}
	})

	t.Run("IsTerminal", func(t *testing.T) {
		t.Parallel()
		if chart.IsTerminal(Open) {
			t.Fatal("OPEN must not be terminal")
		}
		if !chart.IsTerminal(Closed) {
			t.Fatal("CLOSED must be terminal")
		}
	})
}

func TestChartLookup(t *testing.T) {
	t.Parallel()
	chart := vendingChart(t)

	to, ok := chart.Lookup(Idle, InsertMoney)
	if !ok || to != HasMoney {
		t.Fatalf("Expected (HAS_MONEY, true), got (%v, %v)", to, ok)
	}

	// Absence is a normal negative result, not an error.
	if _, ok := chart.Lookup(Idle, TakeCoffee); ok {
		t.Fatal("Expected lookup miss for (IDLE, TAKE_COFFEE)")
	}
	if _, ok := chart.Lookup(nil, InsertMoney); ok {
		t.Fatal("Expected lookup miss for nil state")
	}
}

func TestChartReplay(t *testing.T) {
	t.Parallel()
	chart := vendingChart(t)

	t.Run("folding history reproduces current state", func(t *testing.T) {
		t.Parallel()
		final, err := chart.Replay(Idle, []statemachine.Event{InsertMoney, BrewCoffee, BrewingDone})
		if err != nil {
			t.Fatalf("Replay failed: %v", err)
		}
		if final != Complete {
			t.Fatalf("Expected %s, got %s", Complete, final.Name())
		}
	})

	t.Run("empty history replays to the initial state", func(t *testing.T) {
		t.Parallel()
		final, err := chart.Replay(Idle, nil)
		if err != nil {
			t.Fatalf("Replay failed: %v", err)
		}
		if final != Idle {
			t.Fatalf("Expected %s, got %s", Idle, final.Name())
		}
	})

	t.Run("corrupted history surfaces the decision error", func(t *testing.T) {
		t.Parallel()
		_, err := chart.Replay(Idle, []statemachine.Event{BrewCoffee})
		if !statemachine.IsIllegalTransitionError(err) {
			t.Fatalf("Expected IllegalTransitionError, got %v", err)
		}
	})
}

func TestChartConstruction(t *testing.T) {
	t.Parallel()

	t.Run("duplicate edge is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New(Idle,
			statemachine.WithTransition(Idle, HasMoney, InsertMoney),
			statemachine.WithTransition(Idle, Brewing, InsertMoney),
		)
		if err == nil {
			t.Fatal("Expected error for duplicate (state, event) pair")
		}
	})

	t.Run("nil initial state is rejected", func(t *testing.T) {
		t.Parallel()
		if _, err := statemachine.New(nil); err == nil {
			t.Fatal("Expected error for nil initial state")
		}
	})

	t.Run("WithTransitions reports the offending index", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.New(Idle,
			statemachine.WithTransitions([]statemachine.TransitionDef{
				{From: Idle, To: HasMoney, Event: InsertMoney},
				{From: Idle, To: nil, Event: BrewCoffee},
			}),
		)
		if err == nil {
			t.Fatal("Expected error for nil target state")
		}
	})
}
