package statemachine_test

import (
	"fmt"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// Example models a coffee vending machine: four states, four events, and a
// cycle back to idle once the cup is taken.
func Example() {
	const (
		idle     = statemachine.StringState("IDLE")
		hasMoney = statemachine.StringState("HAS_MONEY")
		brewing  = statemachine.StringState("BREWING")
		complete = statemachine.StringState("COMPLETE")
	)
	const (
		insertMoney = statemachine.StringEvent("INSERT_MONEY")
		brewCoffee  = statemachine.StringEvent("BREW_COFFEE")
		brewingDone = statemachine.StringEvent("BREWING_DONE")
		takeCoffee  = statemachine.StringEvent("TAKE_COFFEE")
	)

	chart := statemachine.MustNew(idle,
		statemachine.WithTransition(idle, hasMoney, insertMoney),
		statemachine.WithTransition(hasMoney, brewing, brewCoffee),
		statemachine.WithTransition(brewing, complete, brewingDone),
		statemachine.WithTransition(complete, idle, takeCoffee),
	)

	current := statemachine.State(chart.Initial())
	for _, event := range []statemachine.Event{insertMoney, brewCoffee, brewingDone, takeCoffee} {
		outcome, err := chart.Decide(current, event, nil)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%s + %s -> %s\n", outcome.From.Name(), outcome.Event.Name(), outcome.To.Name())
		current = outcome.To
	}

	// Brewing without money is not a thing.
	if _, err := chart.Decide(current, brewCoffee, nil); statemachine.IsIllegalTransitionError(err) {
		fmt.Println("rejected:", err)
	}

	// Output:
	// IDLE + INSERT_MONEY -> HAS_MONEY
	// HAS_MONEY + BREW_COFFEE -> BREWING
	// BREWING + BREWING_DONE -> COMPLETE
	// COMPLETE + TAKE_COFFEE -> IDLE
	// rejected: illegal transition: no edge from state 'IDLE' for event 'BREW_COFFEE'
}
