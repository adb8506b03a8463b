package lead

import (
	"fmt"

	"github.com/leadflowhq/leadflow/pkg/statemachine"
)

// Lifecycle states. Every lead is in exactly one of these at any time.
const (
	// Prospecting pipeline
	StateNew       = statemachine.StringState("NEW")       // just ingested
	StateValidated = statemachine.StringState("VALIDATED") // email/phone validated
	StateRejected  = statemachine.StringState("REJECTED")  // failed validation (terminal)
	StateDuplicate = statemachine.StringState("DUPLICATE") // already exists (terminal)
	StateScored    = statemachine.StringState("SCORED")    // ICP score assigned
	StateQueued    = statemachine.StringState("QUEUED")    // ready for outreach

	// Outreach sequence
	StateContacted  = statemachine.StringState("CONTACTED")   // first message sent
	StateReplied    = statemachine.StringState("REPLIED")     // they responded
	StateNoResponse = statemachine.StringState("NO_RESPONSE") // sequence exhausted (terminal)
	StateOptedOut   = statemachine.StringState("OPTED_OUT")   // unsubscribed (terminal)

	// Qualification
	StateQualifying   = statemachine.StringState("QUALIFYING")   // BANT conversation active
	StateQualified    = statemachine.StringState("QUALIFIED")    // passed BANT
	StateDisqualified = statemachine.StringState("DISQUALIFIED") // failed BANT (terminal)

	// Handoff
	StateHandedOff = statemachine.StringState("HANDED_OFF") // in CRM, human owns it

	// StateNone is the pseudo-state recorded as the source of the creation
	// transition. It is not part of the chart and no lead is ever in it.
	StateNone = statemachine.StringState("NONE")
)

// Lifecycle events.
const (
	EventLeadCreated       = statemachine.StringEvent("LEAD_CREATED")
	EventValidationPassed  = statemachine.StringEvent("VALIDATION_PASSED")
	EventValidationFailed  = statemachine.StringEvent("VALIDATION_FAILED")
	EventDuplicateFound    = statemachine.StringEvent("DUPLICATE_FOUND")
	EventScoreComputed     = statemachine.StringEvent("SCORE_COMPUTED")
	EventQueuedForOutreach = statemachine.StringEvent("QUEUED_FOR_OUTREACH")

	EventMessageSent       = statemachine.StringEvent("MESSAGE_SENT")
	EventReplyReceived     = statemachine.StringEvent("REPLY_RECEIVED")
	EventSequenceExhausted = statemachine.StringEvent("SEQUENCE_EXHAUSTED")
	EventOptOut            = statemachine.StringEvent("OPT_OUT")

	EventQualificationStarted = statemachine.StringEvent("QUALIFICATION_STARTED")
	EventBANTComplete         = statemachine.StringEvent("BANT_COMPLETE")
	EventBANTFailed           = statemachine.StringEvent("BANT_FAILED")

	EventCRMSynced = statemachine.StringEvent("CRM_SYNCED")
)

// Lifecycle is the lead chart: built once at init, shared read-only across
// all goroutines, never mutated afterwards.
var Lifecycle = statemachine.MustNew(StateNew,
	statemachine.WithTransitions([]statemachine.TransitionDef{
		// Prospecting pipeline
		{From: StateNew, To: StateValidated, Event: EventValidationPassed},
		{From: StateNew, To: StateRejected, Event: EventValidationFailed},
		{From: StateNew, To: StateDuplicate, Event: EventDuplicateFound},
		{From: StateValidated, To: StateScored, Event: EventScoreComputed},
		{From: StateScored, To: StateQueued, Event: EventQueuedForOutreach},

		// Outreach
		{From: StateQueued, To: StateContacted, Event: EventMessageSent},
		{From: StateContacted, To: StateReplied, Event: EventReplyReceived},
		{From: StateContacted, To: StateNoResponse, Event: EventSequenceExhausted},
		{From: StateContacted, To: StateOptedOut, Event: EventOptOut},

		// Qualification
		{From: StateReplied, To: StateQualifying, Event: EventQualificationStarted},
		{From: StateQualifying, To: StateQualified, Event: EventBANTComplete},
		{From: StateQualifying, To: StateDisqualified, Event: EventBANTFailed},

		// Handoff
		{From: StateQualified, To: StateHandedOff, Event: EventCRMSynced},
	}),
	statemachine.WithTerminal(
		StateRejected,
		StateDuplicate,
		StateNoResponse,
		StateOptedOut,
		StateDisqualified,
	),
)

var allStates = map[statemachine.StringState]struct{}{
	StateNew: {}, StateValidated: {}, StateRejected: {}, StateDuplicate: {},
	StateScored: {}, StateQueued: {}, StateContacted: {}, StateReplied: {},
	StateNoResponse: {}, StateOptedOut: {}, StateQualifying: {},
	StateQualified: {}, StateDisqualified: {}, StateHandedOff: {},
}

var allEvents = map[statemachine.StringEvent]struct{}{
	EventLeadCreated: {}, EventValidationPassed: {}, EventValidationFailed: {},
	EventDuplicateFound: {}, EventScoreComputed: {}, EventQueuedForOutreach: {},
	EventMessageSent: {}, EventReplyReceived: {}, EventSequenceExhausted: {},
	EventOptOut: {}, EventQualificationStarted: {}, EventBANTComplete: {},
	EventBANTFailed: {}, EventCRMSynced: {},
}

// ParseState resolves a textual state symbol against the closed enumeration.
func ParseState(name string) (statemachine.StringState, error) {
	s := statemachine.StringState(name)
	if _, ok := allStates[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}

// ParseEvent resolves a textual event symbol against the closed enumeration.
func ParseEvent(name string) (statemachine.StringEvent, error) {
	e := statemachine.StringEvent(name)
	if _, ok := allEvents[e]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return e, nil
}
