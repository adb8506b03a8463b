// Package lead models the lead lifecycle: a closed vocabulary of 14 states
// and 14 events, an immutable transition chart with five terminal states,
// and a persisted entity whose every state change is coupled atomically to
// an append-only audit trail.
//
// The Service is the single mutation entry point. It delegates legality to
// the chart (pure decision, no I/O) and atomicity to the Storage
// implementation, which holds an exclusive per-lead lock across the whole
// load-decide-write span. PGStorage backs this with PostgreSQL row locks;
// MemoryStorage mirrors the same discipline in memory for tests.
package lead
