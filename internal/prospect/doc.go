// Package prospect ingests raw leads: validation, email-based
// deduplication, and ICP scoring, followed by a transactional create that
// writes the lead in its start state together with its creation audit
// record. The heuristics here are glue; they decide whether a lead enters
// the funnel, never how it moves through it.
package prospect
