// Package outreach drives the first touch for leads that are ready: a
// post-commit hook pushes every lead reaching QUEUED onto a queue (Redis in
// production, in-memory for tests), and the Dispatcher pops them and applies
// MESSAGE_SENT through the lead service. Actual message delivery is someone
// else's job; this package only records that the touch happened, through the
// same transition path as every other state change.
package outreach
