// Package api is the HTTP surface over the lead service: ingestion, event
// application, and the read-only projections (snapshot, history, listing).
// It shapes requests and responses; every decision about legality or
// atomicity stays below, in the lead package.
package api
