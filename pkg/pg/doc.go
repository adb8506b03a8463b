// Package pg wires PostgreSQL connectivity for the service: pooled
// connections via pgx with retrying startup, goose migrations from an
// embedded filesystem, a health check closure, and error predicates that
// translate driver errors (no rows, unique violations) into questions the
// rest of the code actually asks.
package pg
