// Package storage carries the embedded SQL migrations for the lead
// database. The files live under migrations/ and are applied with goose
// on startup.
package storage

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the migration files rooted at the directory goose
// expects, so callers can pass it straight to the migrator.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err) // embed path is fixed at compile time
	}
	return sub
}
