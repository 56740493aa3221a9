// Package migrations holds the schema migrations of the Postgres store.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registered migration set.
var Migrations = migrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
