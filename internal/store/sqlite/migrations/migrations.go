// Package migrations embeds the goose SQL migrations for the SQLite store.
package migrations

import "embed"

// Migrations holds every *.sql migration, applied in version order.
//
//go:embed *.sql
var Migrations embed.FS
