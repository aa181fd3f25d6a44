// Package migrations embeds the SQLite migrations for session storage.
package migrations

import "embed"

// FS contains embedded SQLite migrations for session storage.
//
//go:embed *.sql
var FS embed.FS
