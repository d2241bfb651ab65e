// Package migrations embeds the goose migration files that define the
// local SQLite schema: the profile/account directory, the per-account
// credential records, and the encrypted blob table.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
