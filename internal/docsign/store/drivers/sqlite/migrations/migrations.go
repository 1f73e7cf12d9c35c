// Package migrations embeds the sqlite schema migrations so they ship inside
// the binary and are applied on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
