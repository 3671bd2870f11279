// Package migrations embeds the goose SQL migrations for the template store.
package migrations

import "embed"

// FS holds the *.sql migrations at its root.
//
//go:embed *.sql
var FS embed.FS
