// Package migrations holds the SQLite schema as ordered, embedded SQL files
// and the runner that applies them.
package migrations

import "embed"

// FS contains every migration file. Files are applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
