// Package storage provides durable persistence for notes, keyed by
// permalink. Two backends exist: a directory of markdown files and a
// single-file SQLite database.
package storage

import (
	"strings"

	"github.com/loamkb/loam/internal/store"
)

// Open selects a backend for the given store location. A path ending in
// ".db" opens a SQLite store; anything else is a markdown directory.
func Open(path string) (store.Persister, error) {
	if strings.HasSuffix(path, ".db") {
		return OpenSQLite(path)
	}
	return OpenDir(path)
}
