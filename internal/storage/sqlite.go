package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/loamkb/loam/internal/model"
	"github.com/loamkb/loam/internal/parser"
)

// SQLite persists notes in a single database file. The full markdown
// encoding is the source of truth; a few metadata columns are kept
// alongside it so the file stays inspectable with plain SQL.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a SQLite note store.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS notes (
			permalink TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER,
			updated_at INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_notes_path ON notes(path);
		CREATE INDEX IF NOT EXISTS idx_notes_title ON notes(title COLLATE NOCASE);
		CREATE INDEX IF NOT EXISTS idx_notes_type ON notes(type);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

// LoadAll decodes every stored note.
func (s *SQLite) LoadAll() ([]*model.Note, error) {
	rows, err := s.db.Query(`SELECT path, content FROM notes ORDER BY created_at, permalink`)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		var path, content string
		if err := rows.Scan(&path, &content); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		n, err := parser.Decode(path, content)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	return notes, nil
}

// Persist upserts a note row.
func (s *SQLite) Persist(n *model.Note) error {
	content, err := parser.Encode(n)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO notes (permalink, path, title, type, status, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(permalink) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			type = excluded.type,
			status = excluded.status,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		n.Permalink, n.EffectivePath(), n.Title, string(n.Type), string(n.Status),
		content, n.CreatedAt.Unix(), n.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("persist %s: %w", n.Permalink, err)
	}
	return nil
}

// Delete removes a note row. Deleting an unknown permalink is a no-op.
func (s *SQLite) Delete(permalink string) error {
	if _, err := s.db.Exec(`DELETE FROM notes WHERE permalink = ?`, permalink); err != nil {
		return fmt.Errorf("delete %s: %w", permalink, err)
	}
	return nil
}
