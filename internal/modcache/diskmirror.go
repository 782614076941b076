package modcache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DiskMirror is an additive, disableable on-disk mirror of the
// in-memory module cache, used by `funxy --mode read` to inspect a
// prior compilation's module graph without recompiling. spec.md §6
// says the persisted module cache is "in-memory only; no on-disk
// format is mandated" — this mirror does not replace that cache, it
// only records a debugging snapshot a separate process can read.
type DiskMirror struct {
	db *sql.DB
}

// OpenDiskMirror opens (creating if absent) a sqlite file at path and
// ensures its schema exists.
func OpenDiskMirror(path string) (*DiskMirror, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("modcache: open disk mirror %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS modules (
	id INTEGER PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	imports TEXT NOT NULL DEFAULT ''
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("modcache: init disk mirror schema: %w", err)
	}
	return &DiskMirror{db: db}, nil
}

func (m *DiskMirror) Close() error { return m.db.Close() }

// Snapshot writes the cache's current module graph (id, path, and a
// comma-joined list of imported module ids) into the mirror; a path
// already present keeps its row and only its imports are updated.
func (m *DiskMirror) Snapshot(c *Cache) error {
	c.mu.RLock()
	entries := make([]*Entry, 0, len(c.byID))
	for _, e := range c.byID {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("modcache: begin snapshot: %w", err)
	}
	for _, e := range entries {
		imports := joinInts(e.Imports)
		if _, err := tx.Exec(
			`INSERT INTO modules(id, path, imports) VALUES(?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET imports = excluded.imports`,
			e.ID, e.Path, imports,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("modcache: snapshot module %s: %w", e.Path, err)
		}
	}
	return tx.Commit()
}

// ReadModules lists every module path recorded in the mirror, for
// `funxy --mode read` to print without touching the live cache.
func (m *DiskMirror) ReadModules() ([]string, error) {
	rows, err := m.db.Query(`SELECT path FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("modcache: read modules: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("modcache: scan module row: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func joinInts(ids []int) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", id)
	}
	return s
}
