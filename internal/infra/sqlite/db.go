// Package sqlite provides the SQLite connection factory and migration system
// for Vocable. Uses modernc.org/sqlite — a pure-Go driver (no CGO required).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Register the modernc sqlite driver under the name "sqlite"
	_ "modernc.org/sqlite"
)

// dsnPragmas are applied at connection time via DSN query parameters.
// modernc.org/sqlite supports _pragma=... params in the DSN.
var dsnPragmas = []string{
	"journal_mode(WAL)",    // concurrent reads during settings writes
	"foreign_keys(ON)",     // SQLite disables FKs by default
	"busy_timeout(5000)",   // avoid SQLITE_BUSY under write bursts
	"synchronous(NORMAL)",  // safe + faster than FULL under WAL
	"cache_size(-64000)",   // 64MB page cache (negative = KB)
	"temp_store(MEMORY)",   // temp tables in RAM
}

// Open opens (or creates) the Vocable state database at path, configured for
// production use: WAL journal, FK enforcement, 5s busy timeout. The state held
// here is small (the AI routing configuration), so the pool is sized for a few
// concurrent readers plus the serialized settings writer.
//
// Use ":memory:" as path for in-memory databases in tests.
// Returns an error if the parent directory does not exist (will not create it).
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return nil, fmt.Errorf("sqlite.Open: parent directory %q does not exist", dir)
		}
	}

	dsn := path + "?_pragma=" + strings.Join(dsnPragmas, "&_pragma=")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.Open: open %q: %w", path, err)
	}

	// WAL allows concurrent readers; writers are serialized by SQLite itself.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	// Verify the connection is alive and PRAGMAs were applied.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.Open: ping %q: %w", path, err)
	}

	return db, nil
}
