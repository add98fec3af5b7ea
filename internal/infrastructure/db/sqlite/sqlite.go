// Package sqlite implements the repository contracts over a SQLite file.
// The schema is fixed: three tables with referential integrity between
// todos and comments. Statement-level atomicity comes from SQLite itself;
// multi-statement operations (ownership-checked delete, existence-checked
// comment insert) run inside transactions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS todos (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	userId INTEGER NOT NULL,
	username TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (userId) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS comments (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	todoId TEXT NOT NULL,
	userId INTEGER NOT NULL,
	username TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (todoId) REFERENCES todos(id),
	FOREIGN KEY (userId) REFERENCES users(id)
);
`

// Open opens (or creates) the database at path and bootstraps the schema.
// Use ":memory:" for a throwaway database in tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return db, nil
}
