package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the SQLite database at dbPath and returns the connection
// pool. The handle is passed explicitly to whoever needs it; there is no
// package-level connection.
func Connect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	return pool, nil
}

// InitializeSchema enables foreign keys and creates the users and favorites
// tables if they don't exist.
func InitializeSchema(conn *sqlx.DB) error {
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	userSchema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);`

	if _, err := conn.Exec(userSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	// No uniqueness on (user_id, book_id): favoriting the same book twice
	// creates two rows.
	favoriteSchema := `
	CREATE TABLE IF NOT EXISTS favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		book_id TEXT NOT NULL,
		title TEXT NOT NULL,
		authors TEXT,
		description TEXT,
		thumbnail TEXT
	);`

	if _, err := conn.Exec(favoriteSchema); err != nil {
		return fmt.Errorf("failed to create favorites table: %w", err)
	}

	return nil
}
