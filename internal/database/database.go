package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	verified INTEGER DEFAULT 0,
	created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS verification_tokens (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	token TEXT UNIQUE NOT NULL,
	expires_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	subtitle TEXT,
	avatar_url TEXT,
	prompt TEXT,
	is_public INTEGER DEFAULT 1,
	created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS user_likes (
	user_id INTEGER NOT NULL,
	bot_id INTEGER NOT NULL,
	PRIMARY KEY (user_id, bot_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bot_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT DEFAULT (datetime('now'))
);
`

// Open opens (or creates) the SQLite database file and ensures the schema
// exists. The returned handle is shared by all repositories and closed at
// shutdown.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// One connection: all access is serialized through a single in-process
	// handle, and it keeps ":memory:" databases intact across statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	return db, nil
}
