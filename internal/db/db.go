package db

import (
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	email TEXT NOT NULL,
	birthday TEXT
);

CREATE TABLE IF NOT EXISTS favorite_movies (
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	movie_id TEXT NOT NULL,
	PRIMARY KEY (user_id, movie_id)
);

CREATE TABLE IF NOT EXISTS movies (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	genre_name TEXT NOT NULL DEFAULT '',
	genre_description TEXT NOT NULL DEFAULT '',
	director_name TEXT NOT NULL DEFAULT '',
	director_bio TEXT NOT NULL DEFAULT '',
	director_birth TEXT NOT NULL DEFAULT '',
	director_death TEXT NOT NULL DEFAULT '',
	actors TEXT NOT NULL DEFAULT '[]',
	image_path TEXT NOT NULL DEFAULT '',
	featured INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title);
CREATE INDEX IF NOT EXISTS idx_movies_genre_name ON movies(genre_name);
CREATE INDEX IF NOT EXISTS idx_movies_director_name ON movies(director_name);
`

// OpenSQLite opens the SQLite database at path (":memory:" for a private
// in-memory database) and makes sure the schema exists.
func OpenSQLite(path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	pool.SetMaxOpenConns(1)

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if _, err := pool.Exec(schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Info("sqlite connection initialized and schema verified", "db.path", path)
	return pool, nil
}
