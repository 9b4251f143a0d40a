package db

import (
	"testing"
)

func TestOpenSQLite_CreatesSchema(t *testing.T) {
	pool, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer pool.Close()

	for _, table := range []string{"users", "favorite_movies", "movies"} {
		var name string
		err := pool.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Errorf("expected table %s to exist: %v", table, err)
		}
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := t.TempDir() + "/catalog.db"

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	first.Close()

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	second.Close()
}
