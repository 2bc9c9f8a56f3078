package source

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lenshq/lens/internal/mutate"
	"github.com/lenshq/lens/internal/nodepath"
)

//go:embed schema.sql
var schemaSQL string

// KV is a source over persisted key/value entries in a SQLite
// database. Entry values are JSON documents, decoded for inspection
// and re-encoded on write-back; the mutation plus the row update form
// one logical step per entry.
type KV struct {
	name string
	db   *sql.DB
}

var _ Source = (*KV)(nil)

// OpenKV creates or opens the entry database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func OpenKV(name, path string) (*KV, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open kv database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect kv database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent edits.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply kv schema: %w", err)
	}
	return &KV{name: name, db: db}, nil
}

// Close closes the database connection.
func (k *KV) Close() error {
	if k.db == nil {
		return nil
	}
	return k.db.Close()
}

// Name implements Source.
func (k *KV) Name() string { return k.name }

// Put stores or replaces the JSON value for key.
func (k *KV) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode entry %q: %w", key, err)
	}
	_, err = k.db.Exec(`
		INSERT INTO kv_entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("write entry %q: %w", key, err)
	}
	return nil
}

// Get returns the decoded value for key.
func (k *KV) Get(key string) (any, bool, error) {
	var raw string
	err := k.db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read entry %q: %w", key, err)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false, fmt.Errorf("decode entry %q: %w", key, err)
	}
	return v, true, nil
}

// Keys returns every entry key in sorted order.
func (k *KV) Keys() ([]string, error) {
	rows, err := k.db.Query(`SELECT key FROM kv_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan entry key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Root implements Source: a map of key to decoded JSON value.
func (k *KV) Root() (any, error) {
	rows, err := k.db.Query(`SELECT key, value FROM kv_entries`)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()
	root := make(map[string]any)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode entry %q: %w", key, err)
		}
		root[key] = v
	}
	return root, rows.Err()
}

// Set implements Source. The first segment names the entry key; the
// rest addresses into the decoded document.
func (k *KV) Set(path nodepath.Path, newValue any) error {
	key, rest, err := splitEntry(path)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return k.Put(key, newValue)
	}
	value, ok, err := k.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return entryNotFound(path, key)
	}
	next, err := mutate.SetAtPath(value, rest, newValue)
	if err != nil {
		return err
	}
	return k.Put(key, next)
}

// Delete implements Source. Deleting an entire entry removes its row;
// deeper paths edit within the document.
func (k *KV) Delete(path nodepath.Path) error {
	key, rest, err := splitEntry(path)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		_, err := k.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("delete entry %q: %w", key, err)
		}
		return nil
	}
	value, ok, err := k.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return entryNotFound(path, key)
	}
	next, err := mutate.DeleteAtPath(value, rest)
	if err != nil {
		return err
	}
	return k.Put(key, next)
}
