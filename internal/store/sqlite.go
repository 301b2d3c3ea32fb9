package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"lorekeeper/internal/logging"
	"lorekeeper/internal/world"
)

// SQLiteStore is the production DataStore. Things are stored as JSON rows
// keyed by UUID; the key-value side channel lives in its own table.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at path.
// ":memory:" is accepted for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	log := logging.Get(logging.CategoryStore)

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debugf("set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debugf("set journal_mode=WAL: %v", err)
	}
	// NORMAL is safe under WAL and considerably faster than FULL.
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		log.Debugf("set synchronous=NORMAL: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	log.Infof("sqlite store ready at %s", path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS things (
		uuid TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_things_name ON things(name COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS key_values (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetAllThings(ctx context.Context) ([]world.Thing, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM things ORDER BY uuid")
	if err != nil {
		logging.Get(logging.CategoryStore).Errorf("get all things: %v", err)
		return nil, ErrDataStore
	}
	defer rows.Close()

	var things []world.Thing
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, ErrDataStore
		}
		var thing world.Thing
		if err := json.Unmarshal(raw, &thing); err != nil {
			logging.Get(logging.CategoryStore).Warnf("skipping undecodable thing: %v", err)
			continue
		}
		things = append(things, thing)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrDataStore
	}
	return things, nil
}

func (s *SQLiteStore) GetThingByUUID(ctx context.Context, id uuid.UUID) (*world.Thing, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM things WHERE uuid = ?", id.String()).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logging.Get(logging.CategoryStore).Errorf("get thing %s: %v", id, err)
		return nil, ErrDataStore
	}

	var thing world.Thing
	if err := json.Unmarshal(raw, &thing); err != nil {
		return nil, ErrDataStore
	}
	return &thing, nil
}

func (s *SQLiteStore) SaveThing(ctx context.Context, thing *world.Thing) error {
	raw, err := json.Marshal(thing)
	if err != nil {
		return ErrDataStore
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO things (uuid, kind, name, data, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(uuid) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		thing.UUID.String(), string(thing.Kind()), thing.Name().MustValue(), string(raw))
	if err != nil {
		logging.Get(logging.CategoryStore).Errorf("save thing %s: %v", thing.UUID, err)
		return ErrDataStore
	}
	return nil
}

func (s *SQLiteStore) EditThing(ctx context.Context, thing *world.Thing) error {
	return s.SaveThing(ctx, thing)
}

func (s *SQLiteStore) DeleteThingByUUID(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM things WHERE uuid = ?", id.String()); err != nil {
		logging.Get(logging.CategoryStore).Errorf("delete thing %s: %v", id, err)
		return ErrDataStore
	}
	return nil
}

func (s *SQLiteStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM key_values WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, ErrDataStore
	}
	return value, true, nil
}

func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO key_values (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return ErrDataStore
	}
	return nil
}

func (s *SQLiteStore) DeleteValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM key_values WHERE key = ?", key); err != nil {
		return ErrDataStore
	}
	return nil
}
