// Package store implements the relational persistence boundary consumed by
// package collection: a single SQLite database file holding every
// collection's records, key/value side-tables and API keys.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/volandoo/fluxiondb/collection"
)

// fileName is the on-disk database file created inside the configured data
// folder, matching the original implementation's fluxion.db layout.
const fileName = "fluxion.db"

// SqliteStore is a collection.Store backed by a single SQLite file, opened
// with WAL journaling and NORMAL synchronous durability so that flushes are
// crash-safe without forcing an fsync on every statement.
type SqliteStore struct {
	db       *sql.DB
	tx       *sql.Tx
	filePath string
}

// Open creates the data folder if needed, opens (or creates) fluxion.db
// inside it, and ensures the schema exists.
func Open(dataFolder string) (*SqliteStore, error) {
	if dataFolder == "" {
		return nil, fmt.Errorf("store: data folder is empty")
	}

	if err := os.MkdirAll(dataFolder, 0755); err != nil {
		return nil, fmt.Errorf("store: create data directory %q: %w", dataFolder, err)
	}

	filePath := filepath.Join(dataFolder, fileName)

	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", filePath, err)
	}
	db.SetMaxOpenConns(1) // SQLite write serialization; a single *sql.Tx is held across a flush anyway

	s := &SqliteStore{
		db:       db,
		filePath: filePath,
	}

	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("store: opened at %s", filePath)

	return s, nil
}

// Close releases the underlying database handle.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

// FilePath returns the path of the opened database file: the data folder
// given to Open joined with fluxion.db, relative if that folder was.
func (s *SqliteStore) FilePath() string {
	return s.filePath
}

func (s *SqliteStore) ensureSchema() error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			doc TEXT NOT NULL,
			ts INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY(collection, doc, ts)
		);`,
		`CREATE TABLE IF NOT EXISTS key_values (
			collection TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY(collection, key)
		);`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			api_key TEXT PRIMARY KEY,
			scope TEXT NOT NULL,
			deletable INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_collection_doc_ts ON records(collection, doc, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_records_collection_ts ON records(collection, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_records_doc_ts ON records(doc, ts);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("store: ensure schema: %w", err)
		}
	}

	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx so every mutation below
// runs inside the active transaction when one is open, and directly on the
// pool otherwise. The fetch queries always run on the pool.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

func (s *SqliteStore) conn() execer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Collections returns every distinct collection name referenced by either
// records or key_values, sorted ascending.
func (s *SqliteStore) Collections() ([]string, error) {
	names := map[string]bool{}

	rows, err := s.db.Query(`SELECT DISTINCT collection FROM records`)
	if err != nil {
		return nil, fmt.Errorf("store: list collections: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names[name] = true
	}
	rows.Close()

	rows, err = s.db.Query(`SELECT DISTINCT collection FROM key_values`)
	if err != nil {
		return nil, fmt.Errorf("store: list collections: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		names[name] = true
	}
	rows.Close()

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}

func (s *SqliteStore) FetchRecords(collectionName string) ([]collection.StoredRecord, error) {
	rows, err := s.db.Query(`SELECT doc, ts, data FROM records WHERE collection = ? ORDER BY ts ASC`, collectionName)
	if err != nil {
		return nil, fmt.Errorf("store: fetch records for %q: %w", collectionName, err)
	}
	defer rows.Close()

	var result []collection.StoredRecord
	for rows.Next() {
		var r collection.StoredRecord
		if err := rows.Scan(&r.Document, &r.Timestamp, &r.Data); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *SqliteStore) FetchKeyValues(collectionName string) ([]collection.StoredKeyValue, error) {
	rows, err := s.db.Query(`SELECT key, value FROM key_values WHERE collection = ?`, collectionName)
	if err != nil {
		return nil, fmt.Errorf("store: fetch key values for %q: %w", collectionName, err)
	}
	defer rows.Close()

	var result []collection.StoredKeyValue
	for rows.Next() {
		var kv collection.StoredKeyValue
		if err := rows.Scan(&kv.Key, &kv.Value); err != nil {
			return nil, err
		}
		result = append(result, kv)
	}
	return result, rows.Err()
}

func (s *SqliteStore) UpsertRecord(collectionName, document string, timestamp int64, data string) bool {
	_, err := s.conn().Exec(
		`INSERT OR REPLACE INTO records (ts, collection, doc, data) VALUES (?, ?, ?, ?)`,
		timestamp, collectionName, document, data,
	)
	if err != nil {
		log.Printf("WARNING: store: upsert record %s/%s@%d: %s", collectionName, document, timestamp, err)
		return false
	}
	return true
}

func (s *SqliteStore) DeleteRecord(collectionName, document string, timestamp int64) bool {
	_, err := s.conn().Exec(
		`DELETE FROM records WHERE ts = ? AND collection = ? AND doc = ?`,
		timestamp, collectionName, document,
	)
	if err != nil {
		log.Printf("WARNING: store: delete record %s/%s@%d: %s", collectionName, document, timestamp, err)
		return false
	}
	return true
}

func (s *SqliteStore) DeleteRecordsInRange(collectionName, document string, from, to int64) bool {
	_, err := s.conn().Exec(
		`DELETE FROM records WHERE collection = ? AND doc = ? AND ts >= ? AND ts <= ?`,
		collectionName, document, from, to,
	)
	if err != nil {
		log.Printf("WARNING: store: delete records in range %s/%s [%d,%d]: %s", collectionName, document, from, to, err)
		return false
	}
	return true
}

func (s *SqliteStore) DeleteDocument(collectionName, document string) bool {
	_, err := s.conn().Exec(
		`DELETE FROM records WHERE collection = ? AND doc = ?`,
		collectionName, document,
	)
	if err != nil {
		log.Printf("WARNING: store: delete document %s/%s: %s", collectionName, document, err)
		return false
	}
	return true
}

// DeleteCollection removes every row for collectionName from both the
// records and key_values tables. Not part of collection.Store; called
// directly by package database when dropping a collection.
func (s *SqliteStore) DeleteCollection(collectionName string) error {
	if _, err := s.conn().Exec(`DELETE FROM records WHERE collection = ?`, collectionName); err != nil {
		return fmt.Errorf("store: delete collection records %q: %w", collectionName, err)
	}
	if _, err := s.conn().Exec(`DELETE FROM key_values WHERE collection = ?`, collectionName); err != nil {
		return fmt.Errorf("store: delete collection key values %q: %w", collectionName, err)
	}
	return nil
}

func (s *SqliteStore) UpsertKeyValue(collectionName, key, value string) bool {
	_, err := s.conn().Exec(
		`INSERT OR REPLACE INTO key_values (collection, key, value) VALUES (?, ?, ?)`,
		collectionName, key, value,
	)
	if err != nil {
		log.Printf("WARNING: store: upsert key value %s/%s: %s", collectionName, key, err)
		return false
	}
	return true
}

func (s *SqliteStore) RemoveKeyValue(collectionName, key string) bool {
	_, err := s.conn().Exec(
		`DELETE FROM key_values WHERE collection = ? AND key = ?`,
		collectionName, key,
	)
	if err != nil {
		log.Printf("WARNING: store: remove key value %s/%s: %s", collectionName, key, err)
		return false
	}
	return true
}

func (s *SqliteStore) BeginTransaction() bool {
	if s.tx != nil {
		log.Printf("WARNING: store: begin transaction called while one is already open")
		return false
	}
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("WARNING: store: begin transaction: %s", err)
		return false
	}
	s.tx = tx
	return true
}

func (s *SqliteStore) CommitTransaction() bool {
	if s.tx == nil {
		return false
	}
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		log.Printf("WARNING: store: commit transaction: %s", err)
		return false
	}
	return true
}

func (s *SqliteStore) RollbackTransaction() {
	if s.tx == nil {
		return
	}
	if err := s.tx.Rollback(); err != nil {
		log.Printf("WARNING: store: rollback transaction: %s", err)
	}
	s.tx = nil
}

// UpsertApiKey creates or replaces an issued API key.
func (s *SqliteStore) UpsertApiKey(key string, scope string, deletable bool) bool {
	_, err := s.conn().Exec(
		`INSERT OR REPLACE INTO api_keys (api_key, scope, deletable) VALUES (?, ?, ?)`,
		key, scope, deletable,
	)
	if err != nil {
		log.Printf("WARNING: store: upsert api key %q: %s", key, err)
		return false
	}
	return true
}

// DeleteApiKey removes an issued API key.
func (s *SqliteStore) DeleteApiKey(key string) bool {
	_, err := s.conn().Exec(`DELETE FROM api_keys WHERE api_key = ?`, key)
	if err != nil {
		log.Printf("WARNING: store: delete api key %q: %s", key, err)
		return false
	}
	return true
}

// ApiKeyRow mirrors a single row of the api_keys table.
type ApiKeyRow struct {
	Key       string
	Scope     string
	Deletable bool
}

// FetchApiKeys returns every issued API key.
func (s *SqliteStore) FetchApiKeys() ([]ApiKeyRow, error) {
	rows, err := s.db.Query(`SELECT api_key, scope, deletable FROM api_keys`)
	if err != nil {
		return nil, fmt.Errorf("store: fetch api keys: %w", err)
	}
	defer rows.Close()

	var result []ApiKeyRow
	for rows.Next() {
		var row ApiKeyRow
		if err := rows.Scan(&row.Key, &row.Scope, &row.Deletable); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

var _ collection.Store = (*SqliteStore)(nil)
