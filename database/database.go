package database

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/volandoo/fluxiondb/apikeys"
	"github.com/volandoo/fluxiondb/collection"
	"github.com/volandoo/fluxiondb/store"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

type Config struct {
	Dir string
}

// Database owns the single SQLite-backed Store shared by every Collection
// and the cache of issued API keys resolved on the hot authentication path.
type Database struct {
	Config *Config

	mu          sync.Mutex
	status      string
	store       *store.SqliteStore
	Collections map[string]*collection.Collection

	apiKeysMu sync.RWMutex
	apiKeys   map[string]apikeys.Scope

	exit chan struct{}
}

func NewDatabase(config *Config) *Database {
	return &Database{
		Config:      config,
		status:      StatusOpening,
		Collections: map[string]*collection.Collection{},
		apiKeys:     map[string]apikeys.Scope{},
		exit:        make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.status
}

// CreateCollection registers a new, empty collection backed by the shared
// store. The collection has no rows until records are inserted or, if it
// happens to share a name with previously flushed data, until LoadFromDisk
// is called explicitly.
func (db *Database) CreateCollection(name string) (*collection.Collection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.Collections[name]; exists {
		return nil, fmt.Errorf("collection '%s' already exists", name)
	}

	col := collection.New(name, db.store)
	db.Collections[name] = col

	return col, nil
}

func (db *Database) GetCollection(name string) (*collection.Collection, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	col, exists := db.Collections[name]
	return col, exists
}

func (db *Database) ListCollectionNames() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	names := make([]string, 0, len(db.Collections))
	for name := range db.Collections {
		names = append(names, name)
	}
	return names
}

// DropCollection closes the in-memory collection and deletes its rows from
// the store.
func (db *Database) DropCollection(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	col, exists := db.Collections[name]
	if !exists {
		return fmt.Errorf("collection '%s' not found", name)
	}

	delete(db.Collections, name)

	// Close flushes pending records, so the rows are deleted after it.
	if err := col.Close(); err != nil {
		return err
	}

	if db.store != nil {
		return db.store.DeleteCollection(name)
	}

	return nil
}

// Load opens the shared store rooted at Config.Dir and hydrates one
// Collection per distinct collection name found in it, then loads the
// issued API keys into memory.
func (db *Database) Load() error {
	log.Printf("loading database %s...", db.Config.Dir)

	s, err := store.Open(db.Config.Dir)
	if err != nil {
		db.mu.Lock()
		db.status = StatusClosing
		db.mu.Unlock()
		return err
	}

	db.mu.Lock()
	db.store = s
	db.mu.Unlock()

	names, err := s.Collections()
	if err != nil {
		db.mu.Lock()
		db.status = StatusClosing
		db.mu.Unlock()
		return err
	}

	for _, name := range names {
		t0 := time.Now()

		col := collection.New(name, s)
		if err := col.LoadFromDisk(); err != nil {
			log.Printf("ERROR: load collection '%s': %s", name, err.Error())
			continue
		}

		db.mu.Lock()
		db.Collections[name] = col
		db.mu.Unlock()

		log.Printf("loaded collection '%s' in %s", name, time.Since(t0))
	}

	if err := db.loadApiKeys(); err != nil {
		log.Printf("ERROR: load api keys: %s", err.Error())
	}

	db.mu.Lock()
	db.status = StatusOperating
	db.mu.Unlock()

	return nil
}

func (db *Database) Start() error {
	go db.Load()

	<-db.exit

	return nil
}

// Stop flushes and closes every collection, then releases the store.
func (db *Database) Stop() error {
	defer close(db.exit)

	db.mu.Lock()
	db.status = StatusClosing
	collections := db.Collections
	s := db.store
	db.mu.Unlock()

	var lastErr error
	for name, col := range collections {
		log.Printf("closing '%s'...", name)
		if err := col.Close(); err != nil {
			log.Printf("ERROR: close(%s): %s", name, err.Error())
			lastErr = err
		}
	}

	if s != nil {
		if err := s.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// --- API key management, backed by the same store ---

func (db *Database) loadApiKeys() error {
	db.mu.Lock()
	s := db.store
	db.mu.Unlock()
	if s == nil {
		return nil
	}

	rows, err := s.FetchApiKeys()
	if err != nil {
		return err
	}

	db.apiKeysMu.Lock()
	defer db.apiKeysMu.Unlock()
	for _, row := range rows {
		db.apiKeys[row.Key] = apikeys.Scope(row.Scope)
	}
	return nil
}

func (db *Database) CreateApiKey(key string, scope apikeys.Scope) error {
	db.mu.Lock()
	s := db.store
	db.mu.Unlock()
	if s == nil {
		return fmt.Errorf("database is not ready")
	}

	if !s.UpsertApiKey(key, string(scope), true) {
		return fmt.Errorf("failed to persist api key")
	}

	db.apiKeysMu.Lock()
	db.apiKeys[key] = scope
	db.apiKeysMu.Unlock()

	return nil
}

func (db *Database) RemoveApiKey(key string) error {
	db.mu.Lock()
	s := db.store
	db.mu.Unlock()
	if s == nil {
		return fmt.Errorf("database is not ready")
	}

	if !s.DeleteApiKey(key) {
		return fmt.Errorf("failed to remove api key")
	}

	db.apiKeysMu.Lock()
	delete(db.apiKeys, key)
	db.apiKeysMu.Unlock()

	return nil
}

func (db *Database) ListApiKeys() []apikeys.Key {
	db.apiKeysMu.RLock()
	defer db.apiKeysMu.RUnlock()

	result := make([]apikeys.Key, 0, len(db.apiKeys))
	for key, scope := range db.apiKeys {
		result = append(result, apikeys.Key{Key: key, Scope: scope, Deletable: true})
	}
	return result
}

func (db *Database) ResolveApiKey(key string) (apikeys.Scope, bool) {
	db.apiKeysMu.RLock()
	defer db.apiKeysMu.RUnlock()

	scope, exists := db.apiKeys[key]
	return scope, exists
}
