package storage

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// Key prefixes (simulating column families)
const (
	PrefixSummaries = "sum:"
	PrefixMeta      = "met:"
)

// Column family name to prefix mapping
var cfPrefixes = map[string]string{
	CFSummaries: PrefixSummaries,
	CFMeta:      PrefixMeta,
}

// Column family names
const (
	CFSummaries = "summaries"
	CFMeta      = "meta"
)

// Layout marker under the meta column family. Bump schemaVersion on any
// incompatible change to stored record encodings.
const (
	schemaVersionKey = "schema_version"
	schemaVersion    = "1"
)

// PebbleDB wraps the Pebble database
type PebbleDB struct {
	db *pebble.DB
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(path string) (*PebbleDB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := &pebble.Options{
		Cache:        pebble.NewCache(64 << 20),
		MaxOpenFiles: 500,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	p := &PebbleDB{db: db}
	if err := p.checkSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// checkSchemaVersion stamps a fresh database with the current schema
// version and refuses to open one written with a different version.
func (p *PebbleDB) checkSchemaVersion() error {
	stored, err := p.Get(CFMeta, []byte(schemaVersionKey))
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if stored == nil {
		return p.Put(CFMeta, []byte(schemaVersionKey), []byte(schemaVersion))
	}
	if string(stored) != schemaVersion {
		return fmt.Errorf("incompatible database schema version %q, want %q",
			stored, schemaVersion)
	}
	return nil
}

// Close closes the database
func (p *PebbleDB) Close() error {
	return p.db.Close()
}

// prefixKey creates a prefixed key for the given column family
func (p *PebbleDB) prefixKey(cf string, key []byte) ([]byte, error) {
	prefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}
	return append([]byte(prefix), key...), nil
}

// Put stores a key-value pair in the specified column family
func (p *PebbleDB) Put(cf string, key, value []byte) error {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return err
	}
	return p.db.Set(prefixedKey, value, pebble.Sync)
}

// Get retrieves a value from the specified column family. Returns nil
// without an error when the key is absent.
func (p *PebbleDB) Get(cf string, key []byte) ([]byte, error) {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return nil, err
	}

	value, closer, err := p.db.Get(prefixedKey)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// Copy the value since it's only valid until closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}
