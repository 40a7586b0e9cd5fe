package domain

import (
	"context"
	"errors"
	"fmt"
)

// StorageDriver identifies a concrete persistence backend.
type StorageDriver string

const (
	StorageFile     StorageDriver = "file"     // single JSON file (default)
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageS3       StorageDriver = "s3"       // S3 / MinIO object
	StoragePebble   StorageDriver = "pebble"   // embedded pebble KV directory
)

// Persister loads and overwrites the complete ordered customer sequence.
// There is no incremental write and no cross-process locking: a single
// writer per backing location is assumed.
type Persister interface {
	// Load returns the persisted sequence, or an empty one when nothing was
	// persisted yet. Undecodable content yields a *CorruptError.
	Load(ctx context.Context) ([]Customer, error)
	// Save replaces the persisted sequence. Failures yield a *WriteError.
	Save(ctx context.Context, customers []Customer) error
	Driver() StorageDriver
	Close() error
}

var (
	// ErrCorrupt matches errors raised when persisted state cannot be decoded.
	ErrCorrupt = errors.New("persisted customers are corrupt")
	// ErrWrite matches errors raised when persisted state cannot be written.
	ErrWrite = errors.New("persist customers failed")
)

// CorruptError reports persisted state that exists but cannot be parsed.
type CorruptError struct {
	Driver   StorageDriver
	Location string
	Err      error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s storage %s: %v: %v", e.Driver, e.Location, ErrCorrupt, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorrupt) match.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// WriteError reports a save that could not complete.
type WriteError struct {
	Driver   StorageDriver
	Location string
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s storage %s: %v: %v", e.Driver, e.Location, ErrWrite, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrWrite) match.
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// ParseError reports a batch payload that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("malformed customer batch: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }
