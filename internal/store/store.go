// SPDX-License-Identifier: MPL-2.0

// Package store implements a durable string-keyed collection backed by a
// single JSON file. The whole collection is rewritten on every mutation;
// that keeps the on-disk format trivially recoverable and matches how small
// the collections are (dozens of records, not thousands).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"golang.org/x/exp/maps"
)

type (
	// StorageError wraps a filesystem failure underneath a store operation.
	// A missing collection file is not a StorageError; it means the store
	// starts empty.
	StorageError struct {
		Op   string
		Path string
		Err  error
	}

	// Store is a persistent map from string key to T. A Store reflects the
	// on-disk state as of Open; hold one instance per command invocation.
	//
	// Saves are serialized across processes via a sibling .lock file, so
	// concurrent writers never interleave within one file rewrite. The
	// load-mutate-save sequence as a whole is not locked: two processes
	// mutating the same collection still race last-writer-wins, and a
	// reader racing a writer may observe the previous generation.
	Store[T any] struct {
		path  string
		keyFn func(T) string
		data  map[string]T
	}
)

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Open loads the collection at path. keyFn extracts the unique key of a
// record; it is required for the legacy list-shaped file migration and for
// Add. A missing file yields an empty store.
func Open[T any](path string, keyFn func(T) string) (*Store[T], error) {
	s := &Store[T]{
		path:  path,
		keyFn: keyFn,
		data:  make(map[string]T),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the collection file, transparently upgrading the legacy
// flat-list shape to a keyed mapping. The upgrade happens in memory only;
// the file is rewritten in mapping form by the next mutation.
func (s *Store[T]) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "read", Path: s.path, Err: err}
	}
	if len(data) == 0 {
		return nil
	}

	if firstToken(data) == '[' {
		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			return &StorageError{Op: "decode", Path: s.path, Err: err}
		}
		for _, rec := range records {
			s.data[s.keyFn(rec)] = rec
		}
		return nil
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return &StorageError{Op: "decode", Path: s.path, Err: err}
	}
	return nil
}

// firstToken returns the first non-whitespace byte of data, or 0.
func firstToken(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b
	}
	return 0
}

// save rewrites the entire collection atomically (temp file + rename)
// while holding the cross-process lock.
func (s *Store[T]) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &StorageError{Op: "mkdir", Path: s.path, Err: err}
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return &StorageError{Op: "lock", Path: s.path, Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	blob, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "rename", Path: s.path, Err: err}
	}
	return nil
}

// Get returns the record stored under key.
func (s *Store[T]) Get(key string) (T, bool) {
	v, ok := s.data[key]
	return v, ok
}

// Put upserts one record under key and persists the collection.
func (s *Store[T]) Put(key string, value T) error {
	s.data[key] = value
	return s.save()
}

// PutAll merges the given records into the collection and persists once.
func (s *Store[T]) PutAll(records map[string]T) error {
	for key, value := range records {
		s.data[key] = value
	}
	return s.save()
}

// Add upserts a record keyed by its own key function.
func (s *Store[T]) Add(value T) error {
	return s.Put(s.keyFn(value), value)
}

// Remove deletes one key and persists. Removing an absent key is a no-op
// that reports false without touching the file.
func (s *Store[T]) Remove(key string) (bool, error) {
	if _, ok := s.data[key]; !ok {
		return false, nil
	}
	delete(s.data, key)
	return true, s.save()
}

// Keys returns all keys in sorted order.
func (s *Store[T]) Keys() []string {
	keys := maps.Keys(s.data)
	sort.Strings(keys)
	return keys
}

// Values returns all records ordered by key.
func (s *Store[T]) Values() []T {
	values := make([]T, 0, len(s.data))
	for _, key := range s.Keys() {
		values = append(values, s.data[key])
	}
	return values
}

// Len reports the number of records.
func (s *Store[T]) Len() int {
	return len(s.data)
}

// Path returns the backing file location.
func (s *Store[T]) Path() string {
	return s.path
}
