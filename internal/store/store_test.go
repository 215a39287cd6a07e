// SPDX-License-Identifier: MPL-2.0

package store

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func recordKey(r record) string { return r.ID }

func openTestStore(t *testing.T, path string) *Store[record] {
	t.Helper()
	s, err := Open(path, recordKey)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "items.json"))
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d records", s.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.json")

	s := openTestStore(t, path)
	if err := s.Add(record{ID: "42", Name: "answer"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A fresh instance must reflect the on-disk state.
	reloaded := openTestStore(t, path)
	got, ok := reloaded.Get("42")
	if !ok || got.Name != "answer" {
		t.Errorf("expected record 42/answer after reload, got %+v (ok=%v)", got, ok)
	}
}

func TestLegacyListMigration(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.json")
	legacy := `[{"id":"1","name":"one"},{"id":"2","name":"two"},{"id":"2","name":"two again"}]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, path)
	if got := s.Keys(); !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("expected keys [1 2] with no duplicates, got %v", got)
	}
	// Later list entries win, matching last-update semantics.
	if got, _ := s.Get("2"); got.Name != "two again" {
		t.Errorf("expected last duplicate to win, got %+v", got)
	}

	// The file is only rewritten in mapping form on the next mutation.
	if err := s.Add(record{ID: "3", Name: "three"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	reloaded := openTestStore(t, path)
	if got := reloaded.Keys(); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("expected keys [1 2 3] after migration rewrite, got %v", got)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.json")
	s := openTestStore(t, path)
	if err := s.Add(record{ID: "1", Name: "one"}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.Remove("1")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = s.Remove("1")
	if err != nil || removed {
		t.Fatalf("expected no-op on absent key, got removed=%v err=%v", removed, err)
	}

	reloaded := openTestStore(t, path)
	if reloaded.Len() != 0 {
		t.Errorf("expected empty store after remove, got %d", reloaded.Len())
	}
}

func TestPutAll_MergesAndPersistsOnce(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.json")
	s := openTestStore(t, path)
	if err := s.Add(record{ID: "1", Name: "one"}); err != nil {
		t.Fatal(err)
	}

	err := s.PutAll(map[string]record{
		"1": {ID: "1", Name: "one updated"},
		"2": {ID: "2", Name: "two"},
	})
	if err != nil {
		t.Fatalf("put all: %v", err)
	}

	reloaded := openTestStore(t, path)
	if got, _ := reloaded.Get("1"); got.Name != "one updated" {
		t.Errorf("expected merge to update record 1, got %+v", got)
	}
	if got := reloaded.Keys(); !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("expected keys [1 2], got %v", got)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path, recordKey)
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("expected *StorageError, got %T: %v", err, err)
	}
	if storageErr.Op != "decode" {
		t.Errorf("expected decode failure, got op %q", storageErr.Op)
	}
}

func TestValues_OrderedByKey(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, filepath.Join(t.TempDir(), "items.json"))
	for _, id := range []string{"b", "a", "c"} {
		if err := s.Add(record{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	var ids []string
	for _, v := range s.Values() {
		ids = append(ids, v.ID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Errorf("expected deterministic order [a b c], got %v", ids)
	}
}
