// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

type fakeLookup map[string]Item

func (f fakeLookup) Details(_ context.Context, id string) (Item, error) {
	item, ok := f[id]
	if !ok {
		return Item{}, errors.New("no such item")
	}
	return item, nil
}

func openTestRegistry(t *testing.T, path string) *Registry {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	return r
}

func TestInstallRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mods.json")

	r := openTestRegistry(t, path)
	item := Item{
		ID:        "450814997",
		Name:      "CBA_A3",
		SizeBytes: 104857600,
		Requires:  []string{"463939057", "333310405"},
	}
	if err := r.Install(item); err != nil {
		t.Fatalf("install: %v", err)
	}

	reloaded := openTestRegistry(t, path)
	got, ok := reloaded.Get("450814997")
	if !ok {
		t.Fatal("expected item after reload")
	}
	if !got.Equal(item) {
		t.Errorf("identity mismatch: %+v", got)
	}
	if !slices.Equal(got.Requires, item.Requires) {
		t.Errorf("requires list not preserved: %v", got.Requires)
	}
}

func TestInstallID_LooksUpCatalog(t *testing.T) {
	t.Parallel()
	r := openTestRegistry(t, filepath.Join(t.TempDir(), "mods.json"))
	catalog := fakeLookup{
		"1": {ID: "1", Name: "one"},
	}

	item, err := r.InstallID(context.Background(), catalog, "1")
	if err != nil {
		t.Fatalf("install id: %v", err)
	}
	if item.Name != "one" || !r.IsInstalled("1") {
		t.Errorf("expected catalog-built record installed, got %+v", item)
	}

	if _, err := r.InstallID(context.Background(), catalog, "missing"); err == nil {
		t.Error("expected lookup error for unknown id")
	}
	if r.IsInstalled("missing") {
		t.Error("failed lookup must not create an entry")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()
	r := openTestRegistry(t, filepath.Join(t.TempDir(), "mods.json"))
	if err := r.Install(Item{ID: "1", Name: "one"}); err != nil {
		t.Fatal(err)
	}

	removed, ok, err := r.Remove("1")
	if err != nil || !ok {
		t.Fatalf("expected removal, got ok=%v err=%v", ok, err)
	}
	if removed.Name != "one" {
		t.Errorf("expected removed record back, got %+v", removed)
	}

	_, ok, err = r.Remove("1")
	if err != nil || ok {
		t.Errorf("expected no-op for absent id, got ok=%v err=%v", ok, err)
	}
}

func TestEqualityByID(t *testing.T) {
	t.Parallel()
	a := Item{ID: "1", Name: "old name", SizeBytes: 5}
	b := Item{ID: "1", Name: "new name", SizeBytes: 99}
	c := Item{ID: "2", Name: "old name", SizeBytes: 5}

	if !a.Equal(b) {
		t.Error("items with same id must be equal regardless of content")
	}
	if a.Equal(c) {
		t.Error("items with different ids must not be equal")
	}
	if !ContainsID([]Item{a}, "1") || ContainsID([]Item{a}, "2") {
		t.Error("ContainsID must follow id identity")
	}
}

func TestList_SortedByID(t *testing.T) {
	t.Parallel()
	r := openTestRegistry(t, filepath.Join(t.TempDir(), "mods.json"))
	if err := r.InstallAll([]Item{{ID: "30"}, {ID: "10"}, {ID: "20"}}); err != nil {
		t.Fatal(err)
	}
	if got := r.IDs(); !slices.Equal(got, []string{"10", "20", "30"}) {
		t.Errorf("expected sorted ids, got %v", got)
	}
}
