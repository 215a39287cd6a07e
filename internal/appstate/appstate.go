// SPDX-License-Identifier: MPL-2.0

// Package appstate reads the vendor-maintained workshop state file and
// derives per-item version markers from it. The state file is decoded
// read-only; the only thing this package ever writes is the empty
// <timeupdated>.ver marker inside an item's install folder.
package appstate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"workshopctl/internal/keyvalues"

	"github.com/charmbracelet/log"
)

var (
	// ErrStateFileNotFound indicates no appworkshop manifest exists under
	// the installation root.
	ErrStateFileNotFound = errors.New("workshop state file not found")

	// ErrAmbiguousStateFile indicates more than one candidate manifest was
	// found. Picking one silently would stamp versions from the wrong
	// install, so this is always surfaced.
	ErrAmbiguousStateFile = errors.New("multiple workshop state files found")

	// ErrItemNotInState indicates the state file has no entry for an item.
	ErrItemNotInState = errors.New("item not recorded in workshop state file")
)

const markerSuffix = ".ver"

// Locate finds the unique appworkshop_<appID>.acf under installDir.
// Zero or multiple matches are reported as errors, never guessed around.
func Locate(installDir, appID string) (string, error) {
	want := fmt.Sprintf("appworkshop_%s.acf", appID)

	var matches []string
	err := filepath.WalkDir(installDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped; the install root itself
			// failing is reported below via the match count.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == want {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", installDir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s under %s: %w", want, installDir, ErrStateFileNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s under %s (%d candidates): %w", want, installDir, len(matches), ErrAmbiguousStateFile)
	}
}

// Load locates and decodes the state file. Every call re-reads from disk;
// the returned tree is owned by the caller.
func Load(installDir, appID string) (*keyvalues.Node, error) {
	path, err := Locate(installDir, appID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	tree, err := keyvalues.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return tree, nil
}

// ItemUpdatedAt extracts the timeupdated stamp recorded for one item.
func ItemUpdatedAt(tree *keyvalues.Node, itemID string) (string, error) {
	entry := tree.Lookup("AppWorkshop", "WorkshopItemsInstalled", itemID)
	if entry == nil {
		return "", fmt.Errorf("item %s: %w", itemID, ErrItemNotInState)
	}
	updated, ok := entry.Value("timeupdated")
	if !ok {
		return "", fmt.Errorf("item %s has no timeupdated field: %w", itemID, ErrItemNotInState)
	}
	return updated, nil
}

// ItemDir returns the install folder for one workshop item.
func ItemDir(installDir, appID, itemID string) string {
	return filepath.Join(installDir, "steamapps", "workshop", "content", appID, itemID)
}

// WriteVersionMarker replaces any existing *.ver markers in dir with a
// single empty <timeupdated>.ver file.
func WriteVersionMarker(dir, timeupdated string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read item folder %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), markerSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("remove stale marker %s: %w", entry.Name(), err)
		}
	}

	marker := filepath.Join(dir, timeupdated+markerSuffix)
	f, err := os.OpenFile(marker, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create marker %s: %w", marker, err)
	}
	return f.Close()
}

// StampVersions writes version markers for each item id, reading the state
// file once. Per-item failures are collected so one missing entry does not
// stop the rest; the caller receives them keyed by item id.
func StampVersions(installDir, appID string, itemIDs []string) map[string]error {
	failures := make(map[string]error)

	tree, err := Load(installDir, appID)
	if err != nil {
		for _, id := range itemIDs {
			failures[id] = err
		}
		return failures
	}

	for _, id := range itemIDs {
		updated, err := ItemUpdatedAt(tree, id)
		if err != nil {
			failures[id] = err
			continue
		}
		dir := ItemDir(installDir, appID, id)
		if err := WriteVersionMarker(dir, updated); err != nil {
			failures[id] = err
			continue
		}
		log.Debug("stamped version marker", "item", id, "timeupdated", updated)
	}
	return failures
}
