// SPDX-License-Identifier: MPL-2.0

// Package registry is the local ledger of installed workshop items. It
// records which items are considered installed; it makes no freshness
// promises about the remote catalog, and never revalidates entries on its
// own.
package registry

import (
	"fmt"
	"strings"
)

// Item is one installable content unit. Identity is the ID alone: two
// Items are the same item iff their IDs match, regardless of the rest of
// the record.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	LogoURL  string   `json:"logo_url,omitempty"`
	SizeBytes uint64  `json:"size_bytes"`
	Requires []string `json:"requires,omitempty"`
}

// Equal reports identity by ID.
func (i Item) Equal(other Item) bool {
	return i.ID == other.ID
}

// String renders the detailed multi-line description used by `info`.
func (i Item) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%12s: %s\n", "id", i.ID)
	fmt.Fprintf(&sb, "%12s: %s\n", "name", i.Name)
	fmt.Fprintf(&sb, "%12s: %s\n", "logo_url", i.LogoURL)
	fmt.Fprintf(&sb, "%12s: %s\n", "size", FormatSize(i.SizeBytes))
	fmt.Fprintf(&sb, "%12s: [\n", "require")
	for _, id := range i.Requires {
		fmt.Fprintf(&sb, "%14s %s,\n", "", id)
	}
	fmt.Fprintf(&sb, "%12s  ]", "")
	return sb.String()
}

// OneLine renders the compact id/size/name listing row.
func (i Item) OneLine() string {
	return fmt.Sprintf("%-10s %14s   %s", i.ID, FormatSize(i.SizeBytes), i.Name)
}

// ContainsID reports whether items holds a record with the given id.
// Membership follows Item identity, so only IDs are compared.
func ContainsID(items []Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
