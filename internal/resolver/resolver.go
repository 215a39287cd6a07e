// SPDX-License-Identifier: MPL-2.0

// Package resolver computes the transitive requirement closure of workshop
// items and turns requested ids into an install plan. Expansion is
// breadth-first over an explicit visited set created per call, so requirement
// cycles terminate and repeated resolutions are independent of each other.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"workshopctl/internal/registry"
)

type (
	// InstalledFunc reports whether an id is already satisfied locally.
	InstalledFunc func(id string) bool

	// Resolver expands requirement edges via the catalog, skipping ids the
	// registry already satisfies. It performs one catalog lookup per newly
	// discovered id; swapping in a cached or batched Lookup changes cost,
	// not closure semantics.
	Resolver struct {
		catalog   registry.Lookup
		installed InstalledFunc
	}

	// Closure is the result of expanding one or more roots: the requirement
	// records that must be installed, in discovery order, plus the ids the
	// catalog could not resolve.
	Closure struct {
		Items      []registry.Item
		Unresolved []string
	}

	// Plan partitions a batch of requested ids for installation.
	Plan struct {
		// ToInstall are the requested items that are not yet installed.
		ToInstall []registry.Item
		// Dependencies are additionally required items discovered through
		// closure expansion, in discovery order.
		Dependencies []registry.Item
		// AlreadyInstalled are requested ids the registry already holds.
		AlreadyInstalled []string
		// NotFound are requested ids the catalog does not know.
		NotFound []string
		// Unresolved are requirement ids (not directly requested) that the
		// catalog could not resolve during expansion.
		Unresolved []string
	}
)

// New creates a Resolver. installed may be nil when no registry state
// should be consulted.
func New(catalog registry.Lookup, installed InstalledFunc) *Resolver {
	return &Resolver{catalog: catalog, installed: installed}
}

// Resolve returns the full transitive requirement closure for rootID,
// excluding the root itself. A root the catalog does not know is an error;
// unknown ids deeper in the graph are collected in Closure.Unresolved.
func (r *Resolver) Resolve(ctx context.Context, rootID string) (Closure, error) {
	root, err := r.catalog.Details(ctx, rootID)
	if err != nil {
		return Closure{}, fmt.Errorf("resolve %s: %w", rootID, err)
	}

	visited := map[string]bool{rootID: true}
	return r.expand(ctx, root.Requires, visited)
}

// expand walks the requirement frontier breadth-first. visited is shared
// across roots within one call so overlapping subtrees are expanded once;
// it is never reused between calls.
func (r *Resolver) expand(ctx context.Context, frontier []string, visited map[string]bool) (Closure, error) {
	var out Closure

	queue := append([]string(nil), frontier...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}
		visited[id] = true

		if r.installed != nil && r.installed(id) {
			continue
		}

		item, err := r.catalog.Details(ctx, id)
		if errors.Is(err, registry.ErrNotFound) {
			out.Unresolved = append(out.Unresolved, id)
			continue
		}
		if err != nil {
			return out, fmt.Errorf("expand %s: %w", id, err)
		}

		out.Items = append(out.Items, item)
		// Descend into the discovered item's own requirements, not the
		// root's; this is what makes the closure transitive.
		queue = append(queue, item.Requires...)
	}

	return out, nil
}

// PlanInstall partitions requested ids into the install plan. Per-id
// catalog misses are recorded, never fatal; duplicate requests collapse.
func (r *Resolver) PlanInstall(ctx context.Context, requested []string) (Plan, error) {
	var plan Plan

	visited := make(map[string]bool)
	for _, id := range requested {
		if visited[id] {
			continue
		}
		visited[id] = true

		if r.installed != nil && r.installed(id) {
			plan.AlreadyInstalled = append(plan.AlreadyInstalled, id)
			continue
		}

		item, err := r.catalog.Details(ctx, id)
		if errors.Is(err, registry.ErrNotFound) {
			plan.NotFound = append(plan.NotFound, id)
			continue
		}
		if err != nil {
			return plan, fmt.Errorf("plan %s: %w", id, err)
		}
		plan.ToInstall = append(plan.ToInstall, item)
	}

	var frontier []string
	for _, item := range plan.ToInstall {
		frontier = append(frontier, item.Requires...)
	}

	closure, err := r.expand(ctx, frontier, visited)
	if err != nil {
		return plan, err
	}
	plan.Dependencies = closure.Items
	plan.Unresolved = closure.Unresolved

	return plan, nil
}

// InstallIDs returns every id the plan wants downloaded: requested items
// first, then their dependencies, in plan order.
func (p Plan) InstallIDs() []string {
	ids := make([]string, 0, len(p.ToInstall)+len(p.Dependencies))
	for _, item := range p.ToInstall {
		ids = append(ids, item.ID)
	}
	for _, item := range p.Dependencies {
		ids = append(ids, item.ID)
	}
	return ids
}

// TotalSize sums the sizes of everything the plan installs.
func (p Plan) TotalSize() uint64 {
	var total uint64
	for _, item := range p.ToInstall {
		total += item.SizeBytes
	}
	for _, item := range p.Dependencies {
		total += item.SizeBytes
	}
	return total
}

// Empty reports whether the plan has nothing to download.
func (p Plan) Empty() bool {
	return len(p.ToInstall) == 0 && len(p.Dependencies) == 0
}
