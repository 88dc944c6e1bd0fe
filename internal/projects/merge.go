// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package projects

import (
	"sort"

	"github.com/engagewise/engagewise/pkg/types"
)

// Source markers set on merged listing entries.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
	SourceDemo   = "demo"
)

// Reconcile merges the two stores' project lists under the remote-wins
// conflict policy: an id present in both is represented once with the
// remote copy's field values, and local-only ids are returned as the
// backfill set that still needs mirroring to the remote store. Input
// order is preserved, remote entries first.
func Reconcile(local, remote []types.Project) (merged []types.Project, backfillIDs []string) {
	remoteIDs := make(map[string]bool, len(remote))
	for _, p := range remote {
		p.Source = SourceRemote
		remoteIDs[p.ID] = true
		merged = append(merged, p)
	}
	for _, p := range local {
		if remoteIDs[p.ID] {
			continue
		}
		p.Source = SourceLocal
		merged = append(merged, p)
		backfillIDs = append(backfillIDs, p.ID)
	}
	return merged, backfillIDs
}

// SortByCreatedDesc orders projects newest first. Missing or unparsable
// creation times parse as the epoch and sort last. The sort is stable so
// equal timestamps keep their merge order.
func SortByCreatedDesc(projects []types.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedTime().After(projects[j].CreatedTime())
	})
}
