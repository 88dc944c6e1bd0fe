// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend loads the study catalog and ranks it against a user's
// study-configuration form.
package recommend

import (
	"sort"

	"github.com/engagewise/engagewise/internal/scoring"
	"github.com/engagewise/engagewise/pkg/types"
)

// DefaultTopK is the shortlist size when the config does not set one.
const DefaultTopK = 4

// SelectTop scores every catalog entry, discards zero-score entries, sorts
// by score descending, and truncates to the first k. The sort is stable:
// catalog order is preserved among equal scores. k <= 0 uses DefaultTopK.
//
// An empty result is a no-data state, not an error; callers render
// Placeholders(k) instead.
func SelectTop(catalog []types.StudyRecord, input types.UserInput, k int) []types.ScoredStudy {
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]types.ScoredStudy, 0, len(catalog))
	for _, study := range catalog {
		if s := scoring.Score(study, input); s > 0 {
			scored = append(scored, types.ScoredStudy{Study: study, Score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Placeholders returns k placeholder records for rendering when the
// selector found nothing relevant.
func Placeholders(k int) []types.StudyRecord {
	if k <= 0 {
		k = DefaultTopK
	}
	out := make([]types.StudyRecord, k)
	for i := range out {
		out[i] = types.StudyRecord{
			Metadata: types.StudyMetadata{Title: "[Intervention details: name]"},
			InterventionDetails: []types.Intervention{{
				Name:        "[Intervention details: name]",
				Description: "[Intervention details: description]",
			}},
		}
	}
	return out
}

// Records strips the scores from a shortlist, preserving order.
func Records(scored []types.ScoredStudy) []types.StudyRecord {
	out := make([]types.StudyRecord, len(scored))
	for i, s := range scored {
		out[i] = s.Study
	}
	return out
}
