// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package projects

import (
	"time"

	"github.com/engagewise/engagewise/pkg/types"
)

// DemoProjects returns the two fixed demo projects substituted when a
// user has no saved projects in either store. They are ephemeral: never
// persisted, marked SourceDemo, and owned by the requesting user only for
// display purposes.
func DemoProjects(now time.Time, userID string) []types.Project {
	return []types.Project{
		{
			ID:          "demo_study_1",
			Name:        "Brief counseling plus print materials",
			Description: "Nonphysician-delivered education session and informational brochure",
			CreatedAt:   now.UTC().Format(time.RFC3339),
			UpdatedAt:   now.UTC().Format(time.RFC3339),
			UserID:      userID,
			Kind:        types.KindSaved,
			Source:      SourceDemo,
			Recommendations: []types.Recommendation{
				{
					Metadata: types.StudyMetadata{
						Title:        "Brief counseling plus print materials",
						DiseaseArea1: "Cancer",
						DiseaseArea2: "Women's Health",
					},
					InterventionDetails: []types.Intervention{{
						Name:        "Brief counseling plus print materials",
						Description: "Nonphysician-delivered education session and informational brochure",
					}},
					Outcomes: &types.Outcomes{Primary: []types.Outcome{{
						Result: "72% overall; less with mention of side effects",
					}}},
					IsStarred: true,
				},
			},
		},
		{
			ID:          "demo_study_2",
			Name:        "Video information intervention",
			Description: "A 10-minute professionally produced video describing the study",
			CreatedAt:   now.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
			UpdatedAt:   now.Add(-24 * time.Hour).UTC().Format(time.RFC3339),
			UserID:      userID,
			Kind:        types.KindSaved,
			Source:      SourceDemo,
			Recommendations: []types.Recommendation{
				{
					Metadata: types.StudyMetadata{
						Title:        "Video information intervention",
						DiseaseArea1: "Public Health",
					},
					InterventionDetails: []types.Intervention{{
						Name:        "Patient information video",
						Description: "A 10-minute professionally produced video describing the study",
					}},
					Outcomes: &types.Outcomes{Primary: []types.Outcome{{
						Result: "61.9% vs 35.4% control",
					}}},
					IsStarred: true,
				},
			},
		},
	}
}
