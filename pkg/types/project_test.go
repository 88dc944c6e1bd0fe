// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestProjectWireCompatibility(t *testing.T) {
	p := Project{
		ID:     "starred_items_1700000000000",
		Name:   "Starred Items",
		UserID: "user-1",
		Kind:   KindStarred,
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	// The legacy flag is written for readers of the original format.
	if !strings.Contains(string(data), `"isStarredCollection":true`) {
		t.Errorf("missing legacy flag: %s", data)
	}

	var back Project
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Kind != KindStarred {
		t.Errorf("kind = %q, want starred", back.Kind)
	}
}

func TestProjectUnmarshalLegacyDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want ProjectKind
	}{
		{
			// Legacy saved projects set isStarredCollection on everything;
			// only the id prefix marks the real bucket.
			name: "legacy saved project",
			doc:  `{"id":"project_1700000000000_ab12cd34","name":"Test","isStarredCollection":true}`,
			want: KindSaved,
		},
		{
			name: "legacy starred bucket",
			doc:  `{"id":"starred_items_1700000000000","name":"Starred Items","isStarredCollection":true}`,
			want: KindStarred,
		},
		{
			name: "current document keeps explicit kind",
			doc:  `{"id":"project_1_a","kind":"saved","isStarredCollection":true}`,
			want: KindSaved,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Project
			if err := json.Unmarshal([]byte(tt.doc), &p); err != nil {
				t.Fatal(err)
			}
			if p.Kind != tt.want {
				t.Errorf("kind = %q, want %q", p.Kind, tt.want)
			}
		})
	}
}

func TestCreatedTimeEpochFallback(t *testing.T) {
	tests := []struct {
		createdAt string
		wantEpoch bool
	}{
		{"2026-03-01T12:00:00Z", false},
		{"", true},
		{"yesterday", true},
	}
	for _, tt := range tests {
		p := Project{CreatedAt: tt.createdAt}
		gotEpoch := p.CreatedTime().Equal(time.Unix(0, 0).UTC())
		if gotEpoch != tt.wantEpoch {
			t.Errorf("CreatedTime(%q) epoch = %v, want %v", tt.createdAt, gotEpoch, tt.wantEpoch)
		}
	}
}

func TestMinimize(t *testing.T) {
	full := StudyRecord{
		Metadata: StudyMetadata{
			Title:        "Video information intervention",
			DiseaseArea1: "Public Health",
			Authors:      []string{"Smith, J."},
			Journal:      "Trials",
		},
		InterventionDetails: []Intervention{
			{Name: "Patient information video", Description: "10-minute video", ComparisonGroup: "standard letter"},
			{Name: "second intervention ignored"},
		},
		Notes: "dropped",
		Outcomes: &Outcomes{
			Primary:   []Outcome{{Name: "Willingness", Result: "61.9% vs 35.4%"}, {Result: "secondary primary ignored"}},
			Secondary: []Outcome{{Result: "dropped"}},
		},
	}

	got := Minimize(full, true)

	if got.Metadata.Title != full.Metadata.Title || got.Metadata.DiseaseArea1 != "Public Health" {
		t.Errorf("metadata = %+v", got.Metadata)
	}
	// Authors, journal, comparison group, notes, and secondary outcomes
	// are not part of the persisted projection.
	if len(got.Metadata.Authors) != 0 || got.Metadata.Journal != "" {
		t.Errorf("projection kept extra metadata: %+v", got.Metadata)
	}
	if len(got.InterventionDetails) != 1 || got.InterventionDetails[0].ComparisonGroup != "" {
		t.Errorf("interventions = %+v", got.InterventionDetails)
	}
	if got.Outcomes == nil || len(got.Outcomes.Primary) != 1 || got.Outcomes.Primary[0].Result != "61.9% vs 35.4%" {
		t.Errorf("outcomes = %+v", got.Outcomes)
	}
	if len(got.Outcomes.Secondary) != 0 {
		t.Errorf("secondary outcomes kept: %+v", got.Outcomes.Secondary)
	}
	if !got.IsStarred {
		t.Error("IsStarred not set")
	}

	bare := Minimize(StudyRecord{Metadata: StudyMetadata{Title: "bare"}}, false)
	if bare.Outcomes != nil || len(bare.InterventionDetails) != 0 || bare.IsStarred {
		t.Errorf("bare projection = %+v", bare)
	}
}

func TestHasRecommendationAndStarredCount(t *testing.T) {
	p := Project{Recommendations: []Recommendation{
		{Metadata: StudyMetadata{Title: "a"}, IsStarred: true},
		{Metadata: StudyMetadata{Title: "b"}},
	}}
	if !p.HasRecommendation("a") || p.HasRecommendation("c") {
		t.Error("HasRecommendation wrong")
	}
	if p.StarredCount() != 1 {
		t.Errorf("StarredCount = %d, want 1", p.StarredCount())
	}
}
