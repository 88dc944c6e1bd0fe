// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"strings"
	"time"
)

// ProjectKind distinguishes the standing "Starred Items" bucket from
// ordinary saved projects. The original data model overloaded a single
// isStarredCollection flag for both; the kind field makes the semantic
// explicit while the flag is still written for wire compatibility.
type ProjectKind string

const (
	// KindSaved is a project created by an explicit save action.
	KindSaved ProjectKind = "saved"

	// KindStarred marks the one standing starred-items bucket per user.
	KindStarred ProjectKind = "starred"
)

// StarredProjectIDPrefix prefixes ids of starred-items buckets; legacy
// documents without a kind field are classified by this prefix.
const StarredProjectIDPrefix = "starred_items_"

// Recommendation is the minimized projection of a StudyRecord persisted
// inside a Project: title, disease areas, the first intervention's name and
// description, the first primary outcome's result, and the starred flag.
// Full records are never persisted.
type Recommendation struct {
	Metadata            StudyMetadata  `json:"study_metadata"`
	InterventionDetails []Intervention `json:"intervention_details,omitempty"`
	Outcomes            *Outcomes      `json:"outcomes,omitempty"`

	// IsStarred records whether the user marked this recommendation with a
	// star in the session that produced the project.
	IsStarred bool `json:"isStarred"`
}

// Title returns the recommendation's identity key.
func (r Recommendation) Title() string {
	return r.Metadata.Title
}

// Minimize builds the persisted projection of a catalog record.
func Minimize(s StudyRecord, starred bool) Recommendation {
	rec := Recommendation{
		Metadata: StudyMetadata{
			Title:        s.Metadata.Title,
			DiseaseArea1: s.Metadata.DiseaseArea1,
			DiseaseArea2: s.Metadata.DiseaseArea2,
		},
		IsStarred: starred,
	}
	if iv := s.FirstIntervention(); iv.Name != "" || iv.Description != "" {
		rec.InterventionDetails = []Intervention{{
			Name:        iv.Name,
			Description: iv.Description,
		}}
	}
	if result := s.PrimaryResult(); result != "" {
		rec.Outcomes = &Outcomes{Primary: []Outcome{{Result: result}}}
	}
	return rec
}

// Project is the persisted unit: a named collection of minimized
// recommendations plus the form input that produced them. Each project is
// exclusively owned by one user; the remote copy is authoritative for
// identity, the local copy for immediate availability.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// CreatedAt and UpdatedAt are RFC 3339 strings. Unparsable or missing
	// values sort as the epoch.
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	// UserID is the owning identity; required for filtering.
	UserID string `json:"userId"`

	Kind ProjectKind `json:"kind,omitempty"`

	Recommendations []Recommendation `json:"recommendations"`

	// UserInput is the form submission the recommendations were scored
	// against. Unset on the starred-items bucket.
	UserInput *UserInput `json:"userInput,omitempty"`

	// Source marks where a merged listing entry came from: "local",
	// "remote", or "demo". Not persisted.
	Source string `json:"-"`
}

// projectWire adds the legacy isStarredCollection flag to the persisted form.
type projectWire struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	CreatedAt           string           `json:"createdAt"`
	UpdatedAt           string           `json:"updatedAt"`
	UserID              string           `json:"userId"`
	Kind                ProjectKind      `json:"kind,omitempty"`
	IsStarredCollection bool             `json:"isStarredCollection"`
	Recommendations     []Recommendation `json:"recommendations"`
	UserInput           *UserInput       `json:"userInput,omitempty"`
}

// MarshalJSON writes the project with the legacy isStarredCollection flag
// derived from Kind.
func (p Project) MarshalJSON() ([]byte, error) {
	return json.Marshal(projectWire{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		UserID:              p.UserID,
		Kind:                p.Kind,
		IsStarredCollection: p.Kind == KindStarred,
		Recommendations:     p.Recommendations,
		UserInput:           p.UserInput,
	})
}

// UnmarshalJSON reads both current documents (with a kind field) and legacy
// ones, where isStarredCollection was set on every saved project and only
// the id prefix identifies the real starred bucket.
func (p *Project) UnmarshalJSON(data []byte) error {
	var w projectWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID = w.ID
	p.Name = w.Name
	p.Description = w.Description
	p.CreatedAt = w.CreatedAt
	p.UpdatedAt = w.UpdatedAt
	p.UserID = w.UserID
	p.Recommendations = w.Recommendations
	p.UserInput = w.UserInput

	p.Kind = w.Kind
	if p.Kind == "" {
		if w.IsStarredCollection && strings.HasPrefix(w.ID, StarredProjectIDPrefix) {
			p.Kind = KindStarred
		} else {
			p.Kind = KindSaved
		}
	}
	return nil
}

// CreatedTime parses CreatedAt, returning the epoch for missing or
// unparsable values so they sort as oldest.
func (p Project) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// StarredCount returns the number of starred recommendations in the project.
func (p Project) StarredCount() int {
	n := 0
	for _, rec := range p.Recommendations {
		if rec.IsStarred {
			n++
		}
	}
	return n
}

// HasRecommendation reports whether a recommendation with the given title
// already exists in the project.
func (p Project) HasRecommendation(title string) bool {
	for _, rec := range p.Recommendations {
		if rec.Title() == title {
			return true
		}
	}
	return false
}

// ProjectIndexEntry is the summary row kept in the local store's index key.
type ProjectIndexEntry struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
	UserID      string      `json:"userId"`
	Kind        ProjectKind `json:"kind,omitempty"`
}

// IndexEntry builds the index summary for a project.
func (p Project) IndexEntry() ProjectIndexEntry {
	return ProjectIndexEntry{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		UserID:      p.UserID,
		Kind:        p.Kind,
	}
}
