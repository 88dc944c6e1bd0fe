// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the recommendation engine:
// the study catalog records, the user's study-configuration form, and the
// persisted project documents built from scored recommendations.
package types

// StudyMetadata identifies a catalog study. Title is the identity key used
// for deduplication; the disease areas feed the relevance score.
type StudyMetadata struct {
	// Title is the study title. It uniquely identifies a study within one
	// catalog for dedup purposes; catalogs may still contain duplicates and
	// callers must tolerate them.
	Title string `json:"title" yaml:"title"`

	// DiseaseArea1 is the primary disease area (e.g. "Cancer").
	DiseaseArea1 string `json:"disease_area_1,omitempty" yaml:"disease_area_1,omitempty"`

	// DiseaseArea2 is an optional secondary disease area.
	DiseaseArea2 string `json:"disease_area_2,omitempty" yaml:"disease_area_2,omitempty"`

	// Authors, Year, Journal and DOI are carried for detail rendering only.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year    int      `json:"year,omitempty" yaml:"year,omitempty"`
	Journal string   `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI     string   `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Intervention describes one recruitment/engagement strategy tested by a study.
// Only the first element of a study's intervention list is consulted.
type Intervention struct {
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	ComparisonGroup string `json:"comparison_group,omitempty" yaml:"comparison_group,omitempty"`
}

// SexCounts holds per-sex participant counts from a study sample.
type SexCounts struct {
	Male   int `json:"male,omitempty" yaml:"male,omitempty"`
	Female int `json:"female,omitempty" yaml:"female,omitempty"`
}

// Sample describes the participant sample of a study.
type Sample struct {
	// Age groups the sample's age breakdown; Categories is the set of age
	// labels (e.g. "adult", "elderly") matched against the user's age terms.
	Age struct {
		Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	} `json:"age,omitempty" yaml:"age,omitempty"`

	Sex SexCounts `json:"sex,omitempty" yaml:"sex,omitempty"`

	SampleSize int `json:"sample_size,omitempty" yaml:"sample_size,omitempty"`
}

// StudyContext describes where the study was run.
type StudyContext struct {
	Setting string `json:"setting,omitempty" yaml:"setting,omitempty"`
}

// Outcome is a single reported study outcome.
type Outcome struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Result string `json:"result,omitempty" yaml:"result,omitempty"`
}

// Outcomes groups a study's reported outcomes by priority.
type Outcomes struct {
	Primary   []Outcome `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary []Outcome `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// StudyRecord is one entry of the study catalog. Records are externally
// supplied and read-only to the engine; every nested field is optional and
// a missing field contributes zero to the relevance score.
type StudyRecord struct {
	Metadata            StudyMetadata  `json:"study_metadata" yaml:"study_metadata"`
	InterventionDetails []Intervention `json:"intervention_details,omitempty" yaml:"intervention_details,omitempty"`
	Sample              *Sample        `json:"sample,omitempty" yaml:"sample,omitempty"`
	StudyContext        *StudyContext  `json:"study_context,omitempty" yaml:"study_context,omitempty"`
	Outcomes            *Outcomes      `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Notes               string         `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Title returns the study's identity key, or "" when metadata is absent.
func (s StudyRecord) Title() string {
	return s.Metadata.Title
}

// FirstIntervention returns the first intervention, or a zero value when
// the study carries none.
func (s StudyRecord) FirstIntervention() Intervention {
	if len(s.InterventionDetails) > 0 {
		return s.InterventionDetails[0]
	}
	return Intervention{}
}

// PrimaryResult returns the result of the first primary outcome, or "".
func (s StudyRecord) PrimaryResult() string {
	if s.Outcomes != nil && len(s.Outcomes.Primary) > 0 {
		return s.Outcomes.Primary[0].Result
	}
	return ""
}

// Gender is the user's gender selection on the study form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAll    Gender = "all"
)

// UserInput is the study-configuration form. It is created once per form
// submission and immutable for the session.
type UserInput struct {
	// StudyTitle is the user's working title for their own study; it seeds
	// the default project name on save.
	StudyTitle string `json:"studyTitle,omitempty" yaml:"study_title,omitempty"`

	// DiseaseArea is matched exactly (case-insensitive) against the
	// catalog's disease areas.
	DiseaseArea string `json:"diseaseArea" yaml:"disease_area"`

	// Gender is one of male, female, or all. Any other value scores zero
	// on the gender criterion.
	Gender Gender `json:"gender" yaml:"gender"`

	// AgeGroup is free text; comma- or whitespace-delimited terms are
	// matched as substrings of the catalog's age categories.
	AgeGroup string `json:"ageGroup" yaml:"age_group"`

	// StudySetting is matched as a substring of the catalog's setting.
	StudySetting string `json:"studySetting" yaml:"study_setting"`
}

// ScoredStudy pairs a catalog record with its relevance score. Derived and
// ephemeral; recomputed on each scoring pass.
type ScoredStudy struct {
	Study StudyRecord `json:"study"`
	Score int         `json:"score"`
}

// User is the signed-in identity observed from the authentication
// collaborator. UID is the tenant key for every storage operation.
type User struct {
	UID         string `json:"uid" yaml:"uid"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
}
