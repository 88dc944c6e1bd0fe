// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the weighted-attribute relevance score of a
// catalog study against a user's study-configuration form.
package scoring

import (
	"strings"

	"github.com/engagewise/engagewise/pkg/types"
)

// Criterion weights. Disease area dominates; setting, age group, and
// gender refine the ranking.
const (
	WeightDiseaseArea = 5
	WeightSetting     = 3
	WeightAgeGroup    = 2
	WeightGender      = 2

	// MaxScore is the sum of all weights.
	MaxScore = WeightDiseaseArea + WeightSetting + WeightAgeGroup + WeightGender
)

// Score returns the relevance of study to input as an integer in
// [0, MaxScore]. It is a total function: missing or malformed fields
// contribute zero, and an empty user-side field scores zero on its
// criterion rather than matching everything.
func Score(study types.StudyRecord, input types.UserInput) int {
	score := 0

	if matchDiseaseArea(study, input.DiseaseArea) {
		score += WeightDiseaseArea
	}
	if matchSetting(study, input.StudySetting) {
		score += WeightSetting
	}
	if matchAgeGroup(study, input.AgeGroup) {
		score += WeightAgeGroup
	}
	if matchGender(study, input.Gender) {
		score += WeightGender
	}

	return score
}

// matchDiseaseArea reports a case-insensitive exact match of the user's
// disease area against either catalog disease area.
func matchDiseaseArea(study types.StudyRecord, diseaseArea string) bool {
	want := strings.ToLower(strings.TrimSpace(diseaseArea))
	if want == "" {
		return false
	}
	return strings.ToLower(study.Metadata.DiseaseArea1) == want ||
		strings.ToLower(study.Metadata.DiseaseArea2) == want
}

// matchSetting reports whether the study's setting contains the user's
// setting as a case-insensitive substring.
func matchSetting(study types.StudyRecord, setting string) bool {
	want := strings.ToLower(strings.TrimSpace(setting))
	if want == "" || study.StudyContext == nil {
		return false
	}
	return strings.Contains(strings.ToLower(study.StudyContext.Setting), want)
}

// matchAgeGroup reports whether any comma- or whitespace-delimited term of
// the user's age group appears in the space-joined study age categories.
func matchAgeGroup(study types.StudyRecord, ageGroup string) bool {
	terms := SplitTerms(ageGroup)
	if len(terms) == 0 || study.Sample == nil {
		return false
	}
	categories := strings.ToLower(strings.Join(study.Sample.Age.Categories, " "))
	for _, term := range terms {
		if strings.Contains(categories, term) {
			return true
		}
	}
	return false
}

// matchGender awards the gender criterion when the study sample reports
// participants of the requested sex; "all" accepts either.
func matchGender(study types.StudyRecord, gender types.Gender) bool {
	if study.Sample == nil {
		return false
	}
	sex := study.Sample.Sex
	switch gender {
	case types.GenderAll:
		return sex.Male > 0 || sex.Female > 0
	case types.GenderMale:
		return sex.Male > 0
	case types.GenderFemale:
		return sex.Female > 0
	default:
		return false
	}
}

// SplitTerms lowercases s and splits it on commas and whitespace,
// dropping empty terms.
func SplitTerms(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
