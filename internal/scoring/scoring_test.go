package scoring

import (
	"testing"

	"github.com/engagewise/engagewise/pkg/types"
)

func sampleStudy() types.StudyRecord {
	s := types.StudyRecord{
		Metadata: types.StudyMetadata{
			Title:        "Brief counseling plus print materials",
			DiseaseArea1: "Cancer",
			DiseaseArea2: "Women's Health",
		},
		StudyContext: &types.StudyContext{Setting: "Outpatient clinic"},
		Sample:       &types.Sample{},
	}
	s.Sample.Age.Categories = []string{"adult", "elderly"}
	s.Sample.Sex = types.SexCounts{Male: 0, Female: 40}
	return s
}

func TestScoreFullMatch(t *testing.T) {
	input := types.UserInput{
		DiseaseArea:  "Cancer",
		Gender:       types.GenderFemale,
		AgeGroup:     "adult",
		StudySetting: "clinic",
	}
	if got := Score(sampleStudy(), input); got != 12 {
		t.Errorf("Score = %d, want 12", got)
	}
}

func TestScoreCriteria(t *testing.T) {
	tests := []struct {
		name  string
		study types.StudyRecord
		input types.UserInput
		want  int
	}{
		{
			name:  "no matches",
			study: sampleStudy(),
			input: types.UserInput{DiseaseArea: "Diabetes", Gender: types.GenderMale, AgeGroup: "child", StudySetting: "school"},
			want:  0,
		},
		{
			name:  "secondary disease area matches",
			study: sampleStudy(),
			input: types.UserInput{DiseaseArea: "women's health"},
			want:  WeightDiseaseArea,
		},
		{
			name:  "disease area is exact match not substring",
			study: sampleStudy(),
			input: types.UserInput{DiseaseArea: "Can"},
			want:  0,
		},
		{
			name:  "setting substring case-insensitive",
			study: sampleStudy(),
			input: types.UserInput{StudySetting: "OUTPATIENT"},
			want:  WeightSetting,
		},
		{
			name:  "age term list with commas",
			study: sampleStudy(),
			input: types.UserInput{AgeGroup: "child, elderly"},
			want:  WeightAgeGroup,
		},
		{
			name:  "gender all accepts any sex count",
			study: sampleStudy(),
			input: types.UserInput{Gender: types.GenderAll},
			want:  WeightGender,
		},
		{
			name:  "gender male fails on zero male count",
			study: sampleStudy(),
			input: types.UserInput{Gender: types.GenderMale},
			want:  0,
		},
		{
			name:  "unknown gender value scores zero",
			study: sampleStudy(),
			input: types.UserInput{Gender: "other"},
			want:  0,
		},
		{
			name:  "empty input scores zero everywhere",
			study: sampleStudy(),
			input: types.UserInput{},
			want:  0,
		},
		{
			name:  "missing nested fields contribute zero",
			study: types.StudyRecord{Metadata: types.StudyMetadata{Title: "bare"}},
			input: types.UserInput{DiseaseArea: "Cancer", Gender: types.GenderAll, AgeGroup: "adult", StudySetting: "clinic"},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.study, tt.input); got != tt.want {
				t.Errorf("Score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	// Zero-value records and partially populated inputs must stay in range.
	inputs := []types.UserInput{
		{},
		{DiseaseArea: "Cancer"},
		{DiseaseArea: "Cancer", Gender: types.GenderFemale, AgeGroup: "adult elderly", StudySetting: "clinic"},
		{Gender: "???", AgeGroup: ",,,   "},
	}
	studies := []types.StudyRecord{
		{},
		sampleStudy(),
		{Sample: &types.Sample{}},
		{StudyContext: &types.StudyContext{}},
	}
	for _, in := range inputs {
		for _, st := range studies {
			got := Score(st, in)
			if got < 0 || got > MaxScore {
				t.Errorf("Score(%+v, %+v) = %d, out of [0, %d]", st, in, got, MaxScore)
			}
		}
	}
}

func TestSplitTerms(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"adult", []string{"adult"}},
		{"Adult, Elderly", []string{"adult", "elderly"}},
		{"adult elderly\tchild", []string{"adult", "elderly", "child"}},
		{"", nil},
		{" , , ", nil},
	}
	for _, tt := range tests {
		got := SplitTerms(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitTerms(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitTerms(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
