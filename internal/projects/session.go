// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package projects persists and merges recommendation projects across the
// two storage layers: the embedded local store for immediate availability
// and the remote document store for identity. Star state lives in an
// explicit per-session context rather than package-level state, so
// concurrent sessions cannot corrupt each other's view.
package projects

import (
	"sort"

	"github.com/engagewise/engagewise/pkg/types"
)

// Session is the request-scoped context of one recommendation flow: the
// signed-in user, the form input, the current shortlist, and the set of
// starred titles. Toggling a star is in-memory only; no I/O happens until
// a persistence operation is called.
type Session struct {
	User            *types.User
	Input           types.UserInput
	Recommendations []types.StudyRecord

	starred map[string]bool
}

// NewSession builds a session for one form submission.
func NewSession(user *types.User, input types.UserInput, recommendations []types.StudyRecord) *Session {
	return &Session{
		User:            user,
		Input:           input,
		Recommendations: recommendations,
		starred:         make(map[string]bool),
	}
}

// ToggleStar flips the star state for a title and returns the new state.
// Two toggles on the same title in rapid succession are last-toggle-wins.
func (s *Session) ToggleStar(title string) bool {
	if s.starred[title] {
		delete(s.starred, title)
		return false
	}
	s.starred[title] = true
	return true
}

// Star marks a title as starred regardless of its current state.
func (s *Session) Star(title string) {
	s.starred[title] = true
}

// IsStarred reports the star state for a title.
func (s *Session) IsStarred(title string) bool {
	return s.starred[title]
}

// StarredTitles returns the starred titles in sorted order.
func (s *Session) StarredTitles() []string {
	titles := make([]string, 0, len(s.starred))
	for t := range s.starred {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// FindRecommendation returns the shortlisted study with the given title.
func (s *Session) FindRecommendation(title string) (types.StudyRecord, bool) {
	for _, rec := range s.Recommendations {
		if rec.Title() == title {
			return rec, true
		}
	}
	return types.StudyRecord{}, false
}
