// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/engagewise/engagewise/pkg/types"
)

// rawSet writes a key directly, bypassing the store API.
func rawSet(s *Store, key, val []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.LocalStoreConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func project(id, userID string) types.Project {
	now := time.Now().UTC().Format(time.RFC3339)
	return types.Project{
		ID:        id,
		Name:      "Project " + id,
		UserID:    userID,
		Kind:      types.KindSaved,
		CreatedAt: now,
		UpdatedAt: now,
		Recommendations: []types.Recommendation{
			{Metadata: types.StudyMetadata{Title: "study for " + id}, IsStarred: true},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := testStore(t)
	p := project("project_1_abc", "user-1")
	if err := s.PutProject(p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProject(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != p.Name || got.UserID != p.UserID || got.Kind != types.KindSaved {
		t.Errorf("got %+v, want %+v", got, p)
	}
	if len(got.Recommendations) != 1 || !got.Recommendations[0].IsStarred {
		t.Errorf("recommendations not preserved: %+v", got.Recommendations)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetProject("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListProjectsFiltersByUser(t *testing.T) {
	s := testStore(t)
	for _, p := range []types.Project{
		project("project_1_a", "user-1"),
		project("project_2_b", "user-1"),
		project("project_3_c", "user-2"),
	} {
		if err := s.PutProject(p); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	got, err := s.ListProjects("user-1", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.UserID != "user-1" {
			t.Errorf("leaked project of %s", p.UserID)
		}
	}
}

func TestListProjectsIndexMaintained(t *testing.T) {
	s := testStore(t)
	if err := s.PutProject(project("project_1_a", "user-1")); err != nil {
		t.Fatal(err)
	}
	if err := s.PutProject(project("project_1_a", "user-1")); err != nil {
		t.Fatal(err)
	}

	entries, err := s.Index()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("index len = %d, want 1 (upsert, not append)", len(entries))
	}
}

func TestDeleteProjectRemovesIndexEntry(t *testing.T) {
	s := testStore(t)
	p := project("project_1_a", "user-1")
	if err := s.PutProject(p); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProject(p.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetProject(p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	entries, err := s.Index()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("index len = %d, want 0", len(entries))
	}
}

func TestStarredBucketRoundTrip(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetStarred("user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	bucket := project("starred_items_1700000000000", "user-1")
	bucket.Kind = types.KindStarred
	bucket.Name = "Starred Items"
	if err := s.PutStarred(bucket); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetStarred("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != types.KindStarred || got.Name != "Starred Items" {
		t.Errorf("got %+v", got)
	}

	// The bucket belongs to user-1 only.
	if _, err := s.GetStarred("user-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for other user", err)
	}
}

func TestListProjectsDeduplicatesStarredBucket(t *testing.T) {
	// The starred bucket is stored under both the reserved key and its own
	// project key; a listing must report it once.
	s := testStore(t)
	bucket := project("starred_items_1700000000000", "user-1")
	bucket.Kind = types.KindStarred
	if err := s.PutStarred(bucket); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	got, err := s.ListProjects("user-1", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestListProjectsScanWinsWhenIndexEmpty(t *testing.T) {
	// A document written without an index entry must still be found via the
	// raw prefix scan.
	s := testStore(t)
	p := project("project_orphan", "user-1")

	// Write the raw document directly, bypassing PutProject.
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := rawSet(s, projectKey(p.ID), data); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	got, err := s.ListProjects("user-1", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Errorf("got %+v, want the orphan document", got)
	}
}

func TestListProjectsScanWinsWhenIndexedDocsMissing(t *testing.T) {
	// Index entries whose documents no longer load contribute nothing; the
	// raw scan must still win in that case, not an empty index result.
	s := testStore(t)
	p := project("project_orphan", "user-1")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := rawSet(s, projectKey(p.ID), data); err != nil {
		t.Fatal(err)
	}

	// An index that only references a document that was never written.
	ghost, err := json.Marshal([]types.ProjectIndexEntry{{ID: "project_ghost", UserID: "user-1"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := rawSet(s, []byte(indexKey), ghost); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	got, err := s.ListProjects("user-1", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Errorf("got %+v, want the scanned document", got)
	}
}

func TestListProjectsSkipsMalformedRecords(t *testing.T) {
	s := testStore(t)
	if err := s.PutProject(project("project_ok", "user-1")); err != nil {
		t.Fatal(err)
	}
	if err := rawSet(s, projectKey("project_bad"), []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	got, err := s.ListProjects("user-1", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "project_ok" {
		t.Errorf("got %+v, want only the valid record", got)
	}
	if buf.Len() == 0 {
		t.Error("expected a warning about the malformed record")
	}
}
