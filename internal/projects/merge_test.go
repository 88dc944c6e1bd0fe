package projects

import (
	"reflect"
	"testing"
	"time"

	"github.com/engagewise/engagewise/pkg/types"
)

func proj(id, created string) types.Project {
	return types.Project{ID: id, Name: id, UserID: "user-1", CreatedAt: created}
}

func ids(projects []types.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func TestReconcileRemoteWins(t *testing.T) {
	local := []types.Project{proj("a", ""), proj("b", "")}
	remoteA := proj("a", "")
	remoteA.Name = "remote a"
	remote := []types.Project{remoteA, proj("c", "")}

	merged, backfill := Reconcile(local, remote)

	if !reflect.DeepEqual(ids(merged), []string{"a", "c", "b"}) {
		t.Errorf("merged ids = %v", ids(merged))
	}
	// The shared id carries the remote copy's fields.
	if merged[0].Name != "remote a" || merged[0].Source != SourceRemote {
		t.Errorf("merged[0] = %+v, want the remote copy", merged[0])
	}
	if merged[2].Source != SourceLocal {
		t.Errorf("merged[2].Source = %q", merged[2].Source)
	}
	if !reflect.DeepEqual(backfill, []string{"b"}) {
		t.Errorf("backfill = %v, want [b]", backfill)
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	merged, backfill := Reconcile(nil, nil)
	if len(merged) != 0 || len(backfill) != 0 {
		t.Errorf("got %v, %v", merged, backfill)
	}

	merged, backfill = Reconcile([]types.Project{proj("a", "")}, nil)
	if len(merged) != 1 || len(backfill) != 1 {
		t.Errorf("local only: %v, %v", merged, backfill)
	}

	merged, backfill = Reconcile(nil, []types.Project{proj("a", "")})
	if len(merged) != 1 || len(backfill) != 0 {
		t.Errorf("remote only: %v, %v", merged, backfill)
	}
}

func TestSortByCreatedDesc(t *testing.T) {
	projects := []types.Project{
		proj("old", "2026-01-01T00:00:00Z"),
		proj("bad", "garbage"),
		proj("new", "2026-03-01T00:00:00Z"),
		proj("missing", ""),
	}
	SortByCreatedDesc(projects)
	got := ids(projects)
	if got[0] != "new" || got[1] != "old" {
		t.Errorf("order = %v", got)
	}
	// Epoch-sorted entries keep their relative order (stable sort).
	if got[2] != "bad" || got[3] != "missing" {
		t.Errorf("epoch entries reordered: %v", got)
	}
}

func TestDemoProjectsShape(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	demos := DemoProjects(now, "user-1")
	if len(demos) != 2 {
		t.Fatalf("len = %d, want 2", len(demos))
	}
	// First demo is today, second a day older, so the listing shows them
	// in this order after the newest-first sort.
	if !demos[0].CreatedTime().After(demos[1].CreatedTime()) {
		t.Error("demo_study_1 should be newer than demo_study_2")
	}
	for _, d := range demos {
		if d.Source != SourceDemo {
			t.Errorf("source = %q", d.Source)
		}
		if d.StarredCount() == 0 {
			t.Errorf("demo %s has no starred recommendations to render", d.ID)
		}
	}
}

func TestSessionToggleStar(t *testing.T) {
	sess := NewSession(testUser(), types.UserInput{}, nil)

	if got := sess.ToggleStar("a"); !got {
		t.Error("first toggle should star")
	}
	if got := sess.ToggleStar("a"); got {
		t.Error("second toggle should unstar")
	}
	sess.Star("b")
	sess.Star("b")
	sess.ToggleStar("c")

	want := []string{"b", "c"}
	if !reflect.DeepEqual(sess.StarredTitles(), want) {
		t.Errorf("starred = %v, want %v", sess.StarredTitles(), want)
	}
	if sess.IsStarred("a") {
		t.Error("a should be unstarred")
	}
}
