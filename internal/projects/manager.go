// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package projects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/engagewise/engagewise/internal/localstore"
	"github.com/engagewise/engagewise/internal/outbox"
	"github.com/engagewise/engagewise/internal/remotestore"
	"github.com/engagewise/engagewise/pkg/types"
)

// Validation failures surfaced synchronously, before any I/O.
var (
	ErrNameRequired      = errors.New("project name is required")
	ErrNotSignedIn       = errors.New("no user is signed in")
	ErrNoRecommendations = errors.New("no recommendations to save")
)

// Manager coordinates the two storage layers. Every write lands in the
// local store synchronously; the matching remote write goes through the
// outbox and its failure never rolls back or re-surfaces.
type Manager struct {
	local  *localstore.Store
	remote *remotestore.Store
	outbox *outbox.Outbox
	w      io.Writer

	// now is a test seam for timestamps and generated ids.
	now func() time.Time
}

// NewManager wires a manager over the two stores and the outbox.
// Warnings go to w.
func NewManager(local *localstore.Store, remote *remotestore.Store, ob *outbox.Outbox, w io.Writer) *Manager {
	return &Manager{
		local:  local,
		remote: remote,
		outbox: ob,
		w:      w,
		now:    time.Now,
	}
}

func (m *Manager) timestamp() string {
	return m.now().UTC().Format(time.RFC3339)
}

func (m *Manager) newProjectID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("project_%d_%s", m.now().UnixMilli(), suffix)
}

func (m *Manager) newStarredID() string {
	return fmt.Sprintf("%s%d", types.StarredProjectIDPrefix, m.now().UnixMilli())
}

// SaveProject persists the session's shortlist as a named project. The
// starred flag on each minimized recommendation reflects the session's
// star set. The local write is the durability guarantee the caller sees;
// the remote mirror is enqueued and fire-and-forget.
func (m *Manager) SaveProject(ctx context.Context, sess *Session, name, description string) (*types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if sess.User == nil || sess.User.UID == "" {
		return nil, ErrNotSignedIn
	}
	if len(sess.Recommendations) == 0 {
		return nil, ErrNoRecommendations
	}

	recs := make([]types.Recommendation, 0, len(sess.Recommendations))
	for _, study := range sess.Recommendations {
		recs = append(recs, types.Minimize(study, sess.IsStarred(study.Title())))
	}

	input := sess.Input
	now := m.timestamp()
	project := types.Project{
		ID:              m.newProjectID(),
		Name:            name,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
		UserID:          sess.User.UID,
		Kind:            types.KindSaved,
		Recommendations: recs,
		UserInput:       &input,
	}

	if err := m.local.PutProject(project); err != nil {
		return nil, fmt.Errorf("saving project locally: %w", err)
	}

	m.mirrorProject(project)
	return &project, nil
}

// mirrorProject records a remote write of the full project document.
func (m *Manager) mirrorProject(project types.Project) {
	m.outbox.Enqueue("mirror project "+project.ID, func(ctx context.Context) error {
		return m.remote.Put(ctx, project)
	})
}

// AddToStarred adds a study to the user's standing starred-items bucket:
// the local bucket is found or created synchronously for immediate
// feedback, then the remote bucket is updated in the background under a
// transactional check-then-write. Deduplication is by title,
// first-write-wins; an existing entry's fields are never merged.
func (m *Manager) AddToStarred(ctx context.Context, sess *Session, study types.StudyRecord) error {
	if sess.User == nil || sess.User.UID == "" {
		return ErrNotSignedIn
	}
	uid := sess.User.UID
	title := study.Title()
	rec := types.Minimize(study, true)

	bucket, err := m.local.GetStarred(uid)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
		now := m.timestamp()
		bucket = &types.Project{
			ID:              m.newStarredID(),
			Name:            "Starred Items",
			Description:     "Recommendations you've marked with a star",
			CreatedAt:       now,
			UpdatedAt:       now,
			UserID:          uid,
			Kind:            types.KindStarred,
			Recommendations: []types.Recommendation{rec},
		}
		if err := m.local.PutStarred(*bucket); err != nil {
			return fmt.Errorf("creating starred bucket locally: %w", err)
		}
	case err != nil:
		return fmt.Errorf("reading starred bucket: %w", err)
	default:
		if !bucket.HasRecommendation(title) {
			bucket.Recommendations = append(bucket.Recommendations, rec)
			bucket.UpdatedAt = m.timestamp()
			if err := m.local.PutStarred(*bucket); err != nil {
				return fmt.Errorf("updating starred bucket locally: %w", err)
			}
		}
	}

	localID := bucket.ID
	m.outbox.Enqueue("star "+title, func(ctx context.Context) error {
		return m.remote.UpdateStarred(ctx, uid, func(remoteBucket *types.Project) (*types.Project, error) {
			if remoteBucket == nil {
				// First star for this user remotely; reuse the local
				// bucket's id so the two copies reconcile as one.
				now := m.timestamp()
				return &types.Project{
					ID:              localID,
					Name:            "Starred Items",
					Description:     "Recommendations you've marked with a star",
					CreatedAt:       now,
					UpdatedAt:       now,
					UserID:          uid,
					Kind:            types.KindStarred,
					Recommendations: []types.Recommendation{rec},
				}, nil
			}
			if remoteBucket.HasRecommendation(title) {
				return nil, nil
			}
			remoteBucket.Recommendations = append(remoteBucket.Recommendations, rec)
			remoteBucket.UpdatedAt = m.timestamp()
			return remoteBucket, nil
		})
	})
	return nil
}

// RemoveFromStarred removes a study from the starred bucket by title in
// both stores. The remote removal is transactional so concurrent sessions
// cannot lose each other's updates.
func (m *Manager) RemoveFromStarred(ctx context.Context, sess *Session, study types.StudyRecord) error {
	if sess.User == nil || sess.User.UID == "" {
		return ErrNotSignedIn
	}
	uid := sess.User.UID
	title := study.Title()

	bucket, err := m.local.GetStarred(uid)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
		// Nothing starred locally; still propagate the removal remotely.
	case err != nil:
		return fmt.Errorf("reading starred bucket: %w", err)
	default:
		kept := bucket.Recommendations[:0]
		for _, r := range bucket.Recommendations {
			if r.Title() != title {
				kept = append(kept, r)
			}
		}
		if len(kept) != len(bucket.Recommendations) {
			bucket.Recommendations = kept
			bucket.UpdatedAt = m.timestamp()
			if err := m.local.PutStarred(*bucket); err != nil {
				return fmt.Errorf("updating starred bucket locally: %w", err)
			}
		}
	}

	m.outbox.Enqueue("unstar "+title, func(ctx context.Context) error {
		return m.remote.UpdateStarred(ctx, uid, func(remoteBucket *types.Project) (*types.Project, error) {
			if remoteBucket == nil || !remoteBucket.HasRecommendation(title) {
				return nil, nil
			}
			kept := remoteBucket.Recommendations[:0]
			for _, r := range remoteBucket.Recommendations {
				if r.Title() != title {
					kept = append(kept, r)
				}
			}
			remoteBucket.Recommendations = kept
			remoteBucket.UpdatedAt = m.timestamp()
			return remoteBucket, nil
		})
	})
	return nil
}

// LoadAllProjects merges the user's projects from both stores: remote wins
// by id, local-only entries are kept and queued for backfill, and a failed
// read from either store degrades to that source contributing nothing.
// When both stores are empty the fixed demo projects are returned so the
// caller never renders an empty list. The result is sorted by creation
// time descending; unparsable timestamps sort as oldest.
func (m *Manager) LoadAllProjects(ctx context.Context, userID string) ([]types.Project, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}

	local, err := m.local.ListProjects(userID, m.w)
	if err != nil {
		fmt.Fprintf(m.w, "warning: local store read failed: %v\n", err)
		local = nil
	}

	remote, err := m.remote.ListByUser(ctx, userID, m.w)
	if err != nil {
		fmt.Fprintf(m.w, "warning: remote store read failed: %v\n", err)
		remote = nil
	}

	merged, backfill := Reconcile(local, remote)

	// Local-only projects exist because a mirror write never landed;
	// queue them again.
	if len(backfill) > 0 {
		byID := make(map[string]types.Project, len(local))
		for _, p := range local {
			byID[p.ID] = p
		}
		for _, id := range backfill {
			if p, ok := byID[id]; ok {
				m.mirrorProject(p)
			}
		}
	}

	if len(merged) == 0 {
		merged = DemoProjects(m.now(), userID)
	}

	SortByCreatedDesc(merged)
	return merged, nil
}

// LoadProject loads one project by id, local copy first for immediate
// availability, then the remote copy.
func (m *Manager) LoadProject(ctx context.Context, userID, id string) (*types.Project, error) {
	if p, err := m.local.GetProject(id); err == nil && p.UserID == userID {
		p.Source = SourceLocal
		return p, nil
	} else if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		fmt.Fprintf(m.w, "warning: local store read failed: %v\n", err)
	}

	p, err := m.remote.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, remotestore.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	p.Source = SourceRemote
	return p, nil
}

// DeleteProject removes a project from the remote store (authoritative for
// identity) and keeps the local copy consistent.
func (m *Manager) DeleteProject(ctx context.Context, userID, id string) error {
	if err := m.local.DeleteProject(id); err != nil {
		fmt.Fprintf(m.w, "warning: local delete of %s failed: %v\n", id, err)
	}
	if err := m.remote.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}

// StarredRecommendations returns the starred subset of a project's
// recommendation list, preserving order.
func StarredRecommendations(p types.Project) []types.Recommendation {
	var starred []types.Recommendation
	for _, rec := range p.Recommendations {
		if rec.IsStarred {
			starred = append(starred, rec)
		}
	}
	return starred
}
