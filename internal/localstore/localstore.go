// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package localstore persists projects in an embedded BadgerDB key-value
// store. It is the availability layer: writes here complete synchronously
// before any remote mirror write is attempted.
//
// Key layout follows the original client convention: one index key holding
// a JSON summary array, one key per project holding the full document, and
// one reserved key holding the starred-items bucket directly.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/engagewise/engagewise/pkg/types"
)

const (
	keyPrefix  = "engagewise_"
	indexKey   = keyPrefix + "projects_index"
	starredKey = keyPrefix + "starred_items"
)

// ErrNotFound is returned when a project id has no local document.
var ErrNotFound = errors.New("project not found")

// Store is a BadgerDB-backed project store.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store at cfg.Dir.
func Open(cfg types.LocalStoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data/local"
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func projectKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// PutProject writes the full project document and upserts its index entry
// in a single transaction.
func (s *Store) PutProject(p types.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project %s: %w", p.ID, err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(projectKey(p.ID), data); err != nil {
			return fmt.Errorf("set project: %w", err)
		}
		return upsertIndex(txn, p.IndexEntry())
	})
}

// GetProject loads one project by id. Returns ErrNotFound when absent.
func (s *Store) GetProject(id string) (*types.Project, error) {
	var p types.Project
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(projectKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get project: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project document, its index entry, and the
// reserved starred key when the deleted project is the starred bucket.
func (s *Store) DeleteProject(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(projectKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete project: %w", err)
		}
		if strings.HasPrefix(id, types.StarredProjectIDPrefix) {
			if err := txn.Delete([]byte(starredKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("delete starred key: %w", err)
			}
		}
		entries, err := readIndex(txn)
		if err != nil {
			return err
		}
		kept := entries[:0]
		for _, e := range entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		return writeIndex(txn, kept)
	})
}

// ListProjects returns all projects owned by userID. It prefers the index
// for ordering and membership, but falls back to a raw prefix scan when
// the index yields nothing, so documents written without an index entry
// are still found. Malformed documents are skipped with a warning on w.
func (s *Store) ListProjects(userID string, w io.Writer) ([]types.Project, error) {
	var (
		scanned []types.Project
		indexed []types.Project
	)

	err := s.db.View(func(txn *badger.Txn) error {
		// Raw scan of every project document under the prefix, dedup by id
		// (the starred bucket lives at both its own key and the reserved one).
		seen := make(map[string]bool)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			if string(item.Key()) == indexKey {
				continue
			}
			var p types.Project
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				fmt.Fprintf(w, "warning: skipping malformed local record %s: %v\n", item.Key(), err)
				continue
			}
			if p.UserID != userID || seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			scanned = append(scanned, p)
		}

		// Index-driven load.
		entries, err := readIndex(txn)
		if err != nil {
			fmt.Fprintf(w, "warning: local index unreadable, using raw scan: %v\n", err)
			return nil
		}
		for _, e := range entries {
			if e.UserID != userID {
				continue
			}
			item, err := txn.Get(projectKey(e.ID))
			if err != nil {
				continue
			}
			var p types.Project
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &p) }); err != nil {
				fmt.Fprintf(w, "warning: skipping malformed local record %s: %v\n", e.ID, err)
				continue
			}
			indexed = append(indexed, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The raw scan wins whenever the index yielded nothing for this user,
	// including index entries whose documents failed to load.
	if len(indexed) == 0 {
		return scanned, nil
	}
	return indexed, nil
}

// GetStarred returns the starred-items bucket for userID from the reserved
// key, or ErrNotFound when none exists or it belongs to another user.
func (s *Store) GetStarred(userID string) (*types.Project, error) {
	var p types.Project
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(starredKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get starred bucket: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotFound
	}
	return &p, nil
}

// PutStarred writes the starred-items bucket to the reserved key and, like
// any other project, to its own key and the index.
func (s *Store) PutStarred(p types.Project) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal starred bucket: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(starredKey), data); err != nil {
			return fmt.Errorf("set starred key: %w", err)
		}
		if err := txn.Set(projectKey(p.ID), data); err != nil {
			return fmt.Errorf("set project key: %w", err)
		}
		return upsertIndex(txn, p.IndexEntry())
	})
}

// Index returns the raw index entries.
func (s *Store) Index() ([]types.ProjectIndexEntry, error) {
	var entries []types.ProjectIndexEntry
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		entries, err = readIndex(txn)
		return err
	})
	return entries, err
}

func readIndex(txn *badger.Txn) ([]types.ProjectIndexEntry, error) {
	item, err := txn.Get([]byte(indexKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}
	var entries []types.ProjectIndexEntry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entries)
	})
	return entries, err
}

func writeIndex(txn *badger.Txn, entries []types.ProjectIndexEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return txn.Set([]byte(indexKey), data)
}

func upsertIndex(txn *badger.Txn, entry types.ProjectIndexEntry) error {
	entries, err := readIndex(txn)
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return writeIndex(txn, entries)
}
