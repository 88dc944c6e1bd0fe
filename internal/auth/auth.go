// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth defines the authentication collaborator boundary. The engine
// treats the observed user's UID as the tenant key for every storage
// operation and performs no operation before a non-nil user is observed.
// Sign-in and sign-up mechanics live outside this module.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/engagewise/engagewise/pkg/types"
)

// Provider exposes the signed-in identity and change notifications.
type Provider interface {
	// CurrentUser returns the signed-in user, or nil when nobody is.
	CurrentUser() *types.User

	// OnAuthChange registers cb and invokes it immediately with the
	// current user, then again on every identity change.
	OnAuthChange(cb func(*types.User))
}

// Static is a fixed-identity provider used by tests and one-shot commands.
type Static struct {
	mu   sync.Mutex
	user *types.User
	subs []func(*types.User)
}

// NewStatic returns a provider that reports user. A nil user means
// signed out.
func NewStatic(user *types.User) *Static {
	return &Static{user: user}
}

// CurrentUser implements Provider.
func (s *Static) CurrentUser() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// OnAuthChange implements Provider.
func (s *Static) OnAuthChange(cb func(*types.User)) {
	s.mu.Lock()
	s.subs = append(s.subs, cb)
	user := s.user
	s.mu.Unlock()
	cb(user)
}

// SetUser changes the identity and notifies subscribers.
func (s *Static) SetUser(user *types.User) {
	s.mu.Lock()
	s.user = user
	subs := append([]func(*types.User){}, s.subs...)
	s.mu.Unlock()
	for _, cb := range subs {
		cb(user)
	}
}

// Session file names inside the session directory.
const (
	uidFile         = "uid"
	emailFile       = "email"
	displayNameFile = "display-name"
)

// LoadSession reads the signed-in identity from a directory of plain-text
// files: uid (required), email, and display-name. A missing directory or
// missing uid file means nobody is signed in and returns a nil user.
func LoadSession(cfg types.SessionConfig) (*types.User, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".session"
	}

	uid, err := readSessionFile(dir, uidFile)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		return nil, nil
	}

	email, err := readSessionFile(dir, emailFile)
	if err != nil {
		return nil, err
	}
	name, err := readSessionFile(dir, displayNameFile)
	if err != nil {
		return nil, err
	}

	return &types.User{UID: uid, Email: email, DisplayName: name}, nil
}

func readSessionFile(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading session file %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
