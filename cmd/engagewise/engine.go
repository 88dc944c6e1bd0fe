// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/engagewise/engagewise/internal/localstore"
	"github.com/engagewise/engagewise/internal/outbox"
	"github.com/engagewise/engagewise/internal/projects"
	"github.com/engagewise/engagewise/internal/remotestore"
)

// engine bundles the opened storage layers behind one Close.
type engine struct {
	local   *localstore.Store
	remote  *remotestore.Store
	outbox  *outbox.Outbox
	manager *projects.Manager
}

// openEngine opens both stores and starts the outbox worker. Callers must
// Close; Close flushes queued remote writes before shutting anything down.
func openEngine() (*engine, error) {
	cfg := engineConfig()

	local, err := localstore.Open(cfg.LocalStore)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	remote, err := remotestore.Open(cfg.RemoteStore)
	if err != nil {
		local.Close()
		return nil, fmt.Errorf("opening remote store: %w", err)
	}

	ob := outbox.New(cfg.Outbox, os.Stderr)
	return &engine{
		local:   local,
		remote:  remote,
		outbox:  ob,
		manager: projects.NewManager(local, remote, ob, os.Stderr),
	}, nil
}

// Close drains the outbox and releases both stores. A flush timeout is
// reported but does not block the shutdown.
func (e *engine) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := e.outbox.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: queued remote writes did not finish: %v\n", err)
	}
	e.outbox.Close()

	if err := e.remote.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing remote store: %v\n", err)
	}
	if err := e.local.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing local store: %v\n", err)
	}
}
