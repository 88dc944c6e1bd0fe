// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that fetch over the network.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "engagewise/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the study catalog source.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Source is the catalog location: an http(s) URL returning a JSON
	// array of StudyRecord, or a local file path.
	Source string `json:"source" yaml:"source"`

	// TopK is the shortlist size returned by the selector (default 4).
	TopK int `json:"top_k" yaml:"top_k"`
}

// LocalStoreConfig holds settings for the embedded local key-value store.
type LocalStoreConfig struct {
	// Dir is the BadgerDB data directory (default "data/local").
	Dir string `json:"dir" yaml:"dir"`
}

// RemoteStoreConfig holds settings for the remote document store.
type RemoteStoreConfig struct {
	// Path is the SQLite database path (default "data/remote/engagewise.db").
	Path string `json:"path" yaml:"path"`
}

// OutboxConfig holds settings for the background remote-mirror writer.
type OutboxConfig struct {
	// MaxRetries is the number of attempts per queued write (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SessionConfig holds settings for the authentication collaborator.
type SessionConfig struct {
	// Dir is the session directory holding uid, email, and display-name
	// files (default ".session/").
	Dir string `json:"dir" yaml:"dir"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Catalog     CatalogConfig     `json:"catalog" yaml:"catalog"`
	LocalStore  LocalStoreConfig  `json:"local_store" yaml:"local_store"`
	RemoteStore RemoteStoreConfig `json:"remote_store" yaml:"remote_store"`
	Outbox      OutboxConfig      `json:"outbox" yaml:"outbox"`
	Session     SessionConfig     `json:"session" yaml:"session"`
}
