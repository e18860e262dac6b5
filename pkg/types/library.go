// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Entry is a saved reference in the user's library.
type Entry struct {
	// ID is a UUID assigned on insert when the caller leaves it empty.
	ID string `json:"id" yaml:"id"`

	// Text is the formatted reference as the user saved it.
	Text string `json:"text" yaml:"text"`

	// Type is the source type; unknown types are stored as SourceOther.
	Type SourceType `json:"type" yaml:"type"`

	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	ProjectID string    `json:"projectId,omitempty" yaml:"project_id,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Project groups library entries, typically one per academic work.
type Project struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Backup is the portable snapshot of a library.
type Backup struct {
	References []Entry   `json:"references" yaml:"references"`
	Projects   []Project `json:"projects" yaml:"projects"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exported_at"`
	Version    string    `json:"version" yaml:"version"`
}
