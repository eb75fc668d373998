package models

import "time"

// NoteMetadata is a lightweight representation of one vault file,
// returned by document-listing operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Basename  string    `json:"basename"` // filename without directory or .md extension
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
