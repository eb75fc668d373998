// Package storage defines the read-only vault file-system abstraction
// the heatmap scans. The heatmap never mutates documents; opening or
// creating notes is the host application's concern.
package storage

import "github.com/A11myt/obsidian-task-heatmap/internal/models"

// Provider is the document source collaborator: it enumerates Markdown
// documents and reads their content.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
}
