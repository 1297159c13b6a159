// Package video provides the video record domain entity.
package video

import (
	"strings"
	"time"
)

// Content is the binary payload of a video as it was imported.
type Content struct {
	FileName string // Original file name (part of the dedup key)
	MIMEType string // Sniffed MIME type
	Data     []byte // Raw bytes
}

// Size returns the content size in bytes.
func (c Content) Size() int64 {
	return int64(len(c.Data))
}

// Key identifies content for duplicate detection.
type Key struct {
	FileName string
	Size     int64
}

// Key returns the dedup key of the content.
func (c Content) Key() Key {
	return Key{FileName: c.FileName, Size: c.Size()}
}

// Record represents a persisted video in the library.
type Record struct {
	ID        string    // Opaque, immutable
	Name      string    // Display name (mutable)
	Content   Content   // Binary payload, never touched by rename
	CreatedAt time.Time // Import time
}

// Key returns the dedup key of the record's content.
func (r *Record) Key() Key {
	return r.Content.Key()
}

// WithName returns a copy of the record with only the display name changed.
// The content bytes are shared, not copied.
func (r Record) WithName(name string) Record {
	r.Name = name
	return r
}

// DisplayNameFromFile derives the initial display name from a file name by
// dropping its extension.
func DisplayNameFromFile(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// Blob is a content payload re-wrapped with a display name for playback.
type Blob struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Blob returns the record's content re-wrapped with its display name.
func (r *Record) Blob() Blob {
	return Blob{
		Name:     r.Name,
		MIMEType: r.Content.MIMEType,
		Data:     r.Content.Data,
	}
}
