package models

import (
	"time"

	"github.com/google/uuid"
)

// Media is a binary asset. ProjectID is nil while the media is staged under a
// request and set once it is canonical.
type Media struct {
	ID        uuid.UUID  `db:"id" json:"mediaId"`
	Name      string     `db:"name" json:"name"`
	Path      string     `db:"path" json:"path"`
	ProjectID *uuid.UUID `db:"project_id" json:"projectId,omitempty"`
	Seq       int64      `db:"seq" json:"-"` // insertion order
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}

func (m *Media) Canonical() bool { return m.ProjectID != nil }

// MediaFileContent is the transport triple for binary content; raw bytes
// never travel inside a structured response.
type MediaFileContent struct {
	ID      uuid.UUID `json:"mediaId"`
	Content string    `json:"content"` // base64 (std encoding)
	Name    string    `json:"name"`
}

// Upload is content handed in by a caller before it becomes a Media.
type Upload struct {
	Name     string
	Filename string
	Content  []byte
}
