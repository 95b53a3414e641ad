package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `db:"id" json:"projectId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Bibtex      *string   `db:"bibtex" json:"bibtex,omitempty"`
	Archived    bool      `db:"archived" json:"archived"`
	Template    *string   `db:"template_name" json:"templateName,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type Link struct {
	ID        uuid.UUID `db:"id" json:"linkId"`
	ProjectID uuid.UUID `db:"project_id" json:"projectId"`
	Name      string    `db:"name" json:"name"`
	URL       string    `db:"url" json:"url"`
}

type Collaborator struct {
	ID   uuid.UUID `db:"id" json:"collaboratorId"`
	Name string    `db:"name" json:"name"`
}

// ProjectCollaborator is the ProjectsToCollaborators association.
type ProjectCollaborator struct {
	ProjectID      uuid.UUID `db:"project_id" json:"projectId"`
	CollaboratorID uuid.UUID `db:"collaborator_id" json:"collaboratorId"`
	Role           string    `db:"role" json:"role"`
}
