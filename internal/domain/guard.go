package domain

import (
	"context"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/google/uuid"
)

// Existence checks shared by every service. They take the store explicitly
// so a transaction can pass its own view.

func RequireProject(ctx context.Context, st ports.Store, id uuid.UUID) (*models.Project, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	p, err := st.Projects().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound(apperr.ReasonProject, id)
	}
	return p, nil
}

func RequireMedia(ctx context.Context, st ports.Store, id uuid.UUID) (*models.Media, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	m, err := st.Media().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound(apperr.ReasonMedia, id)
	}
	return m, nil
}

func RequireRequest(ctx context.Context, st ports.Store, id uuid.UUID) (*models.Request, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	r, err := st.Requests().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound(apperr.ReasonRequest, id)
	}
	return r, nil
}

// RequireOpenRequest locks the request for the enclosing transaction and
// fails unless it is still open.
func RequireOpenRequest(ctx context.Context, tx ports.Store, id uuid.UUID) (*models.Request, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	r, err := tx.Requests().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound(apperr.ReasonRequest, id)
	}
	if !r.Open() {
		return nil, apperr.ErrRequestNotOpen
	}
	return r, nil
}

func RequireCollaborator(ctx context.Context, st ports.Store, id uuid.UUID) (*models.Collaborator, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	c, err := st.Collaborators().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound(apperr.ReasonCollaborator, id)
	}
	return c, nil
}

func RequireLink(ctx context.Context, st ports.Store, id uuid.UUID) (*models.Link, error) {
	if id == uuid.Nil {
		return nil, apperr.ErrNullID
	}
	l, err := st.Links().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperr.NotFound(apperr.ReasonLink, id)
	}
	return l, nil
}
