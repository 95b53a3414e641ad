package ports

import (
	"context"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
)

// Lookups return (nil, nil) when the row does not exist; callers turn that
// into a typed not-found error.

type ProjectRepository interface {
	Insert(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type MediaRepository interface {
	// Insert, Update and Attach fail with apperr.ErrDuplicatePath when a
	// canonical media other than the written one already holds the path.
	Insert(ctx context.Context, m *models.Media) error
	Update(ctx context.Context, m *models.Media) error
	Attach(ctx context.Context, mediaID, projectID uuid.UUID) error

	Get(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RequestRepository interface {
	Insert(ctx context.Context, r *models.Request) error
	Get(ctx context.Context, id uuid.UUID) (*models.Request, error)
	// GetForUpdate locks the row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Request, error)
	ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID) ([]models.Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, resolvedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AddProposal is a no-op when the same (request, media) pair exists.
	AddProposal(ctx context.Context, p models.RequestMedia) error
	Proposals(ctx context.Context, requestID uuid.UUID) ([]models.RequestMedia, error)
	// RemoveProposal drops one proposal; a missing pair is not an error.
	RemoveProposal(ctx context.Context, requestID, mediaID uuid.UUID) error
	DeleteProposals(ctx context.Context, requestID uuid.UUID) error
	// DetachMedia drops every proposal referencing the media.
	DetachMedia(ctx context.Context, mediaID uuid.UUID) error
}

type CollaboratorRepository interface {
	Insert(ctx context.Context, c *models.Collaborator) error
	Get(ctx context.Context, id uuid.UUID) (*models.Collaborator, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddToProject(ctx context.Context, pc models.ProjectCollaborator) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectCollaborator, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	DeleteByCollaborator(ctx context.Context, collaboratorID uuid.UUID) error
}

type LinkRepository interface {
	// Insert fails with apperr.ErrDuplicateLink when the project already has the url.
	Insert(ctx context.Context, l *models.Link) error
	Get(ctx context.Context, id uuid.UUID) (*models.Link, error)
	Update(ctx context.Context, l *models.Link) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

// Store groups the repositories over one backing database.
type Store interface {
	Projects() ProjectRepository
	Media() MediaRepository
	Requests() RequestRepository
	Collaborators() CollaboratorRepository
	Links() LinkRepository

	// WithinTx runs fn against a transactional view of the store. Writes
	// made through tx are committed when fn returns nil and discarded
	// otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
