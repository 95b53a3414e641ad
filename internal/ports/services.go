package ports

import (
	"context"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
)

type MediaService interface {
	Put(ctx context.Context, projectID uuid.UUID, up models.Upload) (*models.Media, error)
	Replace(ctx context.Context, mediaID uuid.UUID, up *models.Upload) (*models.Media, error)
	Edit(ctx context.Context, m models.Media) (*models.Media, error)
	Get(ctx context.Context, mediaID uuid.UUID) (*models.Media, error)
	Content(ctx context.Context, mediaID uuid.UUID) ([]byte, error)
	EncodedContent(ctx context.Context, mediaID uuid.UUID) (*models.MediaFileContent, error)
	ImagesByProject(ctx context.Context, projectID uuid.UUID) ([]models.MediaFileContent, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Media, error)
	Delete(ctx context.Context, mediaID uuid.UUID) (*models.Media, error)
}

type RequestWorkflow interface {
	File(ctx context.Context, projectID, collaboratorID uuid.UUID, description string) (*models.Request, error)
	Get(ctx context.Context, requestID uuid.UUID) (*models.Request, error)
	ProposeAdd(ctx context.Context, requestID uuid.UUID, up models.Upload) (*models.Media, error)
	ProposeRemove(ctx context.Context, requestID, mediaID uuid.UUID) (*models.Media, error)
	Withdraw(ctx context.Context, requestID, mediaID uuid.UUID) error
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Request, error)
	ListForRequest(ctx context.Context, requestID uuid.UUID) (*models.RequestProposals, error)
	Resolve(ctx context.Context, requestID uuid.UUID, decision models.Decision) (*models.Request, error)
}

type ProjectService interface {
	Create(ctx context.Context, p models.Project) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id uuid.UUID, p models.Project) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CollaboratorService interface {
	Create(ctx context.Context, name string) (*models.Collaborator, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Collaborator, error)
	AddToProject(ctx context.Context, projectID, collaboratorID uuid.UUID, role string) (*models.ProjectCollaborator, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectCollaborator, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LinkService interface {
	Add(ctx context.Context, l models.Link) (*models.Link, error)
	Edit(ctx context.Context, l models.Link) (*models.Link, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Link, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
