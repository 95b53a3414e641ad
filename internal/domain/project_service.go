package domain

import (
	"context"
	"strings"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

type ProjectService struct {
	store  ports.Store
	media  *MediaService
	notify ports.Notifier
	log    *logger.ZapLogger
}

func NewProjectService(store ports.Store, media *MediaService, notify ports.Notifier, log *logger.ZapLogger) *ProjectService {
	return &ProjectService{store: store, media: media, notify: notify, log: log}
}

var _ ports.ProjectService = (*ProjectService)(nil)

// Create always inserts a new project, even when one with the same title,
// description and bibtex exists.
func (s *ProjectService) Create(ctx context.Context, in models.Project) (*models.Project, error) {
	p := in
	p.ID = uuid.New()
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, apperr.NullField("title")
	}
	if err := s.store.Projects().Insert(ctx, &p); err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "project created",
		Fields:  map[string]any{"projectID": p.ID.String()},
	})
	s.notify.Broadcast(p.ID)
	return &p, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return RequireProject(ctx, s.store, id)
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	list, err := s.store.Projects().List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Project{}
	}
	return list, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in models.Project) (*models.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.NullField("title")
	}
	p := in
	p.ID = id
	p.Title = strings.TrimSpace(in.Title)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, id); err != nil {
			return err
		}
		return tx.Projects().Update(ctx, &p)
	})
	if err != nil {
		return nil, err
	}
	s.notify.Broadcast(id)
	return &p, nil
}

// Delete removes the project aggregate in one transaction and then drops
// the blobs of every media it owned or had staged.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	var blobs []uuid.UUID
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, id); err != nil {
			return err
		}
		var err error
		blobs, err = purgeProject(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.media.discardBlobs(ctx, blobs...)

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "project deleted",
		Fields:  map[string]any{"projectID": id.String(), "media": len(blobs)},
	})
	s.notify.Broadcast(id)
	return nil
}

type CollaboratorService struct {
	store  ports.Store
	media  *MediaService
	notify ports.Notifier
	log    *logger.ZapLogger
}

func NewCollaboratorService(store ports.Store, media *MediaService, notify ports.Notifier, log *logger.ZapLogger) *CollaboratorService {
	return &CollaboratorService{store: store, media: media, notify: notify, log: log}
}

var _ ports.CollaboratorService = (*CollaboratorService)(nil)

func (s *CollaboratorService) Create(ctx context.Context, name string) (*models.Collaborator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.NullField("name")
	}
	c := &models.Collaborator{ID: uuid.New(), Name: name}
	if err := s.store.Collaborators().Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollaboratorService) Get(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	return RequireCollaborator(ctx, s.store, id)
}

func (s *CollaboratorService) AddToProject(ctx context.Context, projectID, collaboratorID uuid.UUID, role string) (*models.ProjectCollaborator, error) {
	pc := models.ProjectCollaborator{ProjectID: projectID, CollaboratorID: collaboratorID, Role: strings.TrimSpace(role)}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := RequireCollaborator(ctx, tx, collaboratorID); err != nil {
			return err
		}
		return tx.Collaborators().AddToProject(ctx, pc)
	})
	if err != nil {
		return nil, err
	}
	s.notify.Broadcast(projectID)
	return &pc, nil
}

func (s *CollaboratorService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectCollaborator, error) {
	if _, err := RequireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	list, err := s.store.Collaborators().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.ProjectCollaborator{}
	}
	return list, nil
}

// Delete removes the collaborator, its project associations and the
// requests it filed. Projects are never deleted here.
func (s *CollaboratorService) Delete(ctx context.Context, id uuid.UUID) error {
	var (
		blobs    []uuid.UUID
		filed    int
		projects = map[uuid.UUID]struct{}{}
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireCollaborator(ctx, tx, id); err != nil {
			return err
		}
		reqs, err := tx.Requests().ListByCollaborator(ctx, id)
		if err != nil {
			return err
		}
		filed = len(reqs)
		for _, r := range reqs {
			staged, err := purgeRequest(ctx, tx, r.ID)
			if err != nil {
				return err
			}
			blobs = append(blobs, staged...)
			projects[r.ProjectID] = struct{}{}
		}
		if err := tx.Collaborators().DeleteByCollaborator(ctx, id); err != nil {
			return err
		}
		return tx.Collaborators().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.media.discardBlobs(ctx, blobs...)

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "collaborator deleted",
		Fields:  map[string]any{"collaboratorID": id.String(), "requests": filed},
	})
	for pid := range projects {
		s.notify.Broadcast(pid)
	}
	return nil
}

type LinkService struct {
	store  ports.Store
	notify ports.Notifier
}

func NewLinkService(store ports.Store, notify ports.Notifier) *LinkService {
	return &LinkService{store: store, notify: notify}
}

var _ ports.LinkService = (*LinkService)(nil)

func (s *LinkService) Add(ctx context.Context, in models.Link) (*models.Link, error) {
	l := in
	l.ID = uuid.New()
	l.URL = strings.TrimSpace(l.URL)
	if l.URL == "" {
		return nil, apperr.NullField("url")
	}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, l.ProjectID); err != nil {
			return err
		}
		return tx.Links().Insert(ctx, &l)
	})
	if err != nil {
		return nil, err
	}
	s.notify.Broadcast(l.ProjectID)
	return &l, nil
}

func (s *LinkService) Edit(ctx context.Context, in models.Link) (*models.Link, error) {
	l := in
	l.URL = strings.TrimSpace(l.URL)
	if l.URL == "" {
		return nil, apperr.NullField("url")
	}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := RequireLink(ctx, tx, l.ID)
		if err != nil {
			return err
		}
		l.ProjectID = cur.ProjectID
		return tx.Links().Update(ctx, &l)
	})
	if err != nil {
		return nil, err
	}
	s.notify.Broadcast(l.ProjectID)
	return &l, nil
}

func (s *LinkService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Link, error) {
	if _, err := RequireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	list, err := s.store.Links().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Link{}
	}
	return list, nil
}

func (s *LinkService) Delete(ctx context.Context, id uuid.UUID) error {
	var l *models.Link
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		if l, err = RequireLink(ctx, tx, id); err != nil {
			return err
		}
		return tx.Links().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.notify.Broadcast(l.ProjectID)
	return nil
}
