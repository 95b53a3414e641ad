package domain_test

import (
	"context"
	"sync"
	"testing"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/domain"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/infra"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type recorder struct {
	mu     sync.Mutex
	events []uuid.UUID
}

func (r *recorder) Broadcast(projectID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, projectID)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return uuid.Nil
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type env struct {
	ctx      context.Context
	store    *infra.MemoryStore
	blobs    *infra.BillyBlobStore
	notify   *recorder
	media    *domain.MediaService
	requests *domain.RequestService
	projects *domain.ProjectService
	collabs  *domain.CollaboratorService
	links    *domain.LinkService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	zl := logger.NewZapLogger(zap.NewNop().Sugar())
	e := &env{
		ctx:    context.Background(),
		store:  infra.NewMemoryStore(),
		blobs:  infra.NewBillyBlobStore(memfs.New()),
		notify: &recorder{},
	}
	e.media = domain.NewMediaService(e.store, e.blobs, e.notify, zl)
	e.requests = domain.NewRequestService(e.store, e.media, e.notify, zl)
	e.projects = domain.NewProjectService(e.store, e.media, e.notify, zl)
	e.collabs = domain.NewCollaboratorService(e.store, e.media, e.notify, zl)
	e.links = domain.NewLinkService(e.store, e.notify)
	return e
}

func (e *env) project(t *testing.T, title string) *models.Project {
	t.Helper()
	p, err := e.projects.Create(e.ctx, models.Project{Title: title, Description: "desc"})
	require.NoError(t, err)
	e.notify.reset()
	return p
}

func (e *env) collaborator(t *testing.T, name string) *models.Collaborator {
	t.Helper()
	c, err := e.collabs.Create(e.ctx, name)
	require.NoError(t, err)
	return c
}

func (e *env) put(t *testing.T, projectID uuid.UUID, filename string, data []byte) *models.Media {
	t.Helper()
	m, err := e.media.Put(e.ctx, projectID, models.Upload{Filename: filename, Content: data})
	require.NoError(t, err)
	return m
}

func paths(list []models.Media) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Path
	}
	return out
}
