package domain_test

import (
	"testing"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateAlwaysInserts(t *testing.T) {
	e := newEnv(t)
	a := e.project(t, "Same")
	b := e.project(t, "Same")
	assert.NotEqual(t, a.ID, b.ID)

	_, err := e.projects.Create(e.ctx, models.Project{Title: "  "})
	assert.ErrorIs(t, err, apperr.ErrNullField)
	assert.Zero(t, e.notify.count())

	c, err := e.projects.Create(e.ctx, models.Project{Title: "Announced"})
	require.NoError(t, err)
	assert.Equal(t, 1, e.notify.count())
	assert.Equal(t, c.ID, e.notify.last())

	list, err := e.projects.List(e.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestProjectUpdate(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "Old")
	e.notify.reset()

	bib := "@article{x}"
	got, err := e.projects.Update(e.ctx, p.ID, models.Project{Title: "New", Bibtex: &bib, Archived: true})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.True(t, got.Archived)
	assert.Equal(t, 1, e.notify.count())

	stored, err := e.projects.Get(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Title)
	require.NotNil(t, stored.Bibtex)
	assert.Equal(t, bib, *stored.Bibtex)

	_, err = e.projects.Update(e.ctx, uuid.New(), models.Project{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
}

func TestProjectDeleteCascades(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	keep := e.project(t, "Keep")
	c := e.collaborator(t, "ann")

	m := e.put(t, p.ID, "a.png", []byte("a"))
	kept := e.put(t, keep.ID, "b.png", []byte("b"))
	req := e.file(t, p.ID, c.ID)
	staged := e.stage(t, req.ID, "staged.png", []byte("s"))
	_, err := e.collabs.AddToProject(e.ctx, p.ID, c.ID, "editor")
	require.NoError(t, err)
	_, err = e.links.Add(e.ctx, models.Link{ProjectID: p.ID, Name: "site", URL: "https://example.org"})
	require.NoError(t, err)

	require.NoError(t, e.projects.Delete(e.ctx, p.ID))

	_, err = e.projects.Get(e.ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	_, err = e.requests.Get(e.ctx, req.ID)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
	for _, id := range []uuid.UUID{m.ID, staged.ID} {
		_, err = e.media.Get(e.ctx, id)
		assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	}

	keys, err := e.blobs.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	_, err = e.collabs.Get(e.ctx, c.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"b.png"}, e.listPaths(t, keep.ID))
	_, err = e.media.Content(e.ctx, kept.ID)
	assert.NoError(t, err)

	// the freed path is available again
	e.put(t, keep.ID, "a.png", []byte("a"))

	assert.ErrorIs(t, e.projects.Delete(e.ctx, p.ID), apperr.ErrProjectNotFound)
}

func TestCollaboratorDeleteKeepsProjects(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	other := e.collaborator(t, "bob")
	_, err := e.collabs.AddToProject(e.ctx, p.ID, c.ID, "editor")
	require.NoError(t, err)
	_, err = e.collabs.AddToProject(e.ctx, p.ID, other.ID, "viewer")
	require.NoError(t, err)

	req := e.file(t, p.ID, c.ID)
	staged := e.stage(t, req.ID, "s.png", []byte("s"))
	kept := e.file(t, p.ID, other.ID)

	require.NoError(t, e.collabs.Delete(e.ctx, c.ID))

	_, err = e.projects.Get(e.ctx, p.ID)
	assert.NoError(t, err)
	_, err = e.requests.Get(e.ctx, req.ID)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
	_, err = e.requests.Get(e.ctx, kept.ID)
	assert.NoError(t, err)
	_, err = e.media.Get(e.ctx, staged.ID)
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)

	members, err := e.collabs.ListByProject(e.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, other.ID, members[0].CollaboratorID)

	assert.ErrorIs(t, e.collabs.Delete(e.ctx, c.ID), apperr.ErrCollaboratorNotFound)
}

func TestAddToProject(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")

	_, err := e.collabs.AddToProject(e.ctx, p.ID, c.ID, "viewer")
	require.NoError(t, err)
	pc, err := e.collabs.AddToProject(e.ctx, p.ID, c.ID, "editor")
	require.NoError(t, err)
	assert.Equal(t, "editor", pc.Role)

	members, err := e.collabs.ListByProject(e.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "editor", members[0].Role)

	_, err = e.collabs.AddToProject(e.ctx, uuid.New(), c.ID, "")
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	_, err = e.collabs.AddToProject(e.ctx, p.ID, uuid.New(), "")
	assert.ErrorIs(t, err, apperr.ErrCollaboratorNotFound)
	_, err = e.collabs.Create(e.ctx, " ")
	assert.ErrorIs(t, err, apperr.ErrNullField)
}

func TestLinks(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")

	l, err := e.links.Add(e.ctx, models.Link{ProjectID: p.ID, Name: "repo", URL: "https://git.example/p"})
	require.NoError(t, err)

	_, err = e.links.Add(e.ctx, models.Link{ProjectID: p.ID, Name: "again", URL: "https://git.example/p"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateLink)
	_, err = e.links.Add(e.ctx, models.Link{ProjectID: uuid.New(), URL: "https://x"})
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	_, err = e.links.Add(e.ctx, models.Link{ProjectID: p.ID})
	assert.ErrorIs(t, err, apperr.ErrNullField)

	e.notify.reset()
	got, err := e.links.Edit(e.ctx, models.Link{ID: l.ID, Name: "source", URL: "https://git.example/q"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ProjectID)
	assert.Equal(t, "source", got.Name)
	assert.Equal(t, 1, e.notify.count())

	_, err = e.links.Edit(e.ctx, models.Link{ID: uuid.New(), URL: "https://x"})
	assert.ErrorIs(t, err, apperr.ErrLinkNotFound)

	list, err := e.links.ListByProject(e.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "https://git.example/q", list[0].URL)

	require.NoError(t, e.links.Delete(e.ctx, l.ID))
	assert.ErrorIs(t, e.links.Delete(e.ctx, l.ID), apperr.ErrLinkNotFound)
}
