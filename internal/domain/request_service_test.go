package domain_test

import (
	"testing"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/domain"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) file(t *testing.T, projectID, collaboratorID uuid.UUID) *models.Request {
	t.Helper()
	req, err := e.requests.File(e.ctx, projectID, collaboratorID, "update media")
	require.NoError(t, err)
	return req
}

func (e *env) stage(t *testing.T, requestID uuid.UUID, filename string, data []byte) *models.Media {
	t.Helper()
	m, err := e.requests.ProposeAdd(e.ctx, requestID, models.Upload{Filename: filename, Content: data})
	require.NoError(t, err)
	return m
}

func (e *env) listPaths(t *testing.T, projectID uuid.UUID) []string {
	t.Helper()
	list, err := e.media.ListByProject(e.ctx, projectID)
	require.NoError(t, err)
	return paths(list)
}

func TestFile(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")

	req, err := e.requests.File(e.ctx, p.ID, c.ID, "  swap the logo ")
	require.NoError(t, err)
	assert.Equal(t, models.RequestOpen, req.Status)
	assert.Equal(t, "swap the logo", req.Description)

	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, props.Added)
	assert.Empty(t, props.Removed)

	_, err = e.requests.File(e.ctx, uuid.New(), c.ID, "")
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
	_, err = e.requests.File(e.ctx, p.ID, uuid.New(), "")
	assert.ErrorIs(t, err, apperr.ErrCollaboratorNotFound)
	_, err = e.requests.File(e.ctx, p.ID, uuid.Nil, "")
	assert.ErrorIs(t, err, apperr.ErrNullID)

	list, err := e.requests.ListForProject(e.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
}

func TestProposeAddStagesWithoutProject(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	req := e.file(t, p.ID, c.ID)
	e.notify.reset()

	m := e.stage(t, req.ID, "banner.png", []byte("banner"))
	assert.Nil(t, m.ProjectID)
	assert.Empty(t, e.listPaths(t, p.ID))
	assert.Zero(t, e.notify.count())

	raw, err := e.media.Content(e.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("banner"), raw)

	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, props.Added, 1)
	assert.Equal(t, m.ID, props.Added[0].ID)

	_, err = e.requests.ProposeAdd(e.ctx, uuid.New(), models.Upload{Filename: "x.png"})
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
}

func TestProposeRemove(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	other := e.project(t, "Other")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))
	foreign := e.put(t, other.ID, "foreign.png", []byte("f"))
	req := e.file(t, p.ID, c.ID)

	got, err := e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	assert.Equal(t, logo.ID, got.ID)
	assert.Equal(t, []string{"logo.png"}, e.listPaths(t, p.ID))

	// proposing twice is harmless
	_, err = e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, props.Removed, 1)

	_, err = e.requests.ProposeRemove(e.ctx, req.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	_, err = e.requests.ProposeRemove(e.ctx, req.ID, foreign.ID)
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	_, err = e.requests.ProposeRemove(e.ctx, uuid.New(), logo.ID)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
}

func TestApproveScenario(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))

	req := e.file(t, p.ID, c.ID)
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	banner := e.stage(t, req.ID, "banner.png", []byte("banner"))
	e.notify.reset()

	got, err := e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)
	assert.NotNil(t, got.ResolvedAt)
	assert.Equal(t, 1, e.notify.count())

	assert.Equal(t, []string{"banner.png"}, e.listPaths(t, p.ID))
	_, err = e.media.Content(e.ctx, logo.ID)
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	_, err = e.blobs.Get(e.ctx, domain.BlobKey(logo.ID))
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)

	m, err := e.media.Get(e.ctx, banner.ID)
	require.NoError(t, err)
	require.NotNil(t, m.ProjectID)
	assert.Equal(t, p.ID, *m.ProjectID)

	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, props.Added)
	assert.Empty(t, props.Removed)
}

func TestApproveTwoAddsOneRemove(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	e.put(t, p.ID, "keep.png", []byte("k"))
	gone := e.put(t, p.ID, "gone.png", []byte("g"))

	req := e.file(t, p.ID, c.ID)
	e.stage(t, req.ID, "one.png", []byte("1"))
	e.stage(t, req.ID, "two.png", []byte("2"))
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, gone.ID)
	require.NoError(t, err)

	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"keep.png", "one.png", "two.png"}, e.listPaths(t, p.ID))
}

func TestRejectLeavesProjectUnchanged(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))
	before := e.listPaths(t, p.ID)

	req := e.file(t, p.ID, c.ID)
	s1 := e.stage(t, req.ID, "one.png", []byte("1"))
	s2 := e.stage(t, req.ID, "two.png", []byte("2"))
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	e.notify.reset()

	got, err := e.requests.Resolve(e.ctx, req.ID, models.Reject)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, got.Status)
	assert.Equal(t, 1, e.notify.count())

	assert.Equal(t, before, e.listPaths(t, p.ID))
	raw, err := e.media.Content(e.ctx, logo.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("logo"), raw)

	for _, s := range []*models.Media{s1, s2} {
		_, err := e.media.Get(e.ctx, s.ID)
		assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
		_, err = e.blobs.Get(e.ctx, domain.BlobKey(s.ID))
		assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	}
}

func TestResolvedRequestIsFinal(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))
	req := e.file(t, p.ID, c.ID)

	_, err := e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	e.notify.reset()

	_, err = e.requests.ProposeAdd(e.ctx, req.ID, models.Upload{Filename: "late.png", Content: []byte("x")})
	assert.ErrorIs(t, err, apperr.ErrRequestNotOpen)
	_, err = e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	assert.ErrorIs(t, err, apperr.ErrRequestNotOpen)
	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	assert.ErrorIs(t, err, apperr.ErrRequestNotOpen)
	_, err = e.requests.Resolve(e.ctx, req.ID, models.Reject)
	assert.ErrorIs(t, err, apperr.ErrRequestNotOpen)

	assert.Zero(t, e.notify.count())
	assert.Equal(t, []string{"logo.png"}, e.listPaths(t, p.ID))
}

func TestApproveDuplicatePathIsAtomic(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	old := e.put(t, p.ID, "old.png", []byte("old"))

	req := e.file(t, p.ID, c.ID)
	fresh := e.stage(t, req.ID, "fresh.png", []byte("fresh"))
	clash := e.stage(t, req.ID, "taken.png", []byte("staged"))
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, old.ID)
	require.NoError(t, err)

	// staging does not hold the path; a direct upload takes it meanwhile
	taken := e.put(t, p.ID, "taken.png", []byte("direct"))
	e.notify.reset()

	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	assert.ErrorIs(t, err, apperr.ErrDuplicatePath)
	assert.Zero(t, e.notify.count())

	got, err := e.requests.Get(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestOpen, got.Status)
	assert.Equal(t, []string{"old.png", "taken.png"}, e.listPaths(t, p.ID))

	for _, id := range []uuid.UUID{fresh.ID, clash.ID} {
		m, err := e.media.Get(e.ctx, id)
		require.NoError(t, err)
		assert.Nil(t, m.ProjectID)
	}
	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Len(t, props.Added, 2)
	assert.Len(t, props.Removed, 1)

	// once the clash is gone the same request approves
	_, err = e.media.Delete(e.ctx, taken.ID)
	require.NoError(t, err)
	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh.png", "taken.png"}, e.listPaths(t, p.ID))
}

func TestApproveReplacesUnderSamePath(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("v1"))

	req := e.file(t, p.ID, c.ID)
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	next := e.stage(t, req.ID, "logo.png", []byte("v2"))

	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)

	raw, err := e.media.Content(e.ctx, next.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), raw)
	assert.Equal(t, []string{"logo.png"}, e.listPaths(t, p.ID))
}

func TestSecondRemovalOfSameMedia(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))

	first := e.file(t, p.ID, c.ID)
	second := e.file(t, p.ID, c.ID)
	for _, r := range []*models.Request{first, second} {
		_, err := e.requests.ProposeRemove(e.ctx, r.ID, logo.ID)
		require.NoError(t, err)
	}

	_, err := e.requests.Resolve(e.ctx, first.ID, models.Approve)
	require.NoError(t, err)

	// the deleted media was detached from the second request
	props, err := e.requests.ListForRequest(e.ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, props.Removed)

	got, err := e.requests.Resolve(e.ctx, second.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)
}

func TestResolveRejectsUnknownDecision(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	req := e.file(t, p.ID, c.ID)

	_, err := e.requests.Resolve(e.ctx, req.ID, models.Decision("maybe"))
	assert.ErrorIs(t, err, apperr.ErrInvalidDecision)
	assert.Equal(t, apperr.ReasonInvalidDecision, apperr.ReasonOf(err))

	_, err = e.requests.Resolve(e.ctx, uuid.New(), models.Approve)
	assert.ErrorIs(t, err, apperr.ErrRequestNotFound)
}

func TestApprovedMediaListedInJoinOrder(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")

	e.put(t, p.ID, "a.png", []byte("a"))
	req := e.file(t, p.ID, c.ID)
	e.stage(t, req.ID, "b.png", []byte("b"))
	e.put(t, p.ID, "c.png", []byte("c"))

	_, err := e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "c.png", "b.png"}, e.listPaths(t, p.ID))
}

func TestProposeAddRejectsPathAlreadyStaged(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	req := e.file(t, p.ID, c.ID)
	e.stage(t, req.ID, "x.png", []byte("first"))

	_, err := e.requests.ProposeAdd(e.ctx, req.ID, models.Upload{Filename: "dir/x.png", Content: []byte("second")})
	assert.ErrorIs(t, err, apperr.ErrDuplicatePath)

	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, props.Added, 1)
	keys, err := e.blobs.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	// another request may stage the same path
	other := e.file(t, p.ID, c.ID)
	e.stage(t, other.ID, "x.png", []byte("other"))

	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, []string{"x.png"}, e.listPaths(t, p.ID))
}

func TestWithdraw(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, "P")
	c := e.collaborator(t, "ann")
	logo := e.put(t, p.ID, "logo.png", []byte("logo"))

	req := e.file(t, p.ID, c.ID)
	banner := e.stage(t, req.ID, "banner.png", []byte("banner"))
	_, err := e.requests.ProposeRemove(e.ctx, req.ID, logo.ID)
	require.NoError(t, err)
	e.notify.reset()

	require.NoError(t, e.requests.Withdraw(e.ctx, req.ID, banner.ID))
	_, err = e.media.Get(e.ctx, banner.ID)
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)
	_, err = e.blobs.Get(e.ctx, domain.BlobKey(banner.ID))
	assert.ErrorIs(t, err, apperr.ErrMediaNotFound)

	require.NoError(t, e.requests.Withdraw(e.ctx, req.ID, logo.ID))
	_, err = e.media.Get(e.ctx, logo.ID)
	assert.NoError(t, err)

	props, err := e.requests.ListForRequest(e.ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, props.Added)
	assert.Empty(t, props.Removed)
	assert.Zero(t, e.notify.count())

	assert.ErrorIs(t, e.requests.Withdraw(e.ctx, req.ID, logo.ID), apperr.ErrMediaNotFound)

	// approving the emptied request changes nothing
	_, err = e.requests.Resolve(e.ctx, req.ID, models.Approve)
	require.NoError(t, err)
	assert.Equal(t, []string{"logo.png"}, e.listPaths(t, p.ID))
	assert.ErrorIs(t, e.requests.Withdraw(e.ctx, req.ID, logo.ID), apperr.ErrRequestNotOpen)
}
