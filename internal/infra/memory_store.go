package infra

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/google/uuid"
)

type row[T any] struct {
	seq int64
	v   T
}

type memState struct {
	seq int64

	projects      map[uuid.UUID]row[models.Project]
	media         map[uuid.UUID]row[models.Media]
	paths         map[string]uuid.UUID // canonical media only
	requests      map[uuid.UUID]row[models.Request]
	proposals     map[uuid.UUID][]models.RequestMedia
	collaborators map[uuid.UUID]row[models.Collaborator]
	members       []models.ProjectCollaborator
	links         map[uuid.UUID]row[models.Link]
}

func newMemState() *memState {
	return &memState{
		projects:      map[uuid.UUID]row[models.Project]{},
		media:         map[uuid.UUID]row[models.Media]{},
		paths:         map[string]uuid.UUID{},
		requests:      map[uuid.UUID]row[models.Request]{},
		proposals:     map[uuid.UUID][]models.RequestMedia{},
		collaborators: map[uuid.UUID]row[models.Collaborator]{},
		links:         map[uuid.UUID]row[models.Link]{},
	}
}

func (st *memState) clone() *memState {
	c := &memState{
		seq:           st.seq,
		projects:      cloneMap(st.projects),
		media:         cloneMap(st.media),
		paths:         cloneMap(st.paths),
		requests:      cloneMap(st.requests),
		proposals:     make(map[uuid.UUID][]models.RequestMedia, len(st.proposals)),
		collaborators: cloneMap(st.collaborators),
		members:       slices.Clone(st.members),
		links:         cloneMap(st.links),
	}
	for k, v := range st.proposals {
		c.proposals[k] = slices.Clone(v)
	}
	return c
}

func (st *memState) next() int64 {
	st.seq++
	return st.seq
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func sortedValues[T any](m map[uuid.UUID]row[T], keep func(T) bool) []T {
	rows := make([]row[T], 0, len(m))
	for _, r := range m {
		if keep == nil || keep(r.v) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.v
	}
	return out
}

// MemoryStore keeps all state in process. Every call is atomic; WithinTx
// holds the store lock for the whole callback and works on a copy that
// replaces the live state only when the callback succeeds. Code running
// inside WithinTx must use the tx store it is handed.
type MemoryStore struct {
	mu     *sync.Mutex
	st     *memState
	locked bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, st: newMemState()}
}

var _ ports.Store = (*MemoryStore)(nil)

func (s *MemoryStore) do(fn func(st *memState) error) error {
	if !s.locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if !s.locked {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &MemoryStore{mu: s.mu, st: s.st.clone(), locked: true}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *MemoryStore) Projects() ports.ProjectRepository           { return memProjects{s} }
func (s *MemoryStore) Media() ports.MediaRepository                 { return memMedia{s} }
func (s *MemoryStore) Requests() ports.RequestRepository            { return memRequests{s} }
func (s *MemoryStore) Collaborators() ports.CollaboratorRepository { return memCollaborators{s} }
func (s *MemoryStore) Links() ports.LinkRepository                  { return memLinks{s} }

// ---- projects

type memProjects struct{ s *MemoryStore }

func (r memProjects) Insert(_ context.Context, p *models.Project) error {
	return r.s.do(func(st *memState) error {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now().UTC()
		}
		st.projects[p.ID] = row[models.Project]{seq: st.next(), v: *p}
		return nil
	})
}

func (r memProjects) Get(_ context.Context, id uuid.UUID) (*models.Project, error) {
	var out *models.Project
	err := r.s.do(func(st *memState) error {
		if p, ok := st.projects[id]; ok {
			v := p.v
			out = &v
		}
		return nil
	})
	return out, err
}

func (r memProjects) List(_ context.Context) ([]models.Project, error) {
	var out []models.Project
	err := r.s.do(func(st *memState) error {
		out = sortedValues(st.projects, nil)
		return nil
	})
	return out, err
}

func (r memProjects) Update(_ context.Context, p *models.Project) error {
	return r.s.do(func(st *memState) error {
		cur, ok := st.projects[p.ID]
		if !ok {
			return apperr.NotFound(apperr.ReasonProject, p.ID)
		}
		p.CreatedAt = cur.v.CreatedAt
		st.projects[p.ID] = row[models.Project]{seq: cur.seq, v: *p}
		return nil
	})
}

func (r memProjects) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		delete(st.projects, id)
		return nil
	})
}

// ---- media

type memMedia struct{ s *MemoryStore }

// claim reserves path for id, failing when another canonical media holds it.
func claim(st *memState, path string, id uuid.UUID) error {
	if owner, ok := st.paths[path]; ok && owner != id {
		return apperr.Wrap(apperr.ErrDuplicatePath, errPathTaken(path))
	}
	st.paths[path] = id
	return nil
}

func release(st *memState, m models.Media) {
	if m.Canonical() && st.paths[m.Path] == m.ID {
		delete(st.paths, m.Path)
	}
}

func (r memMedia) Insert(_ context.Context, m *models.Media) error {
	return r.s.do(func(st *memState) error {
		if m.Canonical() {
			if err := claim(st, m.Path, m.ID); err != nil {
				return err
			}
		}
		m.Seq = st.next()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		st.media[m.ID] = row[models.Media]{seq: m.Seq, v: *m}
		return nil
	})
}

func (r memMedia) Update(_ context.Context, m *models.Media) error {
	return r.s.do(func(st *memState) error {
		cur, ok := st.media[m.ID]
		if !ok {
			return apperr.NotFound(apperr.ReasonMedia, m.ID)
		}
		next := cur.v
		next.Name = m.Name
		next.Path = m.Path
		if next.Canonical() && next.Path != cur.v.Path {
			if err := claim(st, next.Path, next.ID); err != nil {
				return err
			}
			delete(st.paths, cur.v.Path)
		}
		st.media[m.ID] = row[models.Media]{seq: cur.seq, v: next}
		*m = next
		return nil
	})
}

func (r memMedia) Attach(_ context.Context, mediaID, projectID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		cur, ok := st.media[mediaID]
		if !ok {
			return apperr.NotFound(apperr.ReasonMedia, mediaID)
		}
		if err := claim(st, cur.v.Path, mediaID); err != nil {
			return err
		}
		pid := projectID
		cur.v.ProjectID = &pid
		cur.seq = st.next()
		cur.v.Seq = cur.seq
		st.media[mediaID] = cur
		return nil
	})
}

func (r memMedia) Get(_ context.Context, id uuid.UUID) (*models.Media, error) {
	var out *models.Media
	err := r.s.do(func(st *memState) error {
		if m, ok := st.media[id]; ok {
			v := m.v
			out = &v
		}
		return nil
	})
	return out, err
}

func (r memMedia) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Media, error) {
	var out []models.Media
	err := r.s.do(func(st *memState) error {
		out = sortedValues(st.media, func(m models.Media) bool {
			return m.ProjectID != nil && *m.ProjectID == projectID
		})
		return nil
	})
	return out, err
}

func (r memMedia) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		if cur, ok := st.media[id]; ok {
			release(st, cur.v)
			delete(st.media, id)
		}
		return nil
	})
}

// ---- requests

type memRequests struct{ s *MemoryStore }

func (r memRequests) Insert(_ context.Context, req *models.Request) error {
	return r.s.do(func(st *memState) error {
		if req.CreatedAt.IsZero() {
			req.CreatedAt = time.Now().UTC()
		}
		st.requests[req.ID] = row[models.Request]{seq: st.next(), v: *req}
		return nil
	})
}

func (r memRequests) Get(_ context.Context, id uuid.UUID) (*models.Request, error) {
	var out *models.Request
	err := r.s.do(func(st *memState) error {
		if req, ok := st.requests[id]; ok {
			v := req.v
			out = &v
		}
		return nil
	})
	return out, err
}

// GetForUpdate needs no extra locking: transactions already hold the store lock.
func (r memRequests) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return r.Get(ctx, id)
}

func (r memRequests) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	err := r.s.do(func(st *memState) error {
		out = sortedValues(st.requests, func(req models.Request) bool { return req.ProjectID == projectID })
		return nil
	})
	return out, err
}

func (r memRequests) ListByCollaborator(_ context.Context, collaboratorID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	err := r.s.do(func(st *memState) error {
		out = sortedValues(st.requests, func(req models.Request) bool { return req.CollaboratorID == collaboratorID })
		return nil
	})
	return out, err
}

func (r memRequests) UpdateStatus(_ context.Context, id uuid.UUID, status models.RequestStatus, resolvedAt time.Time) error {
	return r.s.do(func(st *memState) error {
		cur, ok := st.requests[id]
		if !ok {
			return apperr.NotFound(apperr.ReasonRequest, id)
		}
		cur.v.Status = status
		at := resolvedAt
		cur.v.ResolvedAt = &at
		st.requests[id] = cur
		return nil
	})
}

func (r memRequests) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		delete(st.requests, id)
		delete(st.proposals, id)
		return nil
	})
}

func (r memRequests) AddProposal(_ context.Context, p models.RequestMedia) error {
	return r.s.do(func(st *memState) error {
		for _, cur := range st.proposals[p.RequestID] {
			if cur.MediaID == p.MediaID {
				return nil
			}
		}
		st.proposals[p.RequestID] = append(st.proposals[p.RequestID], p)
		return nil
	})
}

func (r memRequests) Proposals(_ context.Context, requestID uuid.UUID) ([]models.RequestMedia, error) {
	var out []models.RequestMedia
	err := r.s.do(func(st *memState) error {
		out = slices.Clone(st.proposals[requestID])
		return nil
	})
	return out, err
}

func (r memRequests) RemoveProposal(_ context.Context, requestID, mediaID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		if ps, ok := st.proposals[requestID]; ok {
			st.proposals[requestID] = slices.DeleteFunc(ps, func(p models.RequestMedia) bool { return p.MediaID == mediaID })
		}
		return nil
	})
}

func (r memRequests) DeleteProposals(_ context.Context, requestID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		delete(st.proposals, requestID)
		return nil
	})
}

func (r memRequests) DetachMedia(_ context.Context, mediaID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		for id, ps := range st.proposals {
			st.proposals[id] = slices.DeleteFunc(ps, func(p models.RequestMedia) bool { return p.MediaID == mediaID })
		}
		return nil
	})
}

// ---- collaborators

type memCollaborators struct{ s *MemoryStore }

func (r memCollaborators) Insert(_ context.Context, c *models.Collaborator) error {
	return r.s.do(func(st *memState) error {
		st.collaborators[c.ID] = row[models.Collaborator]{seq: st.next(), v: *c}
		return nil
	})
}

func (r memCollaborators) Get(_ context.Context, id uuid.UUID) (*models.Collaborator, error) {
	var out *models.Collaborator
	err := r.s.do(func(st *memState) error {
		if c, ok := st.collaborators[id]; ok {
			v := c.v
			out = &v
		}
		return nil
	})
	return out, err
}

func (r memCollaborators) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		delete(st.collaborators, id)
		return nil
	})
}

func (r memCollaborators) AddToProject(_ context.Context, pc models.ProjectCollaborator) error {
	return r.s.do(func(st *memState) error {
		for i, cur := range st.members {
			if cur.ProjectID == pc.ProjectID && cur.CollaboratorID == pc.CollaboratorID {
				st.members[i].Role = pc.Role
				return nil
			}
		}
		st.members = append(st.members, pc)
		return nil
	})
}

func (r memCollaborators) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.ProjectCollaborator, error) {
	var out []models.ProjectCollaborator
	err := r.s.do(func(st *memState) error {
		for _, m := range st.members {
			if m.ProjectID == projectID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r memCollaborators) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		st.members = slices.DeleteFunc(st.members, func(m models.ProjectCollaborator) bool { return m.ProjectID == projectID })
		return nil
	})
}

func (r memCollaborators) DeleteByCollaborator(_ context.Context, collaboratorID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		st.members = slices.DeleteFunc(st.members, func(m models.ProjectCollaborator) bool {
			return m.CollaboratorID == collaboratorID
		})
		return nil
	})
}

// ---- links

type memLinks struct{ s *MemoryStore }

func (r memLinks) Insert(_ context.Context, l *models.Link) error {
	return r.s.do(func(st *memState) error {
		for _, cur := range st.links {
			if cur.v.ProjectID == l.ProjectID && cur.v.URL == l.URL {
				return apperr.ErrDuplicateLink
			}
		}
		st.links[l.ID] = row[models.Link]{seq: st.next(), v: *l}
		return nil
	})
}

func (r memLinks) Get(_ context.Context, id uuid.UUID) (*models.Link, error) {
	var out *models.Link
	err := r.s.do(func(st *memState) error {
		if l, ok := st.links[id]; ok {
			v := l.v
			out = &v
		}
		return nil
	})
	return out, err
}

func (r memLinks) Update(_ context.Context, l *models.Link) error {
	return r.s.do(func(st *memState) error {
		cur, ok := st.links[l.ID]
		if !ok {
			return apperr.NotFound(apperr.ReasonLink, l.ID)
		}
		for id, other := range st.links {
			if id != l.ID && other.v.ProjectID == cur.v.ProjectID && other.v.URL == l.URL {
				return apperr.ErrDuplicateLink
			}
		}
		cur.v.Name = l.Name
		cur.v.URL = l.URL
		st.links[l.ID] = cur
		*l = cur.v
		return nil
	})
}

func (r memLinks) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Link, error) {
	var out []models.Link
	err := r.s.do(func(st *memState) error {
		out = sortedValues(st.links, func(l models.Link) bool { return l.ProjectID == projectID })
		return nil
	})
	return out, err
}

func (r memLinks) Delete(_ context.Context, id uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		delete(st.links, id)
		return nil
	})
}

func (r memLinks) DeleteByProject(_ context.Context, projectID uuid.UUID) error {
	return r.s.do(func(st *memState) error {
		for id, l := range st.links {
			if l.v.ProjectID == projectID {
				delete(st.links, id)
			}
		}
		return nil
	})
}
