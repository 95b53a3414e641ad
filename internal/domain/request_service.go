package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

// RequestService runs the change-request workflow. Proposals are recorded
// against the request and reach the project only when it is approved.
type RequestService struct {
	store  ports.Store
	media  *MediaService
	notify ports.Notifier
	log    *logger.ZapLogger
	now    func() time.Time
}

func NewRequestService(store ports.Store, media *MediaService, notify ports.Notifier, log *logger.ZapLogger) *RequestService {
	return &RequestService{
		store:  store,
		media:  media,
		notify: notify,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.RequestWorkflow = (*RequestService)(nil)

func (s *RequestService) File(ctx context.Context, projectID, collaboratorID uuid.UUID, description string) (*models.Request, error) {
	req := &models.Request{
		ID:             uuid.New(),
		ProjectID:      projectID,
		CollaboratorID: collaboratorID,
		Description:    strings.TrimSpace(description),
		Status:         models.RequestOpen,
	}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := RequireCollaborator(ctx, tx, collaboratorID); err != nil {
			return err
		}
		return tx.Requests().Insert(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "request filed",
		Fields: map[string]any{
			"requestID":      req.ID.String(),
			"projectID":      projectID.String(),
			"collaboratorID": collaboratorID.String(),
		},
	})
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, requestID uuid.UUID) (*models.Request, error) {
	return RequireRequest(ctx, s.store, requestID)
}

// ProposeAdd stages new content under the request. The staged media has no
// project until the request is approved.
func (s *RequestService) ProposeAdd(ctx context.Context, requestID uuid.UUID, up models.Upload) (*models.Media, error) {
	req, err := RequireRequest(ctx, s.store, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Open() {
		return nil, apperr.ErrRequestNotOpen
	}
	m, err := newMedia(up, nil)
	if err != nil {
		return nil, err
	}

	if err := s.media.writeBlob(ctx, m.ID, up.Content); err != nil {
		return nil, err
	}
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireOpenRequest(ctx, tx, requestID); err != nil {
			return err
		}
		if err := stagedPathFree(ctx, tx, requestID, m.Path); err != nil {
			return err
		}
		if err := tx.Media().Insert(ctx, m); err != nil {
			return err
		}
		return tx.Requests().AddProposal(ctx, models.RequestMedia{
			RequestID: requestID,
			MediaID:   m.ID,
			Kind:      models.ProposeAdd,
		})
	})
	if err != nil {
		s.media.discardBlobs(ctx, m.ID)
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media staged for addition",
		Fields:  map[string]any{"requestID": requestID.String(), "mediaID": m.ID.String(), "path": m.Path},
	})
	return m, nil
}

// ProposeRemove flags a canonical media of the request's project for
// deletion on approval.
func (s *RequestService) ProposeRemove(ctx context.Context, requestID, mediaID uuid.UUID) (*models.Media, error) {
	var m *models.Media
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		req, err := RequireOpenRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if m, err = RequireMedia(ctx, tx, mediaID); err != nil {
			return err
		}
		if !m.Canonical() || *m.ProjectID != req.ProjectID {
			return apperr.NotFound(apperr.ReasonMedia, mediaID)
		}
		return tx.Requests().AddProposal(ctx, models.RequestMedia{
			RequestID: requestID,
			MediaID:   mediaID,
			Kind:      models.ProposeRemove,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media staged for removal",
		Fields:  map[string]any{"requestID": requestID.String(), "mediaID": mediaID.String()},
	})
	return m, nil
}

// Withdraw takes one proposal back out of an open request. A withdrawn
// addition is deleted together with its content; a withdrawn removal leaves
// the media as it is.
func (s *RequestService) Withdraw(ctx context.Context, requestID, mediaID uuid.UUID) error {
	var staged bool
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireOpenRequest(ctx, tx, requestID); err != nil {
			return err
		}
		props, err := tx.Requests().Proposals(ctx, requestID)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(props, func(p models.RequestMedia) bool { return p.MediaID == mediaID })
		if i < 0 {
			return apperr.NotFound(apperr.ReasonMedia, mediaID)
		}
		if props[i].Kind == models.ProposeAdd {
			staged = true
			return deleteMediaRow(ctx, tx, mediaID)
		}
		return tx.Requests().RemoveProposal(ctx, requestID, mediaID)
	})
	if err != nil {
		return err
	}
	if staged {
		s.media.discardBlobs(ctx, mediaID)
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "proposal withdrawn",
		Fields:  map[string]any{"requestID": requestID.String(), "mediaID": mediaID.String(), "staged": staged},
	})
	return nil
}

func (s *RequestService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]models.Request, error) {
	if _, err := RequireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	list, err := s.store.Requests().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Request{}
	}
	return list, nil
}

func (s *RequestService) ListForRequest(ctx context.Context, requestID uuid.UUID) (*models.RequestProposals, error) {
	if _, err := RequireRequest(ctx, s.store, requestID); err != nil {
		return nil, err
	}
	props, err := s.store.Requests().Proposals(ctx, requestID)
	if err != nil {
		return nil, err
	}

	out := &models.RequestProposals{Added: []models.Media{}, Removed: []models.Media{}}
	for _, p := range props {
		m, err := s.store.Media().Get(ctx, p.MediaID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		switch p.Kind {
		case models.ProposeAdd:
			out.Added = append(out.Added, *m)
		case models.ProposeRemove:
			out.Removed = append(out.Removed, *m)
		}
	}
	return out, nil
}

// Resolve approves or rejects an open request as one transaction. On
// approval removals are applied before additions, so a request may replace
// a media with a new one under the same path. Any failure leaves the
// request open and the project untouched.
func (s *RequestService) Resolve(ctx context.Context, requestID uuid.UUID, decision models.Decision) (*models.Request, error) {
	if decision != models.Approve && decision != models.Reject {
		return nil, apperr.Wrap(apperr.ErrInvalidDecision, fmt.Errorf("got %q", decision))
	}

	var (
		req     *models.Request
		discard []uuid.UUID
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		if req, err = RequireOpenRequest(ctx, tx, requestID); err != nil {
			return err
		}
		props, err := tx.Requests().Proposals(ctx, requestID)
		if err != nil {
			return err
		}

		status := models.RequestRejected
		if decision == models.Approve {
			status = models.RequestApproved
			discard, err = s.apply(ctx, tx, req, props)
		} else {
			discard, err = s.discard(ctx, tx, props)
		}
		if err != nil {
			return err
		}

		if err := tx.Requests().DeleteProposals(ctx, requestID); err != nil {
			return err
		}
		at := s.now()
		if err := tx.Requests().UpdateStatus(ctx, requestID, status, at); err != nil {
			return err
		}
		req.Status = status
		req.ResolvedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.media.discardBlobs(ctx, discard...)
	requestsResolved.WithLabelValues(string(decision)).Inc()

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "request resolved",
		Fields: map[string]any{
			"requestID": requestID.String(),
			"projectID": req.ProjectID.String(),
			"status":    string(req.Status),
		},
	})
	s.notify.Broadcast(req.ProjectID)
	return req, nil
}

// apply deletes the media flagged for removal and attaches staged media to
// the project. Attach re-checks path uniqueness.
func (s *RequestService) apply(ctx context.Context, tx ports.Store, req *models.Request, props []models.RequestMedia) ([]uuid.UUID, error) {
	var removed []uuid.UUID
	for _, p := range props {
		if p.Kind != models.ProposeRemove {
			continue
		}
		m, err := tx.Media().Get(ctx, p.MediaID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			continue
		}
		if err := deleteMediaRow(ctx, tx, p.MediaID); err != nil {
			return nil, err
		}
		removed = append(removed, p.MediaID)
	}
	for _, p := range props {
		if p.Kind != models.ProposeAdd {
			continue
		}
		if err := tx.Media().Attach(ctx, p.MediaID, req.ProjectID); err != nil {
			return nil, err
		}
	}
	return removed, nil
}

// discard drops staged media. Media flagged for removal stay canonical.
func (s *RequestService) discard(ctx context.Context, tx ports.Store, props []models.RequestMedia) ([]uuid.UUID, error) {
	var staged []uuid.UUID
	for _, p := range props {
		if p.Kind != models.ProposeAdd {
			continue
		}
		if err := deleteMediaRow(ctx, tx, p.MediaID); err != nil {
			return nil, err
		}
		staged = append(staged, p.MediaID)
	}
	return staged, nil
}

// stagedPathFree fails when the request already stages an addition under path.
func stagedPathFree(ctx context.Context, tx ports.Store, requestID uuid.UUID, path string) error {
	props, err := tx.Requests().Proposals(ctx, requestID)
	if err != nil {
		return err
	}
	for _, p := range props {
		if p.Kind != models.ProposeAdd {
			continue
		}
		staged, err := tx.Media().Get(ctx, p.MediaID)
		if err != nil {
			return err
		}
		if staged != nil && staged.Path == path {
			return apperr.Wrap(apperr.ErrDuplicatePath, fmt.Errorf("path %q is already staged by this request", path))
		}
	}
	return nil
}
