package domain

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const contentFetchLimit = 4

// MediaService owns media rows and the blob area. Blobs are written before
// the row is committed and removed again when the commit fails, so a row
// never points at missing content.
type MediaService struct {
	store  ports.Store
	blobs  ports.BlobStore
	notify ports.Notifier
	log    *logger.ZapLogger
}

func NewMediaService(store ports.Store, blobs ports.BlobStore, notify ports.Notifier, log *logger.ZapLogger) *MediaService {
	return &MediaService{
		store:  store,
		blobs:  blobs,
		notify: notify,
		log:    log,
	}
}

var _ ports.MediaService = (*MediaService)(nil)

func newMedia(up models.Upload, projectID *uuid.UUID) (*models.Media, error) {
	filename := up.Filename
	if filename == "" {
		filename = up.Name
	}
	p, err := DerivePath(filename)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = p
	}
	return &models.Media{
		ID:        uuid.New(),
		Name:      name,
		Path:      p,
		ProjectID: projectID,
	}, nil
}

func (s *MediaService) Put(ctx context.Context, projectID uuid.UUID, up models.Upload) (*models.Media, error) {
	if _, err := RequireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	m, err := newMedia(up, &projectID)
	if err != nil {
		return nil, err
	}

	if err := s.writeBlob(ctx, m.ID, up.Content); err != nil {
		return nil, err
	}
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := RequireProject(ctx, tx, projectID); err != nil {
			return err
		}
		return tx.Media().Insert(ctx, m)
	})
	if err != nil {
		s.discardBlobs(ctx, m.ID)
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media stored",
		Fields: map[string]any{
			"mediaID":   m.ID.String(),
			"projectID": projectID.String(),
			"path":      m.Path,
			"bytes":     len(up.Content),
		},
	})
	s.notify.Broadcast(projectID)
	return m, nil
}

// Replace swaps the content of a media. A nil upload changes nothing. The
// path is re-validated only when the new filename maps to a different path.
// The content is written in place, so a failed commit puts the previous
// content back.
func (s *MediaService) Replace(ctx context.Context, mediaID uuid.UUID, up *models.Upload) (*models.Media, error) {
	m, err := RequireMedia(ctx, s.store, mediaID)
	if err != nil || up == nil {
		return m, err
	}
	prev, err := s.blobs.Get(ctx, BlobKey(mediaID))
	if err != nil && !errors.Is(err, apperr.ErrMediaNotFound) {
		return nil, err
	}
	hadPrev := err == nil

	var written bool
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := RequireMedia(ctx, tx, mediaID)
		if err != nil {
			return err
		}
		next := *cur
		if up.Filename != "" {
			if next.Path, err = DerivePath(up.Filename); err != nil {
				return err
			}
		}
		if name := strings.TrimSpace(up.Name); name != "" {
			next.Name = name
		}
		if next.Path != cur.Path || next.Name != cur.Name {
			if err := tx.Media().Update(ctx, &next); err != nil {
				return err
			}
			cur = &next
		}
		if err := s.writeBlob(ctx, mediaID, up.Content); err != nil {
			return err
		}
		written = true
		m = cur
		return nil
	})
	if err != nil {
		if written {
			s.restoreBlob(ctx, mediaID, prev, hadPrev)
		}
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media content replaced",
		Fields:  map[string]any{"mediaID": mediaID.String(), "bytes": len(up.Content)},
	})
	s.notifyOwner(m)
	return m, nil
}

// Edit updates the display name and path of a media. Empty fields keep
// their current value.
func (s *MediaService) Edit(ctx context.Context, in models.Media) (*models.Media, error) {
	var out *models.Media
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := RequireMedia(ctx, tx, in.ID)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			cur.Name = name
		}
		if in.Path != "" {
			p, err := DerivePath(in.Path)
			if err != nil {
				return err
			}
			cur.Path = p
		}
		if err := tx.Media().Update(ctx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media edited",
		Fields:  map[string]any{"mediaID": out.ID.String(), "path": out.Path},
	})
	s.notifyOwner(out)
	return out, nil
}

func (s *MediaService) Get(ctx context.Context, mediaID uuid.UUID) (*models.Media, error) {
	return RequireMedia(ctx, s.store, mediaID)
}

func (s *MediaService) Content(ctx context.Context, mediaID uuid.UUID) ([]byte, error) {
	if _, err := RequireMedia(ctx, s.store, mediaID); err != nil {
		return nil, err
	}
	return s.blobs.Get(ctx, BlobKey(mediaID))
}

func (s *MediaService) EncodedContent(ctx context.Context, mediaID uuid.UUID) (*models.MediaFileContent, error) {
	m, err := RequireMedia(ctx, s.store, mediaID)
	if err != nil {
		return nil, err
	}
	data, err := s.blobs.Get(ctx, BlobKey(mediaID))
	if err != nil {
		return nil, err
	}
	return encode(m, data), nil
}

// ImagesByProject returns the encoded content of every image media of a
// project, in listing order. Media whose content is missing are skipped.
func (s *MediaService) ImagesByProject(ctx context.Context, projectID uuid.UUID) ([]models.MediaFileContent, error) {
	list, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	found := make([]*models.MediaFileContent, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(contentFetchLimit)
	for i := range list {
		m := &list[i]
		g.Go(func() error {
			data, err := s.blobs.Get(gctx, BlobKey(m.ID))
			if errors.Is(err, apperr.ErrMediaNotFound) {
				s.log.Log(logger.LogEntry{
					Level:   "warn",
					Message: "media content missing",
					Fields:  map[string]any{"mediaID": m.ID.String(), "projectID": projectID.String()},
				})
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", m.ID, err)
			}
			if strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
				found[i] = encode(m, data)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.MediaFileContent, 0, len(found))
	for _, c := range found {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *MediaService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Media, error) {
	if _, err := RequireProject(ctx, s.store, projectID); err != nil {
		return nil, err
	}
	list, err := s.store.Media().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Media{}
	}
	return list, nil
}

// Delete removes the row, detaches it from every request that still
// references it, then drops the blob. A blob that is already gone is fine.
func (s *MediaService) Delete(ctx context.Context, mediaID uuid.UUID) (*models.Media, error) {
	var m *models.Media
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		if m, err = RequireMedia(ctx, tx, mediaID); err != nil {
			return err
		}
		return deleteMediaRow(ctx, tx, mediaID)
	})
	if err != nil {
		return nil, err
	}
	s.discardBlobs(ctx, mediaID)

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media deleted",
		Fields:  map[string]any{"mediaID": mediaID.String()},
	})
	s.notifyOwner(m)
	return m, nil
}

func (s *MediaService) writeBlob(ctx context.Context, mediaID uuid.UUID, data []byte) error {
	if err := s.blobs.Put(ctx, BlobKey(mediaID), data); err != nil {
		return fmt.Errorf("store content: %w", err)
	}
	mediaBytesStored.Add(float64(len(data)))
	return nil
}

// discardBlobs is a compensating step: failures are logged, never returned.
func (s *MediaService) discardBlobs(ctx context.Context, ids ...uuid.UUID) {
	var errs error
	for _, id := range ids {
		errs = multierr.Append(errs, s.blobs.Delete(ctx, BlobKey(id)))
	}
	if errs != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "blob cleanup failed",
			Error:   errs,
			Fields:  map[string]any{"count": len(multierr.Errors(errs))},
		})
	}
}

// restoreBlob is the compensating step of Replace.
func (s *MediaService) restoreBlob(ctx context.Context, mediaID uuid.UUID, prev []byte, hadPrev bool) {
	key := BlobKey(mediaID)
	var err error
	if hadPrev {
		err = s.blobs.Put(ctx, key, prev)
	} else {
		err = s.blobs.Delete(ctx, key)
	}
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "blob restore failed",
			Error:   err,
			Fields:  map[string]any{"mediaID": mediaID.String()},
		})
	}
}

func (s *MediaService) notifyOwner(m *models.Media) {
	if m != nil && m.Canonical() {
		s.notify.Broadcast(*m.ProjectID)
	}
}

func deleteMediaRow(ctx context.Context, tx ports.Store, mediaID uuid.UUID) error {
	if err := tx.Requests().DetachMedia(ctx, mediaID); err != nil {
		return err
	}
	return tx.Media().Delete(ctx, mediaID)
}

func encode(m *models.Media, data []byte) *models.MediaFileContent {
	return &models.MediaFileContent{
		ID:      m.ID,
		Content: base64.StdEncoding.EncodeToString(data),
		Name:    m.Name,
	}
}
