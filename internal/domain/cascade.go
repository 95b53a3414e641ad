package domain

import (
	"context"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/google/uuid"
)

// Cascades run inside a transaction and return the ids of media whose blobs
// the caller drops after commit.

// purgeRequest deletes a request, its proposal rows and its staged media.
// Canonical media flagged for removal survive.
func purgeRequest(ctx context.Context, tx ports.Store, requestID uuid.UUID) ([]uuid.UUID, error) {
	props, err := tx.Requests().Proposals(ctx, requestID)
	if err != nil {
		return nil, err
	}
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
	if err := tx.Requests().Delete(ctx, requestID); err != nil {
		return nil, err
	}
	return staged, nil
}

// purgeProject deletes a project aggregate: requests filed against it, its
// media, links and collaborator associations, then the project row.
// Collaborators themselves are untouched.
func purgeProject(ctx context.Context, tx ports.Store, projectID uuid.UUID) ([]uuid.UUID, error) {
	var blobs []uuid.UUID

	reqs, err := tx.Requests().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		staged, err := purgeRequest(ctx, tx, r.ID)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, staged...)
	}

	media, err := tx.Media().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, m := range media {
		if err := deleteMediaRow(ctx, tx, m.ID); err != nil {
			return nil, err
		}
		blobs = append(blobs, m.ID)
	}

	if err := tx.Links().DeleteByProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := tx.Collaborators().DeleteByProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := tx.Projects().Delete(ctx, projectID); err != nil {
		return nil, err
	}
	return blobs, nil
}
