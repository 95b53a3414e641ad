package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresRequestRepo struct {
	q querier
}

const requestColumns = `id, project_id, collaborator_id, description, status, created_at, resolved_at`

func scanRequest(row pgx.Row) (*models.Request, error) {
	var r models.Request
	err := row.Scan(&r.ID, &r.ProjectID, &r.CollaboratorID, &r.Description, &r.Status, &r.CreatedAt, &r.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PostgresRequestRepo) Insert(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO request (id, project_id, collaborator_id, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.q.QueryRow(ctx, query, req.ID, req.ProjectID, req.CollaboratorID, req.Description, req.Status).
		Scan(&req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepo) get(ctx context.Context, query string, id uuid.UUID) (*models.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	return req, nil
}

func (r *PostgresRequestRepo) Get(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM request WHERE id = $1`, id)
}

func (r *PostgresRequestRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM request WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRequestRepo) list(ctx context.Context, query string, arg uuid.UUID) ([]models.Request, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	out := []models.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *PostgresRequestRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM request WHERE project_id = $1 ORDER BY seq`, projectID)
}

func (r *PostgresRequestRepo) ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID) ([]models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM request WHERE collaborator_id = $1 ORDER BY seq`, collaboratorID)
}

func (r *PostgresRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.RequestStatus, resolvedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE request SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, status, resolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(apperr.ReasonRequest, id)
	}
	return nil
}

func (r *PostgresRequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM request_media_project WHERE request_id = $1`, id); err != nil {
		return fmt.Errorf("delete request proposals: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM request WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepo) AddProposal(ctx context.Context, p models.RequestMedia) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO request_media_project (request_id, media_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, media_id) DO NOTHING
	`, p.RequestID, p.MediaID, p.Kind)
	if err != nil {
		return fmt.Errorf("add proposal: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepo) Proposals(ctx context.Context, requestID uuid.UUID) ([]models.RequestMedia, error) {
	rows, err := r.q.Query(ctx, `
		SELECT rmp.request_id, rmp.media_id, rmp.kind
		FROM request_media_project rmp
		JOIN media m ON m.id = rmp.media_id
		WHERE rmp.request_id = $1
		ORDER BY m.seq
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	out := []models.RequestMedia{}
	for rows.Next() {
		var p models.RequestMedia
		if err := rows.Scan(&p.RequestID, &p.MediaID, &p.Kind); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRequestRepo) RemoveProposal(ctx context.Context, requestID, mediaID uuid.UUID) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM request_media_project WHERE request_id = $1 AND media_id = $2`,
		requestID, mediaID,
	)
	if err != nil {
		return fmt.Errorf("remove proposal: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepo) DeleteProposals(ctx context.Context, requestID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM request_media_project WHERE request_id = $1`, requestID); err != nil {
		return fmt.Errorf("delete proposals: %w", err)
	}
	return nil
}

func (r *PostgresRequestRepo) DetachMedia(ctx context.Context, mediaID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM request_media_project WHERE media_id = $1`, mediaID); err != nil {
		return fmt.Errorf("detach media: %w", err)
	}
	return nil
}
