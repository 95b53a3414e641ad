package infra

import (
	"context"
	"fmt"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const mediaPathIndex = "media_path_idx"

type PostgresMediaRepo struct {
	q querier
}

const mediaColumns = `id, name, path, project_id, seq, created_at`

func scanMedia(row pgx.Row) (*models.Media, error) {
	var m models.Media
	if err := row.Scan(&m.ID, &m.Name, &m.Path, &m.ProjectID, &m.Seq, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func duplicatePath(err error, path string) error {
	if isUniqueViolation(err, mediaPathIndex) {
		return apperr.Wrap(apperr.ErrDuplicatePath, errPathTaken(path))
	}
	return err
}

// Insert relies on media_path_idx, so the uniqueness check and the insert
// are one statement.
func (r *PostgresMediaRepo) Insert(ctx context.Context, m *models.Media) error {
	query := `
		INSERT INTO media (id, name, path, project_id)
		VALUES ($1, $2, $3, $4)
		RETURNING seq, created_at
	`
	err := r.q.QueryRow(ctx, query, m.ID, m.Name, m.Path, m.ProjectID).Scan(&m.Seq, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert media: %w", duplicatePath(err, m.Path))
	}
	return nil
}

func (r *PostgresMediaRepo) Update(ctx context.Context, m *models.Media) error {
	query := `
		UPDATE media
		SET name = $2, path = $3
		WHERE id = $1
		RETURNING ` + mediaColumns
	out, err := scanMedia(r.q.QueryRow(ctx, query, m.ID, m.Name, m.Path))
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound(apperr.ReasonMedia, m.ID)
		}
		return fmt.Errorf("update media: %w", duplicatePath(err, m.Path))
	}
	*m = *out
	return nil
}

// Attach moves a staged media into the project. It takes a fresh seq so the
// project listing follows the order media joined the project.
func (r *PostgresMediaRepo) Attach(ctx context.Context, mediaID, projectID uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `UPDATE media SET project_id = $2, seq = DEFAULT WHERE id = $1`, mediaID, projectID)
	if err != nil {
		if isUniqueViolation(err, mediaPathIndex) {
			return apperr.Wrap(apperr.ErrDuplicatePath, err)
		}
		return fmt.Errorf("attach media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(apperr.ReasonMedia, mediaID)
	}
	return nil
}

func (r *PostgresMediaRepo) Get(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(r.q.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media by id: %w", err)
	}
	return m, nil
}

func (r *PostgresMediaRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Media, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE project_id = $1 ORDER BY seq ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	out := []models.Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *PostgresMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM media WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
