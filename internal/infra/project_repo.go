package infra

import (
	"context"
	"fmt"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const linkProjectURLIndex = "link_project_url_idx"

type PostgresProjectRepo struct {
	q querier
}

const projectColumns = `id, title, description, bibtex, archived, template_name, created_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Bibtex, &p.Archived, &p.Template, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProjectRepo) Insert(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO project (id, title, description, bibtex, archived, template_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.q.QueryRow(ctx, query, p.ID, p.Title, p.Description, p.Bibtex, p.Archived, p.Template).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM project WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *PostgresProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.q.Query(ctx, `SELECT `+projectColumns+` FROM project ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PostgresProjectRepo) Update(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE project
		SET title = $2, description = $3, bibtex = $4, archived = $5, template_name = $6
		WHERE id = $1
		RETURNING created_at
	`
	err := r.q.QueryRow(ctx, query, p.ID, p.Title, p.Description, p.Bibtex, p.Archived, p.Template).Scan(&p.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound(apperr.ReasonProject, p.ID)
		}
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *PostgresProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM project WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

type PostgresCollaboratorRepo struct {
	q querier
}

func (r *PostgresCollaboratorRepo) Insert(ctx context.Context, c *models.Collaborator) error {
	if _, err := r.q.Exec(ctx, `INSERT INTO collaborator (id, name) VALUES ($1, $2)`, c.ID, c.Name); err != nil {
		return fmt.Errorf("insert collaborator: %w", err)
	}
	return nil
}

func (r *PostgresCollaboratorRepo) Get(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	var c models.Collaborator
	err := r.q.QueryRow(ctx, `SELECT id, name FROM collaborator WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collaborator: %w", err)
	}
	return &c, nil
}

func (r *PostgresCollaboratorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM collaborator WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete collaborator: %w", err)
	}
	return nil
}

func (r *PostgresCollaboratorRepo) AddToProject(ctx context.Context, pc models.ProjectCollaborator) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO projects_to_collaborators (project_id, collaborator_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, collaborator_id) DO UPDATE SET role = EXCLUDED.role
	`, pc.ProjectID, pc.CollaboratorID, pc.Role)
	if err != nil {
		return fmt.Errorf("add collaborator to project: %w", err)
	}
	return nil
}

func (r *PostgresCollaboratorRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectCollaborator, error) {
	rows, err := r.q.Query(ctx,
		`SELECT project_id, collaborator_id, role FROM projects_to_collaborators WHERE project_id = $1`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list project collaborators: %w", err)
	}
	defer rows.Close()

	out := []models.ProjectCollaborator{}
	for rows.Next() {
		var pc models.ProjectCollaborator
		if err := rows.Scan(&pc.ProjectID, &pc.CollaboratorID, &pc.Role); err != nil {
			return nil, fmt.Errorf("scan project collaborator: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

func (r *PostgresCollaboratorRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM projects_to_collaborators WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete project collaborators: %w", err)
	}
	return nil
}

func (r *PostgresCollaboratorRepo) DeleteByCollaborator(ctx context.Context, collaboratorID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM projects_to_collaborators WHERE collaborator_id = $1`, collaboratorID); err != nil {
		return fmt.Errorf("delete collaborator projects: %w", err)
	}
	return nil
}

type PostgresLinkRepo struct {
	q querier
}

func scanLink(row pgx.Row) (*models.Link, error) {
	var l models.Link
	if err := row.Scan(&l.ID, &l.ProjectID, &l.Name, &l.URL); err != nil {
		return nil, err
	}
	return &l, nil
}

func duplicateLink(err error) error {
	if isUniqueViolation(err, linkProjectURLIndex) {
		return apperr.Wrap(apperr.ErrDuplicateLink, err)
	}
	return err
}

func (r *PostgresLinkRepo) Insert(ctx context.Context, l *models.Link) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO link (id, project_id, name, url) VALUES ($1, $2, $3, $4)`,
		l.ID, l.ProjectID, l.Name, l.URL,
	)
	if err != nil {
		return fmt.Errorf("insert link: %w", duplicateLink(err))
	}
	return nil
}

func (r *PostgresLinkRepo) Get(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	l, err := scanLink(r.q.QueryRow(ctx, `SELECT id, project_id, name, url FROM link WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return l, nil
}

func (r *PostgresLinkRepo) Update(ctx context.Context, l *models.Link) error {
	out, err := scanLink(r.q.QueryRow(ctx,
		`UPDATE link SET name = $2, url = $3 WHERE id = $1 RETURNING id, project_id, name, url`,
		l.ID, l.Name, l.URL,
	))
	if err != nil {
		if isNoRows(err) {
			return apperr.NotFound(apperr.ReasonLink, l.ID)
		}
		return fmt.Errorf("update link: %w", duplicateLink(err))
	}
	*l = *out
	return nil
}

func (r *PostgresLinkRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Link, error) {
	rows, err := r.q.Query(ctx, `SELECT id, project_id, name, url FROM link WHERE project_id = $1 ORDER BY name, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	out := []models.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *PostgresLinkRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM link WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

func (r *PostgresLinkRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM link WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("delete project links: %w", err)
	}
	return nil
}
