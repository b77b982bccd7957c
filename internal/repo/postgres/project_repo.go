package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m2dev/codefolio/internal/domain/model"
	projectssvc "github.com/m2dev/codefolio/internal/services/projects"
)

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `id, title, description, technologies, image_url, project_url, github_url, featured, position, created_at, updated_at`

func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+projectColumns+`
FROM projects
ORDER BY position ASC, created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (model.Project, error) {
	if r.pool == nil {
		return model.Project{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+projectColumns+`
FROM projects
WHERE id = $1
`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, projectssvc.ErrNotFound
		}
		return model.Project{}, err
	}

	return p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, input model.ProjectInput) (model.Project, error) {
	if r.pool == nil {
		return model.Project{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO projects (id, title, description, technologies, image_url, project_url, github_url, featured, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING `+projectColumns+`
`, uuid.NewString(), input.Title, input.Description, input.Technologies, input.ImageURL, input.ProjectURL, input.GithubURL, input.Featured, input.Position)

	p, err := scanProject(row)
	if err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}

	return p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id string, input model.ProjectInput) (model.Project, error) {
	if r.pool == nil {
		return model.Project{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE projects SET
	title = $2,
	description = $3,
	technologies = $4,
	image_url = $5,
	project_url = $6,
	github_url = $7,
	featured = $8,
	position = $9,
	updated_at = NOW()
WHERE id = $1
RETURNING `+projectColumns+`
`, id, input.Title, input.Description, input.Technologies, input.ImageURL, input.ProjectURL, input.GithubURL, input.Featured, input.Position)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, projectssvc.ErrNotFound
		}
		return model.Project{}, fmt.Errorf("update project: %w", err)
	}

	return p, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projectssvc.ErrNotFound
	}

	return nil
}

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Technologies,
		&p.ImageURL,
		&p.ProjectURL,
		&p.GithubURL,
		&p.Featured,
		&p.Position,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, pgx.ErrNoRows
		}
		return model.Project{}, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}
