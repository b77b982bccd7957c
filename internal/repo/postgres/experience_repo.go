package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m2dev/codefolio/internal/domain/model"
	experiencessvc "github.com/m2dev/codefolio/internal/services/experiences"
)

type ExperienceRepo struct {
	pool *pgxpool.Pool
}

func NewExperienceRepo(pool *pgxpool.Pool) *ExperienceRepo {
	return &ExperienceRepo{pool: pool}
}

const experienceColumns = `id, title, company, location, start_date, end_date, current, description, position, created_at, updated_at`

func (r *ExperienceRepo) List(ctx context.Context) ([]model.Experience, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+experienceColumns+`
FROM experiences
ORDER BY current DESC, start_date DESC, position ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query experiences: %w", err)
	}
	defer rows.Close()

	var experiences []model.Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experiences: %w", err)
	}

	return experiences, nil
}

func (r *ExperienceRepo) GetByID(ctx context.Context, id string) (model.Experience, error) {
	if r.pool == nil {
		return model.Experience{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+experienceColumns+`
FROM experiences
WHERE id = $1
`, id)

	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Experience{}, experiencessvc.ErrNotFound
		}
		return model.Experience{}, err
	}

	return e, nil
}

func (r *ExperienceRepo) Create(ctx context.Context, input model.ExperienceInput) (model.Experience, error) {
	if r.pool == nil {
		return model.Experience{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO experiences (id, title, company, location, start_date, end_date, current, description, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING `+experienceColumns+`
`, uuid.NewString(), input.Title, input.Company, input.Location, input.StartDate, input.EndDate, input.Current, input.Description, input.Position)

	e, err := scanExperience(row)
	if err != nil {
		return model.Experience{}, fmt.Errorf("insert experience: %w", err)
	}

	return e, nil
}

func (r *ExperienceRepo) Update(ctx context.Context, id string, input model.ExperienceInput) (model.Experience, error) {
	if r.pool == nil {
		return model.Experience{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE experiences SET
	title = $2,
	company = $3,
	location = $4,
	start_date = $5,
	end_date = $6,
	current = $7,
	description = $8,
	position = $9,
	updated_at = NOW()
WHERE id = $1
RETURNING `+experienceColumns+`
`, id, input.Title, input.Company, input.Location, input.StartDate, input.EndDate, input.Current, input.Description, input.Position)

	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Experience{}, experiencessvc.ErrNotFound
		}
		return model.Experience{}, fmt.Errorf("update experience: %w", err)
	}

	return e, nil
}

func (r *ExperienceRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return experiencessvc.ErrNotFound
	}

	return nil
}

func scanExperience(row pgx.Row) (model.Experience, error) {
	var e model.Experience
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Company,
		&e.Location,
		&e.StartDate,
		&e.EndDate,
		&e.Current,
		&e.Description,
		&e.Position,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Experience{}, pgx.ErrNoRows
		}
		return model.Experience{}, fmt.Errorf("scan experience: %w", err)
	}
	return e, nil
}
