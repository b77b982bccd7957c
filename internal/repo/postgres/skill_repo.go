package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m2dev/codefolio/internal/domain/model"
	skillssvc "github.com/m2dev/codefolio/internal/services/skills"
)

type SkillRepo struct {
	pool *pgxpool.Pool
}

func NewSkillRepo(pool *pgxpool.Pool) *SkillRepo {
	return &SkillRepo{pool: pool}
}

const skillColumns = `id, name, category, level, icon, position, created_at, updated_at`

func (r *SkillRepo) List(ctx context.Context) ([]model.Skill, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+skillColumns+`
FROM skills
ORDER BY category ASC, position ASC, name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var skills []model.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}

	return skills, nil
}

func (r *SkillRepo) GetByID(ctx context.Context, id string) (model.Skill, error) {
	if r.pool == nil {
		return model.Skill{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+skillColumns+`
FROM skills
WHERE id = $1
`, id)

	s, err := scanSkill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Skill{}, skillssvc.ErrNotFound
		}
		return model.Skill{}, err
	}

	return s, nil
}

func (r *SkillRepo) Create(ctx context.Context, input model.SkillInput) (model.Skill, error) {
	if r.pool == nil {
		return model.Skill{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO skills (id, name, category, level, icon, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING `+skillColumns+`
`, uuid.NewString(), input.Name, input.Category, input.Level, input.Icon, input.Position)

	s, err := scanSkill(row)
	if err != nil {
		return model.Skill{}, fmt.Errorf("insert skill: %w", err)
	}

	return s, nil
}

func (r *SkillRepo) Update(ctx context.Context, id string, input model.SkillInput) (model.Skill, error) {
	if r.pool == nil {
		return model.Skill{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
UPDATE skills SET
	name = $2,
	category = $3,
	level = $4,
	icon = $5,
	position = $6,
	updated_at = NOW()
WHERE id = $1
RETURNING `+skillColumns+`
`, id, input.Name, input.Category, input.Level, input.Icon, input.Position)

	s, err := scanSkill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Skill{}, skillssvc.ErrNotFound
		}
		return model.Skill{}, fmt.Errorf("update skill: %w", err)
	}

	return s, nil
}

func (r *SkillRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return skillssvc.ErrNotFound
	}

	return nil
}

func scanSkill(row pgx.Row) (model.Skill, error) {
	var s model.Skill
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&s.Level,
		&s.Icon,
		&s.Position,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Skill{}, pgx.ErrNoRows
		}
		return model.Skill{}, fmt.Errorf("scan skill: %w", err)
	}
	return s, nil
}
