package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m2dev/codefolio/internal/domain/model"
	profilessvc "github.com/m2dev/codefolio/internal/services/profiles"
)

// profileRowID pins the singleton row. Every write is an upsert against it.
const profileRowID = "profile"

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

const profileColumns = `id, name, title, bio, email, phone, location, website, github, linkedin, avatar_url, updated_at`

func (r *ProfileRepo) Get(ctx context.Context) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE id = $1
`, profileRowID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, profilessvc.ErrNotFound
		}
		return model.Profile{}, err
	}

	return p, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, input model.ProfileInput) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO profiles (id, name, title, bio, email, phone, location, website, github, linkedin, avatar_url, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	title = EXCLUDED.title,
	bio = EXCLUDED.bio,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	location = EXCLUDED.location,
	website = EXCLUDED.website,
	github = EXCLUDED.github,
	linkedin = EXCLUDED.linkedin,
	avatar_url = EXCLUDED.avatar_url,
	updated_at = NOW()
RETURNING `+profileColumns+`
`, profileRowID, input.Name, input.Title, input.Bio, input.Email, input.Phone, input.Location, input.Website, input.Github, input.Linkedin, input.AvatarURL)

	p, err := scanProfile(row)
	if err != nil {
		return model.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}

	return p, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Title,
		&p.Bio,
		&p.Email,
		&p.Phone,
		&p.Location,
		&p.Website,
		&p.Github,
		&p.Linkedin,
		&p.AvatarURL,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, pgx.ErrNoRows
		}
		return model.Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	return p, nil
}
