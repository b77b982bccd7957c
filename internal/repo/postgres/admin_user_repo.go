package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/m2dev/codefolio/internal/domain/model"
	authsvc "github.com/m2dev/codefolio/internal/services/auth"
)

type AdminUserRepo struct {
	pool *pgxpool.Pool
}

func NewAdminUserRepo(pool *pgxpool.Pool) *AdminUserRepo {
	return &AdminUserRepo{pool: pool}
}

func (r *AdminUserRepo) GetByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	if r.pool == nil {
		return model.AdminUser{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, created_at
FROM admin_users
WHERE lower(email) = lower($1)
`, strings.TrimSpace(email))

	var u model.AdminUser
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AdminUser{}, authsvc.ErrUserNotFound
		}
		return model.AdminUser{}, fmt.Errorf("scan admin user: %w", err)
	}

	return u, nil
}
