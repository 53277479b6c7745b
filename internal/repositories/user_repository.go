package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Count(ctx context.Context) (int, error)
}

type adminUserRepository struct {
	db *sqlx.DB
}

func NewAdminUserRepository(db *sqlx.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	const q = `
		INSERT INTO admin_users (email, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id`
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(q),
		strings.ToLower(user.Email), user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	const q = `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = ?`
	var u models.AdminUser
	if err := r.db.GetContext(ctx, &u, r.db.Rebind(q), strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin user by email: %w", err)
	}
	return &u, nil
}

func (r *adminUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admin_users`); err != nil {
		return 0, fmt.Errorf("count admin users: %w", err)
	}
	return n, nil
}
