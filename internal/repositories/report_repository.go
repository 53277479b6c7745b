package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CountCustomers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM customers`); err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

func (r *ReportRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return selectCounts[models.StatusCount](ctx, r.db, "count by status", `
		SELECT status, COUNT(*) AS count
		FROM customers
		GROUP BY status
		ORDER BY status`)
}

func (r *ReportRepository) CountByPriority(ctx context.Context) ([]models.PriorityCount, error) {
	return selectCounts[models.PriorityCount](ctx, r.db, "count by priority", `
		SELECT priority, COUNT(*) AS count
		FROM customers
		GROUP BY priority
		ORDER BY priority`)
}

func (r *ReportRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	return selectCounts[models.CategoryCount](ctx, r.db, "count by category", `
		SELECT sc.name, COUNT(c.id) AS count
		FROM service_categories sc
		LEFT JOIN customers c ON sc.id = c.service_category_id
		GROUP BY sc.id, sc.name
		ORDER BY sc.name`)
}

func selectCounts[T any](ctx context.Context, db *sqlx.DB, op, q string) ([]T, error) {
	out := []T{}
	if err := db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
