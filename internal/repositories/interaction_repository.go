package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

type InteractionRepository struct {
	db *sqlx.DB
}

func NewInteractionRepository(db *sqlx.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Create(ctx context.Context, in *models.Interaction) (int64, error) {
	const q = `
		INSERT INTO customer_interactions
			(customer_id, employee_id, interaction_type, subject, description, interaction_date)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(q),
		in.CustomerID, in.EmployeeID, in.InteractionType, in.Subject, in.Description, in.InteractionDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create interaction: %w", err)
	}
	return id, nil
}

// ListRecent returns the newest interactions of a customer with the employee
// name joined in.
func (r *InteractionRepository) ListRecent(ctx context.Context, customerID int64, limit int) ([]models.Interaction, error) {
	const q = `
		SELECT ci.id, ci.customer_id, ci.employee_id, ci.interaction_type, ci.subject,
			ci.description, ci.interaction_date,
			CASE WHEN e.id IS NULL THEN NULL ELSE e.first_name || ' ' || e.last_name END AS employee_name
		FROM customer_interactions ci
		LEFT JOIN employees e ON ci.employee_id = e.id
		WHERE ci.customer_id = ?
		ORDER BY ci.interaction_date DESC, ci.id DESC
		LIMIT ?`
	out := []models.Interaction{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), customerID, limit); err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return out, nil
}

func (r *InteractionRepository) CountByType(ctx context.Context, customerID int64) ([]models.InteractionTypeCount, error) {
	const q = `
		SELECT interaction_type, COUNT(*) AS count
		FROM customer_interactions
		WHERE customer_id = ?
		GROUP BY interaction_type
		ORDER BY interaction_type`
	out := []models.InteractionTypeCount{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), customerID); err != nil {
		return nil, fmt.Errorf("count interactions by type: %w", err)
	}
	return out, nil
}

// DatesSince returns the interaction timestamps at or after since. Month
// bucketing happens in Go so the query stays portable across engines.
func (r *InteractionRepository) DatesSince(ctx context.Context, customerID int64, since time.Time) ([]time.Time, error) {
	const q = `
		SELECT interaction_date
		FROM customer_interactions
		WHERE customer_id = ? AND interaction_date >= ?
		ORDER BY interaction_date`
	out := []time.Time{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), customerID, since); err != nil {
		return nil, fmt.Errorf("list interaction dates: %w", err)
	}
	return out, nil
}

func (r *InteractionRepository) EmployeeInvolvement(ctx context.Context, customerID int64) ([]models.EmployeeInvolvement, error) {
	const q = `
		SELECT e.first_name || ' ' || e.last_name AS employee_name,
			COUNT(ci.id) AS interaction_count
		FROM customer_interactions ci
		JOIN employees e ON ci.employee_id = e.id
		WHERE ci.customer_id = ?
		GROUP BY e.id, e.first_name, e.last_name
		ORDER BY interaction_count DESC, employee_name`
	out := []models.EmployeeInvolvement{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), customerID); err != nil {
		return nil, fmt.Errorf("employee involvement: %w", err)
	}
	return out, nil
}
