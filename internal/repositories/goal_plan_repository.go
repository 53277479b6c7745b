package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

// GoalPlanRepository persists plans and steps and owns the one customer column
// the plan drives (status), so a step write and the status recompute can share
// a transaction.
type GoalPlanRepository interface {
	// InTx runs fn against a transaction-bound repository. Nested calls reuse
	// the outer transaction.
	InTx(ctx context.Context, fn func(repo GoalPlanRepository) error) error

	LatestForCustomer(ctx context.Context, customerID int64) (*models.GoalPlan, error)
	Create(ctx context.Context, customerID int64, at time.Time) (*models.GoalPlan, error)
	SetFinalized(ctx context.Context, planID int64, at time.Time) error

	ListSteps(ctx context.Context, planID int64) ([]models.GoalStep, error)
	GetStep(ctx context.Context, planID, stepID int64) (*models.GoalStep, error)
	NextSortOrder(ctx context.Context, planID int64) (int, error)
	InsertStep(ctx context.Context, step *models.GoalStep) error
	SaveStep(ctx context.Context, step *models.GoalStep) error
	DeleteStep(ctx context.Context, planID, stepID int64) (bool, error)
	CountSteps(ctx context.Context, planID int64) (models.StepCounts, error)

	SetCustomerStatus(ctx context.Context, customerID int64, status models.CustomerStatus, at time.Time) error
}

type goalPlanRepository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewGoalPlanRepository(db *sqlx.DB) GoalPlanRepository {
	return &goalPlanRepository{db: db, q: db}
}

func (r *goalPlanRepository) InTx(ctx context.Context, fn func(repo GoalPlanRepository) error) error {
	if _, ok := r.q.(*sqlx.Tx); ok {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&goalPlanRepository{db: r.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *goalPlanRepository) LatestForCustomer(ctx context.Context, customerID int64) (*models.GoalPlan, error) {
	const q = `
		SELECT id, customer_id, created_at, finalized_at
		FROM goal_plans
		WHERE customer_id = ?
		ORDER BY id DESC
		LIMIT 1`
	var p models.GoalPlan
	if err := sqlx.GetContext(ctx, r.q, &p, r.q.Rebind(q), customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal plan: %w", err)
	}
	return &p, nil
}

func (r *goalPlanRepository) Create(ctx context.Context, customerID int64, at time.Time) (*models.GoalPlan, error) {
	const q = `INSERT INTO goal_plans (customer_id, created_at) VALUES (?, ?) RETURNING id`
	p := &models.GoalPlan{CustomerID: customerID, CreatedAt: at}
	if err := r.q.QueryRowxContext(ctx, r.q.Rebind(q), customerID, at).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("create goal plan: %w", err)
	}
	return p, nil
}

func (r *goalPlanRepository) SetFinalized(ctx context.Context, planID int64, at time.Time) error {
	const q = `UPDATE goal_plans SET finalized_at = ? WHERE id = ?`
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(q), at, planID); err != nil {
		return fmt.Errorf("finalize goal plan: %w", err)
	}
	return nil
}

const stepColumns = `id, goal_plan_id, title, description, is_completed, completed_at, sort_order, created_at`

func (r *goalPlanRepository) ListSteps(ctx context.Context, planID int64) ([]models.GoalStep, error) {
	q := `SELECT ` + stepColumns + ` FROM goal_steps WHERE goal_plan_id = ? ORDER BY sort_order, id`
	out := []models.GoalStep{}
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(q), planID); err != nil {
		return nil, fmt.Errorf("list goal steps: %w", err)
	}
	return out, nil
}

func (r *goalPlanRepository) GetStep(ctx context.Context, planID, stepID int64) (*models.GoalStep, error) {
	q := `SELECT ` + stepColumns + ` FROM goal_steps WHERE id = ? AND goal_plan_id = ?`
	var s models.GoalStep
	if err := sqlx.GetContext(ctx, r.q, &s, r.q.Rebind(q), stepID, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goal step: %w", err)
	}
	return &s, nil
}

func (r *goalPlanRepository) NextSortOrder(ctx context.Context, planID int64) (int, error) {
	const q = `SELECT COALESCE(MAX(sort_order), 0) FROM goal_steps WHERE goal_plan_id = ?`
	var max int
	if err := sqlx.GetContext(ctx, r.q, &max, r.q.Rebind(q), planID); err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}
	return max + 1, nil
}

func (r *goalPlanRepository) InsertStep(ctx context.Context, s *models.GoalStep) error {
	const q = `
		INSERT INTO goal_steps
			(goal_plan_id, title, description, is_completed, completed_at, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := r.q.QueryRowxContext(ctx, r.q.Rebind(q),
		s.GoalPlanID, s.Title, s.Description, s.IsCompleted, s.CompletedAt, s.SortOrder, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert goal step: %w", err)
	}
	return nil
}

// SaveStep writes the mutable columns of a step in one statement, so
// is_completed and completed_at can never disagree on disk.
func (r *goalPlanRepository) SaveStep(ctx context.Context, s *models.GoalStep) error {
	const q = `
		UPDATE goal_steps
		SET title = ?, description = ?, is_completed = ?, completed_at = ?
		WHERE id = ? AND goal_plan_id = ?`
	_, err := r.q.ExecContext(ctx, r.q.Rebind(q),
		s.Title, s.Description, s.IsCompleted, s.CompletedAt, s.ID, s.GoalPlanID,
	)
	if err != nil {
		return fmt.Errorf("update goal step: %w", err)
	}
	return nil
}

func (r *goalPlanRepository) DeleteStep(ctx context.Context, planID, stepID int64) (bool, error) {
	const q = `DELETE FROM goal_steps WHERE id = ? AND goal_plan_id = ?`
	res, err := r.q.ExecContext(ctx, r.q.Rebind(q), stepID, planID)
	if err != nil {
		return false, fmt.Errorf("delete goal step: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *goalPlanRepository) CountSteps(ctx context.Context, planID int64) (models.StepCounts, error) {
	const q = `
		SELECT COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed
		FROM goal_steps
		WHERE goal_plan_id = ?`
	var c models.StepCounts
	if err := sqlx.GetContext(ctx, r.q, &c, r.q.Rebind(q), planID); err != nil {
		return c, fmt.Errorf("count goal steps: %w", err)
	}
	return c, nil
}

func (r *goalPlanRepository) SetCustomerStatus(ctx context.Context, customerID int64, status models.CustomerStatus, at time.Time) error {
	const q = `UPDATE customers SET status = ?, updated_at = ? WHERE id = ?`
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(q), status, at, customerID); err != nil {
		return fmt.Errorf("set customer status: %w", err)
	}
	return nil
}
