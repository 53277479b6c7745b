package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

type EmployeeRepository struct {
	db *sqlx.DB
}

func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	const q = `
		SELECT id, first_name, last_name, email, phone, department, position, created_at
		FROM employees
		ORDER BY last_name, first_name`
	out := []models.Employee{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return out, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	const q = `
		SELECT id, first_name, last_name, email, phone, department, position, created_at
		FROM employees
		WHERE id = ?`
	var e models.Employee
	if err := r.db.GetContext(ctx, &e, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return &e, nil
}

// ListForCustomer returns the employees assigned to one customer.
func (r *EmployeeRepository) ListForCustomer(ctx context.Context, customerID int64) ([]models.AssignedEmployee, error) {
	const q = `
		SELECT e.id, e.first_name, e.last_name, e.email, e.phone, e.department,
			e.position, e.created_at, ce.customer_id, ce.role, ce.assigned_date
		FROM customer_employees ce
		JOIN employees e ON ce.employee_id = e.id
		WHERE ce.customer_id = ?
		ORDER BY e.last_name, e.first_name`
	out := []models.AssignedEmployee{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), customerID); err != nil {
		return nil, fmt.Errorf("list customer employees: %w", err)
	}
	return out, nil
}

type ServiceCategoryRepository struct {
	db *sqlx.DB
}

func NewServiceCategoryRepository(db *sqlx.DB) *ServiceCategoryRepository {
	return &ServiceCategoryRepository{db: db}
}

func (r *ServiceCategoryRepository) List(ctx context.Context) ([]models.ServiceCategory, error) {
	const q = `SELECT id, name, description, created_at FROM service_categories ORDER BY name`
	out := []models.ServiceCategory{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return out, nil
}

func (r *ServiceCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM service_categories WHERE id = ?`), id); err != nil {
		return false, fmt.Errorf("service category exists: %w", err)
	}
	return n > 0, nil
}
