package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"crmdesk/internal/models"
)

const customerColumns = `
	c.id, c.company_name, c.contact_name, c.email, c.phone, c.address, c.city,
	c.state, c.zip_code, c.country, c.website, c.service_category_id, c.priority,
	c.status, c.first_contact_date, c.last_contact_date, c.notes, c.created_at,
	c.updated_at`

// latestPlanJoin picks the newest plan row when a customer has more than one.
const latestPlanJoin = `gp.id = (SELECT MAX(id) FROM goal_plans WHERE customer_id = c.id)`

// CustomerUpdatableFields lists the columns PUT /customers/:id may touch.
var CustomerUpdatableFields = []string{
	"company_name", "contact_name", "email", "phone", "address", "city",
	"state", "zip_code", "country", "website", "service_category_id",
	"priority", "status", "first_contact_date", "last_contact_date", "notes",
}

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) (int64, error) {
	const q = `
		INSERT INTO customers (
			company_name, contact_name, email, phone, address, city, state,
			zip_code, country, website, service_category_id, priority, status,
			first_contact_date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(q),
		c.CompanyName, c.ContactName, c.Email, c.Phone, c.Address, c.City, c.State,
		c.ZipCode, c.Country, c.Website, c.ServiceCategoryID, c.Priority, c.Status,
		c.FirstContactDate, c.Notes, c.CreatedAt, c.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

// Update writes only the given columns. Keys must come from
// CustomerUpdatableFields; anything else is rejected.
func (r *CustomerRepository) Update(ctx context.Context, id int64, fields map[string]any, now time.Time) (bool, error) {
	allowed := make(map[string]bool, len(CustomerUpdatableFields))
	for _, f := range CustomerUpdatableFields {
		allowed[f] = true
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	// fixed order keeps the statement stable for the same field set
	for _, f := range CustomerUpdatableFields {
		v, ok := fields[f]
		if !ok {
			continue
		}
		sets = append(sets, f+" = ?")
		args = append(args, v)
	}
	for f := range fields {
		if !allowed[f] {
			return false, fmt.Errorf("update customer: field %q not allowed", f)
		}
	}
	if len(sets) == 0 {
		return false, errors.New("update customer: no fields")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	q := "UPDATE customers SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return false, fmt.Errorf("update customer: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM customers WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete customer: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers c WHERE c.id = ?`
	var c models.Customer
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// GetDetail loads the customer with its service category. Employees,
// interactions and the plan are attached by the service.
func (r *CustomerRepository) GetDetail(ctx context.Context, id int64) (*models.CustomerDetail, error) {
	q := `
		SELECT ` + customerColumns + `,
			sc.name AS service_category_name,
			sc.description AS service_category_description
		FROM customers c
		LEFT JOIN service_categories sc ON c.service_category_id = sc.id
		WHERE c.id = ?`
	var d models.CustomerDetail
	if err := r.db.GetContext(ctx, &d, r.db.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer detail: %w", err)
	}
	return &d, nil
}

// ListFinalized returns the main roster: customers whose latest plan is
// finalized, with step counts for progress.
func (r *CustomerRepository) ListFinalized(ctx context.Context) ([]models.CustomerSummary, error) {
	q := `
		SELECT ` + customerColumns + `,
			sc.name AS service_category_name,
			COUNT(gs.id) AS total_steps,
			COALESCE(SUM(CASE WHEN gs.is_completed THEN 1 ELSE 0 END), 0) AS completed_steps
		FROM customers c
		JOIN goal_plans gp ON ` + latestPlanJoin + `
		LEFT JOIN service_categories sc ON c.service_category_id = sc.id
		LEFT JOIN goal_steps gs ON gs.goal_plan_id = gp.id
		WHERE gp.finalized_at IS NOT NULL
		GROUP BY c.id, sc.name
		ORDER BY c.created_at DESC, c.id DESC`
	out := []models.CustomerSummary{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

// ListPending returns customers with no plan or a draft plan.
func (r *CustomerRepository) ListPending(ctx context.Context) ([]models.PendingCustomer, error) {
	q := `
		SELECT ` + customerColumns + `,
			sc.name AS service_category_name,
			CASE WHEN gp.id IS NULL THEN 0 ELSE 1 END AS has_plan,
			(SELECT COUNT(*) FROM goal_steps gs WHERE gs.goal_plan_id = gp.id) AS step_count
		FROM customers c
		LEFT JOIN goal_plans gp ON ` + latestPlanJoin + `
		LEFT JOIN service_categories sc ON c.service_category_id = sc.id
		WHERE gp.id IS NULL OR gp.finalized_at IS NULL
		ORDER BY c.created_at DESC, c.id DESC`
	out := []models.PendingCustomer{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list pending customers: %w", err)
	}
	return out, nil
}

// ListAssignments returns the employees assigned to any of the given customers.
func (r *CustomerRepository) ListAssignments(ctx context.Context, customerIDs []int64) ([]models.AssignedEmployee, error) {
	out := []models.AssignedEmployee{}
	if len(customerIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
		SELECT e.id, e.first_name, e.last_name, e.email, e.phone, e.department,
			e.position, e.created_at, ce.customer_id, ce.role, ce.assigned_date
		FROM customer_employees ce
		JOIN employees e ON ce.employee_id = e.id
		WHERE ce.customer_id IN (?)
		ORDER BY ce.customer_id, e.last_name, e.first_name`, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// AssignEmployee links an employee to a customer, replacing the role when the
// pair already exists.
func (r *CustomerRepository) AssignEmployee(ctx context.Context, customerID, employeeID int64, role *string, at time.Time) error {
	const q = `
		INSERT INTO customer_employees (customer_id, employee_id, role, assigned_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (customer_id, employee_id) DO UPDATE SET role = excluded.role`
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), customerID, employeeID, role, at); err != nil {
		return fmt.Errorf("assign employee: %w", err)
	}
	return nil
}
