package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Column types that differ between the two supported engines.
var dialectTypes = map[string]*strings.Replacer{
	DriverPostgres: strings.NewReplacer(
		"{{pk}}", "SERIAL PRIMARY KEY",
		"{{ts}}", "TIMESTAMPTZ",
	),
	DriverSQLite: strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ts}}", "TIMESTAMP",
	),
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS service_categories (
		id {{pk}},
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id {{pk}},
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE,
		phone VARCHAR(32),
		department VARCHAR(100),
		position VARCHAR(100),
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id {{pk}},
		company_name VARCHAR(255) NOT NULL,
		contact_name VARCHAR(255),
		email VARCHAR(255),
		phone VARCHAR(32),
		address TEXT,
		city VARCHAR(100),
		state VARCHAR(100),
		zip_code VARCHAR(20),
		country VARCHAR(100),
		website VARCHAR(255),
		service_category_id INTEGER REFERENCES service_categories(id) ON DELETE SET NULL,
		priority VARCHAR(16) NOT NULL DEFAULT 'Medium'
			CHECK (priority IN ('Low', 'Medium', 'High', 'Critical')),
		status VARCHAR(16) NOT NULL DEFAULT 'Pending Plan'
			CHECK (status IN ('Pending Plan', 'Planning', 'Active', 'On Hold', 'Completed', 'Cancelled')),
		first_contact_date {{ts}},
		last_contact_date {{ts}},
		notes TEXT,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS customer_employees (
		id {{pk}},
		customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		employee_id INTEGER NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		role VARCHAR(100),
		assigned_date {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (customer_id, employee_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customer_interactions (
		id {{pk}},
		customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		employee_id INTEGER REFERENCES employees(id) ON DELETE SET NULL,
		interaction_type VARCHAR(16) NOT NULL
			CHECK (interaction_type IN ('Call', 'Email', 'Meeting', 'Note', 'Proposal', 'Contract')),
		subject VARCHAR(255),
		description TEXT,
		interaction_date {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customer_interactions_customer_id ON customer_interactions(customer_id)`,
	`CREATE TABLE IF NOT EXISTS goal_plans (
		id {{pk}},
		customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finalized_at {{ts}}
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goal_plans_customer_id ON goal_plans(customer_id)`,
	`CREATE TABLE IF NOT EXISTS goal_steps (
		id {{pk}},
		goal_plan_id INTEGER NOT NULL REFERENCES goal_plans(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at {{ts}},
		sort_order INTEGER NOT NULL DEFAULT 1,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goal_steps_goal_plan_id ON goal_steps(goal_plan_id)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id {{pk}},
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		source VARCHAR(100),
		status VARCHAR(16) NOT NULL DEFAULT 'new'
			CHECK (status IN ('new', 'contacted', 'converted')),
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS lead_notes (
		id {{pk}},
		lead_id INTEGER NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		note TEXT NOT NULL,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id {{pk}},
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var seeds = []string{
	`INSERT INTO service_categories (name, description) VALUES
		('Consulting', 'Business consulting services'),
		('Software Development', 'Custom software solutions'),
		('Marketing', 'Marketing and advertising services'),
		('Support', 'Technical support and maintenance'),
		('Training', 'Employee training programs')
	ON CONFLICT (name) DO NOTHING`,
	`INSERT INTO employees (first_name, last_name, email, department, position) VALUES
		('John', 'Smith', 'john.smith@company.com', 'Sales', 'Account Manager'),
		('Sarah', 'Johnson', 'sarah.johnson@company.com', 'Sales', 'Senior Account Manager'),
		('Mike', 'Davis', 'mike.davis@company.com', 'Support', 'Support Specialist'),
		('Emily', 'Brown', 'emily.brown@company.com', 'Consulting', 'Senior Consultant'),
		('David', 'Wilson', 'david.wilson@company.com', 'Development', 'Project Manager')
	ON CONFLICT (email) DO NOTHING`,
}

// Bootstrap creates missing tables and seeds the reference rows. It is safe to
// run on every start.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	r, ok := dialectTypes[db.DriverName()]
	if !ok {
		return fmt.Errorf("bootstrap: unsupported driver %q", db.DriverName())
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	for _, stmt := range seeds {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap seeds: %w", err)
		}
	}
	return nil
}
