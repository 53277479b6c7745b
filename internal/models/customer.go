package models

import "time"

// CustomerStatus is the lifecycle label shown in the roster. Once a goal plan
// is finalized it is driven by step completion.
type CustomerStatus string

const (
	CustomerPendingPlan CustomerStatus = "Pending Plan"
	CustomerPlanning    CustomerStatus = "Planning"
	CustomerActive      CustomerStatus = "Active"
	CustomerOnHold      CustomerStatus = "On Hold"
	CustomerCompleted   CustomerStatus = "Completed"
	CustomerCancelled   CustomerStatus = "Cancelled"
)

var CustomerStatuses = []CustomerStatus{
	CustomerPendingPlan, CustomerPlanning, CustomerActive,
	CustomerOnHold, CustomerCompleted, CustomerCancelled,
}

func (s CustomerStatus) Valid() bool {
	for _, v := range CustomerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type CustomerPriority string

const (
	PriorityLow      CustomerPriority = "Low"
	PriorityMedium   CustomerPriority = "Medium"
	PriorityHigh     CustomerPriority = "High"
	PriorityCritical CustomerPriority = "Critical"
)

var CustomerPriorities = []CustomerPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p CustomerPriority) Valid() bool {
	for _, v := range CustomerPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Customer is one row of the customers table.
type Customer struct {
	ID                int64            `json:"id" db:"id"`
	CompanyName       string           `json:"company_name" db:"company_name"`
	ContactName       *string          `json:"contact_name" db:"contact_name"`
	Email             *string          `json:"email" db:"email"`
	Phone             *string          `json:"phone" db:"phone"`
	Address           *string          `json:"address" db:"address"`
	City              *string          `json:"city" db:"city"`
	State             *string          `json:"state" db:"state"`
	ZipCode           *string          `json:"zip_code" db:"zip_code"`
	Country           *string          `json:"country" db:"country"`
	Website           *string          `json:"website" db:"website"`
	ServiceCategoryID *int64           `json:"service_category_id" db:"service_category_id"`
	Priority          CustomerPriority `json:"priority" db:"priority"`
	Status            CustomerStatus   `json:"status" db:"status"`
	FirstContactDate  *time.Time       `json:"first_contact_date" db:"first_contact_date"`
	LastContactDate   *time.Time       `json:"last_contact_date" db:"last_contact_date"`
	Notes             *string          `json:"notes" db:"notes"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// CustomerSummary is a roster row: a customer with a finalized plan plus the
// joined and computed columns the dashboard table renders.
type CustomerSummary struct {
	Customer
	ServiceCategoryName *string  `json:"service_category_name" db:"service_category_name"`
	EmployeeCount       int      `json:"employee_count" db:"-"`
	EmployeeNames       *string  `json:"employee_names" db:"-"`
	YearsKnown          int      `json:"years_known" db:"-"`
	TotalSteps          int      `json:"total_steps" db:"total_steps"`
	CompletedSteps      int      `json:"completed_steps" db:"completed_steps"`
	ProgressPercentage  int      `json:"progress_percentage" db:"-"`
}

// PendingCustomer is a customer without a finalized plan.
type PendingCustomer struct {
	Customer
	ServiceCategoryName *string `json:"service_category_name" db:"service_category_name"`
	HasPlan             bool    `json:"has_plan" db:"has_plan"`
	StepCount           int     `json:"step_count" db:"step_count"`
}

// CustomerDetail is the payload of GET /customers/:id.
type CustomerDetail struct {
	Customer
	ServiceCategoryName        *string            `json:"service_category_name" db:"service_category_name"`
	ServiceCategoryDescription *string            `json:"service_category_description" db:"service_category_description"`
	YearsKnown                 int                `json:"years_known" db:"-"`
	Employees                  []AssignedEmployee `json:"employees" db:"-"`
	Interactions               []Interaction      `json:"interactions" db:"-"`
	GoalPlan                   *GoalPlanView      `json:"goal_plan" db:"-"`
}

// CustomerFilter is the predicate the roster is narrowed with. Empty fields
// match everything.
type CustomerFilter struct {
	Status   CustomerStatus
	Priority CustomerPriority
	Search   string
}

// CustomerInput is the body of POST /customers.
type CustomerInput struct {
	CompanyName       string           `json:"company_name" binding:"required"`
	ContactName       *string          `json:"contact_name"`
	Email             *string          `json:"email" binding:"omitempty,email"`
	Phone             *string          `json:"phone"`
	Address           *string          `json:"address"`
	City              *string          `json:"city"`
	State             *string          `json:"state"`
	ZipCode           *string          `json:"zip_code"`
	Country           *string          `json:"country"`
	Website           *string          `json:"website"`
	ServiceCategoryID *int64           `json:"service_category_id"`
	Priority          CustomerPriority `json:"priority" binding:"omitempty,customer_priority"`
	Status            CustomerStatus   `json:"status" binding:"omitempty,customer_status"`
	FirstContactDate  *time.Time       `json:"first_contact_date"`
	Notes             *string          `json:"notes"`
}
