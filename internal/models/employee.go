package models

import "time"

type Employee struct {
	ID         int64     `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      *string   `json:"email" db:"email"`
	Phone      *string   `json:"phone" db:"phone"`
	Department *string   `json:"department" db:"department"`
	Position   *string   `json:"position" db:"position"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// AssignedEmployee is an employee as seen from one customer.
type AssignedEmployee struct {
	Employee
	CustomerID   int64     `json:"-" db:"customer_id"`
	Role         *string   `json:"role" db:"role"`
	AssignedDate time.Time `json:"assigned_date" db:"assigned_date"`
}

type ServiceCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AssignmentInput is the body of POST /customers/:id/employees.
type AssignmentInput struct {
	EmployeeID int64   `json:"employee_id" binding:"required"`
	Role       *string `json:"role"`
}
