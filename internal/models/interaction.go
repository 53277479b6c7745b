package models

import "time"

type InteractionType string

const (
	InteractionCall     InteractionType = "Call"
	InteractionEmail    InteractionType = "Email"
	InteractionMeeting  InteractionType = "Meeting"
	InteractionNote     InteractionType = "Note"
	InteractionProposal InteractionType = "Proposal"
	InteractionContract InteractionType = "Contract"
)

var InteractionTypes = []InteractionType{
	InteractionCall, InteractionEmail, InteractionMeeting,
	InteractionNote, InteractionProposal, InteractionContract,
}

func (t InteractionType) Valid() bool {
	for _, v := range InteractionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Interaction struct {
	ID              int64           `json:"id" db:"id"`
	CustomerID      int64           `json:"customer_id" db:"customer_id"`
	EmployeeID      *int64          `json:"employee_id" db:"employee_id"`
	EmployeeName    *string         `json:"employee_name" db:"employee_name"`
	InteractionType InteractionType `json:"interaction_type" db:"interaction_type"`
	Subject         *string         `json:"subject" db:"subject"`
	Description     *string         `json:"description" db:"description"`
	InteractionDate time.Time       `json:"interaction_date" db:"interaction_date"`
}

// CustomerStatistics feeds the charts of the customer detail modal.
type CustomerStatistics struct {
	InteractionTypes    []InteractionTypeCount `json:"interactionTypes"`
	MonthlyTrend        []MonthCount           `json:"monthlyTrend"`
	EmployeeInvolvement []EmployeeInvolvement  `json:"employeeInvolvement"`
}

type InteractionTypeCount struct {
	InteractionType InteractionType `json:"interaction_type" db:"interaction_type"`
	Count           int             `json:"count" db:"count"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type EmployeeInvolvement struct {
	EmployeeName     string `json:"employee_name" db:"employee_name"`
	InteractionCount int    `json:"interaction_count" db:"interaction_count"`
}

// DashboardStats is the roster-wide breakdown of GET /dashboard/stats.
type DashboardStats struct {
	TotalCustomers int             `json:"totalCustomers"`
	ByStatus       []StatusCount   `json:"byStatus"`
	ByPriority     []PriorityCount `json:"byPriority"`
	ByCategory     []CategoryCount `json:"byCategory"`
}

type StatusCount struct {
	Status CustomerStatus `json:"status" db:"status"`
	Count  int            `json:"count" db:"count"`
}

type PriorityCount struct {
	Priority CustomerPriority `json:"priority" db:"priority"`
	Count    int              `json:"count" db:"count"`
}

type CategoryCount struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}

// InteractionInput is the body of POST /customers/:id/interactions.
type InteractionInput struct {
	EmployeeID      *int64          `json:"employee_id"`
	InteractionType InteractionType `json:"interaction_type" binding:"required,interaction_type"`
	Subject         *string         `json:"subject"`
	Description     *string         `json:"description"`
	InteractionDate *time.Time      `json:"interaction_date"`
}
