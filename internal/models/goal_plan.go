package models

import "time"

// PlanState is where a customer sits in the goal-plan lifecycle.
// FinalizedComplete is never stored: it is derived from step completion.
type PlanState string

const (
	PlanNone              PlanState = "NO_PLAN"
	PlanDraft             PlanState = "DRAFT"
	PlanFinalizedActive   PlanState = "FINALIZED_ACTIVE"
	PlanFinalizedComplete PlanState = "FINALIZED_COMPLETE"
)

type GoalPlan struct {
	ID          int64      `json:"id" db:"id"`
	CustomerID  int64      `json:"customer_id" db:"customer_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	FinalizedAt *time.Time `json:"finalized_at" db:"finalized_at"`
}

func (p *GoalPlan) Finalized() bool {
	return p != nil && p.FinalizedAt != nil
}

type GoalStep struct {
	ID          int64      `json:"id" db:"id"`
	GoalPlanID  int64      `json:"goal_plan_id" db:"goal_plan_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	IsCompleted bool       `json:"is_completed" db:"is_completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	SortOrder   int        `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// StepUpdate is a partial update; nil fields are left untouched.
type StepUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func (u StepUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.IsCompleted == nil
}

// StepCounts is the aggregate the customer status is recomputed from.
type StepCounts struct {
	Total     int `json:"total_steps" db:"total"`
	Completed int `json:"completed_steps" db:"completed"`
}

// GoalPlanView is a plan with its ordered steps and derived progress.
type GoalPlanView struct {
	GoalPlan
	State              PlanState  `json:"state"`
	Steps              []GoalStep `json:"steps"`
	TotalSteps         int        `json:"total_steps"`
	CompletedSteps     int        `json:"completed_steps"`
	ProgressPercentage int        `json:"progress_percentage"`
}
