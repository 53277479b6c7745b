package services

import (
	"context"
	"log"
	"strings"
	"time"

	"crmdesk/internal/metrics"
	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
)

// DefaultStepTitle replaces blank step titles.
const DefaultStepTitle = "New step"

// GoalPlanService runs the goal-plan lifecycle of a customer:
// NO_PLAN -> DRAFT -> FINALIZED_ACTIVE <-> FINALIZED_COMPLETE.
type GoalPlanService struct {
	plans     repositories.GoalPlanRepository
	customers *repositories.CustomerRepository
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewGoalPlanService(plans repositories.GoalPlanRepository, customers *repositories.CustomerRepository, m *metrics.Metrics) *GoalPlanService {
	return &GoalPlanService{
		plans:     plans,
		customers: customers,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *GoalPlanService) requireCustomer(ctx context.Context, customerID int64) error {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return NewNotFoundError("customer")
	}
	return nil
}

// GetPlan returns the customer's current plan with steps and progress.
func (s *GoalPlanService) GetPlan(ctx context.Context, customerID int64) (*models.GoalPlanView, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	view, err := s.PlanSummary(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, NewNotFoundError("goal plan")
	}
	return view, nil
}

// PlanSummary is GetPlan without the customer check; nil when there is no plan.
func (s *GoalPlanService) PlanSummary(ctx context.Context, customerID int64) (*models.GoalPlanView, error) {
	plan, err := s.plans.LatestForCustomer(ctx, customerID)
	if err != nil || plan == nil {
		return nil, err
	}
	return s.view(ctx, s.plans, plan)
}

func (s *GoalPlanService) view(ctx context.Context, repo repositories.GoalPlanRepository, plan *models.GoalPlan) (*models.GoalPlanView, error) {
	steps, err := repo.ListSteps(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	counts := models.StepCounts{Total: len(steps)}
	for _, st := range steps {
		if st.IsCompleted {
			counts.Completed++
		}
	}
	return &models.GoalPlanView{
		GoalPlan:           *plan,
		State:              PlanStateOf(plan, counts),
		Steps:              steps,
		TotalSteps:         counts.Total,
		CompletedSteps:     counts.Completed,
		ProgressPercentage: ProgressPercentage(counts),
	}, nil
}

// CreatePlan opens an empty draft plan. A customer gets at most one.
func (s *GoalPlanService) CreatePlan(ctx context.Context, customerID int64) (*models.GoalPlan, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	var plan *models.GoalPlan
	err := s.plans.InTx(ctx, func(repo repositories.GoalPlanRepository) error {
		existing, err := repo.LatestForCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return NewConflictError("goal plan already exists for this customer")
		}
		plan, err = repo.Create(ctx, customerID, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[goalplan][create] customer=%d plan=%d", customerID, plan.ID)
	s.metrics.PlanTransition(string(models.PlanDraft))
	return plan, nil
}

// AddStep appends a step after the current last one.
func (s *GoalPlanService) AddStep(ctx context.Context, customerID int64, title string, description *string) (*models.GoalStep, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	step := &models.GoalStep{
		Title:       normalizeTitle(title),
		Description: description,
		CreatedAt:   s.now(),
	}
	err := s.plans.InTx(ctx, func(repo repositories.GoalPlanRepository) error {
		plan, err := repo.LatestForCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if plan == nil {
			return NewNotFoundError("goal plan")
		}
		order, err := repo.NextSortOrder(ctx, plan.ID)
		if err != nil {
			return err
		}
		step.GoalPlanID = plan.ID
		step.SortOrder = order
		return repo.InsertStep(ctx, step)
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

// UpdateStep applies a partial update and then recomputes the customer status
// from the plan's step counts.
func (s *GoalPlanService) UpdateStep(ctx context.Context, customerID, stepID int64, upd models.StepUpdate) (*models.GoalStep, error) {
	if upd.Empty() {
		return nil, NewValidationError("no valid fields to update")
	}
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	var step *models.GoalStep
	err := s.plans.InTx(ctx, func(repo repositories.GoalPlanRepository) error {
		plan, err := repo.LatestForCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if plan == nil {
			return NewNotFoundError("goal plan")
		}
		step, err = repo.GetStep(ctx, plan.ID, stepID)
		if err != nil {
			return err
		}
		if step == nil {
			return NewNotFoundError("goal step")
		}

		applyStepUpdate(step, upd, s.now())
		if err := repo.SaveStep(ctx, step); err != nil {
			return err
		}
		_, err = s.recomputeStatus(ctx, repo, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

func applyStepUpdate(step *models.GoalStep, upd models.StepUpdate, now time.Time) {
	if upd.Title != nil {
		step.Title = normalizeTitle(*upd.Title)
	}
	if upd.Description != nil {
		step.Description = upd.Description
	}
	// completed_at only moves when the flag flips
	if upd.IsCompleted != nil && *upd.IsCompleted != step.IsCompleted {
		step.IsCompleted = *upd.IsCompleted
		if step.IsCompleted {
			step.CompletedAt = &now
		} else {
			step.CompletedAt = nil
		}
	}
}

// recomputeStatus overwrites the owning customer's status from the plan's
// step counts. It runs for draft plans too, so a pending customer flips to
// Active on its first step edit, and it replaces manual values like On Hold.
func (s *GoalPlanService) recomputeStatus(ctx context.Context, repo repositories.GoalPlanRepository, plan *models.GoalPlan) (models.CustomerStatus, error) {
	counts, err := repo.CountSteps(ctx, plan.ID)
	if err != nil {
		return "", err
	}
	status := StatusForSteps(counts)
	if err := repo.SetCustomerStatus(ctx, plan.CustomerID, status, s.now()); err != nil {
		return "", err
	}
	log.Printf("[goalplan][recompute] customer=%d plan=%d completed=%d/%d status=%q",
		plan.CustomerID, plan.ID, counts.Completed, counts.Total, status)
	s.metrics.PlanTransition(string(PlanStateOf(plan, counts)))
	return status, nil
}

// DeleteStep removes a step. It does not recompute status and may leave a
// finalized plan empty.
func (s *GoalPlanService) DeleteStep(ctx context.Context, customerID, stepID int64) error {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return err
	}
	plan, err := s.plans.LatestForCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if plan == nil {
		return NewNotFoundError("goal plan")
	}
	deleted, err := s.plans.DeleteStep(ctx, plan.ID, stepID)
	if err != nil {
		return err
	}
	if !deleted {
		return NewNotFoundError("goal step")
	}
	return nil
}

// FinalizePlan stamps the plan and moves the customer into the roster as
// Active. The plan needs at least one step; finalizing twice is a conflict.
func (s *GoalPlanService) FinalizePlan(ctx context.Context, customerID int64) (*models.GoalPlanView, error) {
	if err := s.requireCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	var plan *models.GoalPlan
	err := s.plans.InTx(ctx, func(repo repositories.GoalPlanRepository) error {
		var err error
		plan, err = repo.LatestForCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if plan == nil {
			return NewNotFoundError("goal plan")
		}
		if plan.Finalized() {
			return NewConflictError("goal plan is already finalized")
		}
		counts, err := repo.CountSteps(ctx, plan.ID)
		if err != nil {
			return err
		}
		if counts.Total == 0 {
			return NewValidationError("cannot finalize a goal plan without steps")
		}

		now := s.now()
		if err := repo.SetFinalized(ctx, plan.ID, now); err != nil {
			return err
		}
		plan.FinalizedAt = &now
		return repo.SetCustomerStatus(ctx, customerID, models.CustomerActive, now)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[goalplan][finalize] customer=%d plan=%d", customerID, plan.ID)
	s.metrics.PlanTransition(string(models.PlanFinalizedActive))
	return s.view(ctx, s.plans, plan)
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultStepTitle
	}
	return title
}
