package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/models"
	"crmdesk/internal/repositories"
	"crmdesk/internal/testutil"
)

func newGoalPlanService(t *testing.T) (*GoalPlanService, *sqlx.DB) {
	db := testutil.NewDB(t)
	svc := NewGoalPlanService(repositories.NewGoalPlanRepository(db), repositories.NewCustomerRepository(db), nil)
	return svc, db
}

func customerStatus(t *testing.T, db *sqlx.DB, id int64) models.CustomerStatus {
	t.Helper()
	c, err := repositories.NewCustomerRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.Status
}

func TestGoalPlanLifecycle(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Acme")

	plan, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, plan.FinalizedAt)

	_, err = svc.FinalizePlan(ctx, id)
	assert.True(t, IsValidation(err), "finalize with zero steps: %v", err)

	step, err := svc.AddStep(ctx, id, "call", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, step.SortOrder)

	view, err := svc.FinalizePlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFinalizedActive, view.State)
	assert.NotNil(t, view.FinalizedAt)
	assert.Equal(t, models.CustomerActive, customerStatus(t, db, id))

	updated, err := svc.UpdateStep(ctx, id, step.ID, models.StepUpdate{IsCompleted: testutil.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, models.CustomerCompleted, customerStatus(t, db, id))

	view, err = svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFinalizedComplete, view.State)
	assert.Equal(t, 100, view.ProgressPercentage)
}

func TestCreatePlan(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()

	t.Run("Error - Unknown customer", func(t *testing.T) {
		_, err := svc.CreatePlan(ctx, 9999)
		assert.True(t, IsNotFound(err))
	})

	t.Run("Error - Second plan", func(t *testing.T) {
		id := testutil.CreateCustomer(t, db, "Twice")
		_, err := svc.CreatePlan(ctx, id)
		require.NoError(t, err)
		_, err = svc.CreatePlan(ctx, id)
		assert.True(t, IsConflict(err))
	})
}

func TestAddStep(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Steps Inc")

	t.Run("Error - No plan", func(t *testing.T) {
		_, err := svc.AddStep(ctx, id, "x", nil)
		assert.True(t, IsNotFound(err))
	})

	_, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)

	t.Run("Success - Blank title gets placeholder", func(t *testing.T) {
		st, err := svc.AddStep(ctx, id, "   ", nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultStepTitle, st.Title)
	})

	t.Run("Success - Sort order increases", func(t *testing.T) {
		st, err := svc.AddStep(ctx, id, "second", testutil.Ptr("details"))
		require.NoError(t, err)
		assert.Equal(t, 2, st.SortOrder)
		assert.Equal(t, "details", *st.Description)
	})

	view, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	require.Len(t, view.Steps, 2)
	assert.Equal(t, models.PlanDraft, view.State)
	assert.Equal(t, DefaultStepTitle, view.Steps[0].Title)
	assert.Equal(t, "second", view.Steps[1].Title)
}

func TestUpdateStep(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Updates")
	_, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)
	a, err := svc.AddStep(ctx, id, "a", nil)
	require.NoError(t, err)
	b, err := svc.AddStep(ctx, id, "b", nil)
	require.NoError(t, err)
	_, err = svc.FinalizePlan(ctx, id)
	require.NoError(t, err)

	t.Run("Error - Empty update", func(t *testing.T) {
		_, err := svc.UpdateStep(ctx, id, a.ID, models.StepUpdate{})
		assert.True(t, IsValidation(err))
	})

	t.Run("Error - Unknown step", func(t *testing.T) {
		_, err := svc.UpdateStep(ctx, id, 424242, models.StepUpdate{Title: testutil.Ptr("x")})
		assert.True(t, IsNotFound(err))
	})

	t.Run("Success - Completion keeps completed_at in lockstep", func(t *testing.T) {
		st, err := svc.UpdateStep(ctx, id, a.ID, models.StepUpdate{IsCompleted: testutil.Ptr(true)})
		require.NoError(t, err)
		assert.NotNil(t, st.CompletedAt)
		assert.Equal(t, models.CustomerActive, customerStatus(t, db, id))

		svc.now = func() time.Time { return st.CompletedAt.Add(time.Hour) }
		again, err := svc.UpdateStep(ctx, id, a.ID, models.StepUpdate{IsCompleted: testutil.Ptr(true)})
		svc.now = func() time.Time { return time.Now().UTC() }
		require.NoError(t, err)
		require.NotNil(t, again.CompletedAt)
		assert.True(t, st.CompletedAt.Equal(*again.CompletedAt), "re-completing must keep completed_at")

		st, err = svc.UpdateStep(ctx, id, a.ID, models.StepUpdate{IsCompleted: testutil.Ptr(false)})
		require.NoError(t, err)
		assert.False(t, st.IsCompleted)
		assert.Nil(t, st.CompletedAt)
	})

	t.Run("Success - Recompute overrides manual status", func(t *testing.T) {
		_, err := repositories.NewCustomerRepository(db).Update(ctx, id,
			map[string]any{"status": string(models.CustomerOnHold)}, svc.now())
		require.NoError(t, err)

		_, err = svc.UpdateStep(ctx, id, b.ID, models.StepUpdate{Title: testutil.Ptr("renamed")})
		require.NoError(t, err)
		assert.Equal(t, models.CustomerActive, customerStatus(t, db, id))
	})

	t.Run("Success - All done means Completed", func(t *testing.T) {
		for _, st := range []*models.GoalStep{a, b} {
			_, err := svc.UpdateStep(ctx, id, st.ID, models.StepUpdate{IsCompleted: testutil.Ptr(true)})
			require.NoError(t, err)
		}
		assert.Equal(t, models.CustomerCompleted, customerStatus(t, db, id))
	})
}

func TestUpdateStepOnDraftPlanSetsStatus(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Draft")
	_, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)
	st, err := svc.AddStep(ctx, id, "draft step", nil)
	require.NoError(t, err)

	_, err = svc.UpdateStep(ctx, id, st.ID, models.StepUpdate{Description: testutil.Ptr("notes")})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerActive, customerStatus(t, db, id))

	view, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.PlanDraft, view.State)
}

func TestDeleteStep(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Deleter")
	_, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)
	st, err := svc.AddStep(ctx, id, "only", nil)
	require.NoError(t, err)
	_, err = svc.FinalizePlan(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStep(ctx, id, st.ID))

	view, err := svc.GetPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalSteps)
	assert.Equal(t, 0, view.ProgressPercentage)
	assert.Equal(t, models.PlanFinalizedActive, view.State)

	err = svc.DeleteStep(ctx, id, st.ID)
	assert.True(t, IsNotFound(err))
}

func TestFinalizeTwice(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Twice Final")
	_, err := svc.CreatePlan(ctx, id)
	require.NoError(t, err)
	_, err = svc.AddStep(ctx, id, "s", nil)
	require.NoError(t, err)
	_, err = svc.FinalizePlan(ctx, id)
	require.NoError(t, err)

	_, err = svc.FinalizePlan(ctx, id)
	assert.True(t, IsConflict(err))
}

func TestGetPlanMissing(t *testing.T) {
	svc, db := newGoalPlanService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "No Plan")

	_, err := svc.GetPlan(ctx, id)
	assert.True(t, IsNotFound(err))

	summary, err := svc.PlanSummary(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
