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

func newCustomerService(t *testing.T) (*CustomerService, *sqlx.DB) {
	db := testutil.NewDB(t)
	customers := repositories.NewCustomerRepository(db)
	plans := NewGoalPlanService(repositories.NewGoalPlanRepository(db), customers, nil)
	svc := NewCustomerService(
		customers,
		repositories.NewEmployeeRepository(db),
		repositories.NewServiceCategoryRepository(db),
		repositories.NewInteractionRepository(db),
		plans,
		"US",
	)
	return svc, db
}

// activate gives the customer a finalized one-step plan.
func activate(t *testing.T, svc *CustomerService, id int64) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.Plans.CreatePlan(ctx, id)
	require.NoError(t, err)
	_, err = svc.Plans.AddStep(ctx, id, "kickoff", nil)
	require.NoError(t, err)
	_, err = svc.Plans.FinalizePlan(ctx, id)
	require.NoError(t, err)
}

func TestYearsKnown(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, YearsKnown(nil, now))
	assert.Equal(t, 0, YearsKnown(testutil.Ptr(now.AddDate(0, -6, 0)), now))
	assert.Equal(t, 3, YearsKnown(testutil.Ptr(now.AddDate(-3, 0, -10)), now))
	assert.Equal(t, 1, YearsKnown(testutil.Ptr(now.AddDate(1, 0, 5)), now))
}

func TestFilterCustomers(t *testing.T) {
	list := []models.CustomerSummary{
		{Customer: models.Customer{ID: 1, CompanyName: "Acme Corp", Status: models.CustomerActive, Priority: models.PriorityHigh}},
		{Customer: models.Customer{ID: 2, CompanyName: "Globex", ContactName: testutil.Ptr("Hank Scorpio"), Status: models.CustomerCompleted, Priority: models.PriorityLow}},
		{Customer: models.Customer{ID: 3, CompanyName: "Initech", Email: testutil.Ptr("bill@INITECH.com"), Status: models.CustomerActive, Priority: models.PriorityLow}},
	}
	ids := func(in []models.CustomerSummary) []int64 {
		out := []int64{}
		for _, c := range in {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterCustomers(list, models.CustomerFilter{})))
	assert.Equal(t, []int64{1, 3}, ids(FilterCustomers(list, models.CustomerFilter{Status: models.CustomerActive})))
	assert.Equal(t, []int64{2, 3}, ids(FilterCustomers(list, models.CustomerFilter{Priority: models.PriorityLow})))
	assert.Equal(t, []int64{2}, ids(FilterCustomers(list, models.CustomerFilter{Search: "scorpio"})))
	assert.Equal(t, []int64{3}, ids(FilterCustomers(list, models.CustomerFilter{Search: "initech.COM"})))
	assert.Empty(t, FilterCustomers(list, models.CustomerFilter{Status: models.CustomerActive, Search: "globex"}))
}

func TestMonthlyTrend(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 12, 0, 0, 0, time.UTC) }
	got := MonthlyTrend([]time.Time{d(2024, 11, 3), d(2024, 11, 20), d(2025, 1, 2)})
	assert.Equal(t, []models.MonthCount{{Month: "2024-11", Count: 2}, {Month: "2025-01", Count: 1}}, got)
	assert.Empty(t, MonthlyTrend(nil))
}

func TestCustomerCreate(t *testing.T) {
	svc, _ := newCustomerService(t)
	ctx := context.Background()

	t.Run("Success - Defaults and phone normalization", func(t *testing.T) {
		id, err := svc.Create(ctx, models.CustomerInput{
			CompanyName: "  Acme  ",
			Phone:       testutil.Ptr("(201) 555-0123"),
		})
		require.NoError(t, err)

		c, err := svc.Customers.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.CompanyName)
		assert.Equal(t, models.PriorityMedium, c.Priority)
		assert.Equal(t, models.CustomerPendingPlan, c.Status)
		assert.Equal(t, "+12015550123", *c.Phone)
	})

	t.Run("Error - Blank company", func(t *testing.T) {
		_, err := svc.Create(ctx, models.CustomerInput{CompanyName: " "})
		assert.True(t, IsValidation(err))
	})

	t.Run("Error - Bad priority", func(t *testing.T) {
		_, err := svc.Create(ctx, models.CustomerInput{CompanyName: "X", Priority: "Urgent"})
		assert.True(t, IsValidation(err))
	})

	t.Run("Error - Unknown category", func(t *testing.T) {
		_, err := svc.Create(ctx, models.CustomerInput{CompanyName: "X", ServiceCategoryID: testutil.Ptr(int64(999))})
		assert.True(t, IsValidation(err))
	})
}

func TestCustomerListAndPending(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()

	pending := testutil.CreateCustomer(t, db, "Pending Co")
	draft := testutil.CreateCustomer(t, db, "Draft Co")
	active := testutil.CreateCustomer(t, db, "Active Co", func(c *models.Customer) {
		c.FirstContactDate = testutil.Ptr(time.Now().UTC().AddDate(-2, -1, 0))
	})

	_, err := svc.Plans.CreatePlan(ctx, draft)
	require.NoError(t, err)
	_, err = svc.Plans.AddStep(ctx, draft, "s1", nil)
	require.NoError(t, err)
	activate(t, svc, active)

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.AssignEmployee(ctx, active, models.AssignmentInput{EmployeeID: employees[0].ID, Role: testutil.Ptr("Lead")}))

	list, err := svc.List(ctx, models.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, active, got.ID)
	assert.Equal(t, 2, got.YearsKnown)
	assert.Equal(t, 1, got.EmployeeCount)
	require.NotNil(t, got.EmployeeNames)
	assert.Equal(t, employees[0].FullName(), *got.EmployeeNames)
	assert.Equal(t, 1, got.TotalSteps)
	assert.Equal(t, 0, got.ProgressPercentage)

	pend, err := svc.Pending(ctx)
	require.NoError(t, err)
	byID := map[int64]models.PendingCustomer{}
	for _, p := range pend {
		byID[p.ID] = p
	}
	require.Len(t, byID, 2)
	assert.False(t, byID[pending].HasPlan)
	assert.True(t, byID[draft].HasPlan)
	assert.Equal(t, 1, byID[draft].StepCount)
}

func TestCustomerUpdate(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Old Name")

	t.Run("Success - Known fields", func(t *testing.T) {
		err := svc.Update(ctx, id, map[string]any{
			"company_name":        "New Name",
			"priority":            "High",
			"service_category_id": float64(2),
			"first_contact_date":  "2020-01-15",
			"unknown":             "ignored",
		})
		require.NoError(t, err)

		c, err := svc.Customers.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "New Name", c.CompanyName)
		assert.Equal(t, models.PriorityHigh, c.Priority)
		require.NotNil(t, c.ServiceCategoryID)
		assert.Equal(t, int64(2), *c.ServiceCategoryID)
		require.NotNil(t, c.FirstContactDate)
		assert.Equal(t, 2020, c.FirstContactDate.Year())
	})

	t.Run("Error - No valid fields", func(t *testing.T) {
		err := svc.Update(ctx, id, map[string]any{"bogus": 1})
		require.True(t, IsValidation(err))
		assert.Contains(t, err.Error(), "No valid fields to update")
	})

	t.Run("Error - Bad status", func(t *testing.T) {
		err := svc.Update(ctx, id, map[string]any{"status": "Sleeping"})
		assert.True(t, IsValidation(err))
	})

	t.Run("Error - Missing customer", func(t *testing.T) {
		err := svc.Update(ctx, 9999, map[string]any{"notes": "x"})
		assert.True(t, IsNotFound(err))
	})
}

func TestCustomerDetailAndDelete(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Detail Co", func(c *models.Customer) {
		c.ServiceCategoryID = testutil.Ptr(int64(1))
	})
	activate(t, svc, id)

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	_, err = svc.AddInteraction(ctx, id, models.InteractionInput{
		EmployeeID:      &employees[0].ID,
		InteractionType: models.InteractionCall,
		Subject:         testutil.Ptr("intro"),
	})
	require.NoError(t, err)

	d, err := svc.Detail(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, d.ServiceCategoryName)
	require.Len(t, d.Interactions, 1)
	require.NotNil(t, d.Interactions[0].EmployeeName)
	assert.Equal(t, employees[0].FullName(), *d.Interactions[0].EmployeeName)
	require.NotNil(t, d.GoalPlan)
	assert.Equal(t, 1, d.GoalPlan.TotalSteps)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Detail(ctx, id)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(svc.Delete(ctx, id)))
}

func TestCustomerStatistics(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Stats Co")
	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)

	now := time.Now().UTC()
	inputs := []models.InteractionInput{
		{EmployeeID: &employees[0].ID, InteractionType: models.InteractionCall, InteractionDate: testutil.Ptr(now)},
		{EmployeeID: &employees[0].ID, InteractionType: models.InteractionCall, InteractionDate: testutil.Ptr(now)},
		{EmployeeID: &employees[1].ID, InteractionType: models.InteractionEmail, InteractionDate: testutil.Ptr(now)},
		{InteractionType: models.InteractionNote, InteractionDate: testutil.Ptr(now.AddDate(-2, 0, 0))},
	}
	for _, in := range inputs {
		_, err := svc.AddInteraction(ctx, id, in)
		require.NoError(t, err)
	}

	stats, err := svc.Statistics(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stats.InteractionTypes, 3)
	require.Len(t, stats.MonthlyTrend, 1)
	assert.Equal(t, now.Format("2006-01"), stats.MonthlyTrend[0].Month)
	assert.Equal(t, 3, stats.MonthlyTrend[0].Count)
	require.Len(t, stats.EmployeeInvolvement, 2)
	assert.Equal(t, 2, stats.EmployeeInvolvement[0].InteractionCount)

	_, err = svc.Statistics(ctx, 9999)
	assert.True(t, IsNotFound(err))
}

func TestAddInteractionValidation(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	id := testutil.CreateCustomer(t, db, "Interactions Co")

	_, err := svc.AddInteraction(ctx, id, models.InteractionInput{InteractionType: "Telepathy"})
	assert.True(t, IsValidation(err))

	_, err = svc.AddInteraction(ctx, 9999, models.InteractionInput{InteractionType: models.InteractionCall})
	assert.True(t, IsNotFound(err))

	_, err = svc.AddInteraction(ctx, id, models.InteractionInput{InteractionType: models.InteractionCall, EmployeeID: testutil.Ptr(int64(9999))})
	assert.True(t, IsNotFound(err))
}
