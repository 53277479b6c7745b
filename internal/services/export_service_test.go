package services

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"crmdesk/internal/models"
	"crmdesk/internal/pdf"
	"crmdesk/internal/testutil"
)

type capturePDF struct {
	data pdf.GoalPlanReportData
}

func (c *capturePDF) GoalPlanReport(w io.Writer, data pdf.GoalPlanReportData) error {
	c.data = data
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}

func TestRosterWorkbook(t *testing.T) {
	list := []models.CustomerSummary{{
		Customer:           models.Customer{ID: 3, CompanyName: "Acme", Priority: models.PriorityHigh, Status: models.CustomerActive},
		EmployeeNames:      testutil.Ptr("John Smith, Mike Davis"),
		YearsKnown:         4,
		TotalSteps:         3,
		CompletedSteps:     2,
		ProgressPercentage: 67,
	}}

	book, err := RosterWorkbook(list)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{rosterSheet}, book.GetSheetList())
	rows, err := book.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, rosterHeaders, rows[0])
	assert.Equal(t, []string{"3", "Acme", "", "", "", "", "High", "Active", "John Smith, Mike Davis", "4", "2", "3", "67"}, rows[1])
}

func TestCustomersWorkbook(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	activate(t, svc, testutil.CreateCustomer(t, db, "Roster Co"))
	testutil.CreateCustomer(t, db, "Still Pending")

	exp := NewExportService(svc, svc.Plans, &capturePDF{})
	var buf bytes.Buffer
	require.NoError(t, exp.CustomersWorkbook(ctx, &buf, models.CustomerFilter{}))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Roster Co", rows[1][1])
}

func TestGoalPlanReportExport(t *testing.T) {
	svc, db := newCustomerService(t)
	ctx := context.Background()
	gen := &capturePDF{}
	exp := NewExportService(svc, svc.Plans, gen)

	id := testutil.CreateCustomer(t, db, "Report Co")
	var buf bytes.Buffer
	assert.True(t, IsNotFound(exp.GoalPlanReport(ctx, &buf, id)))
	assert.True(t, IsNotFound(exp.GoalPlanReport(ctx, &buf, 9999)))

	activate(t, svc, id)
	require.NoError(t, exp.GoalPlanReport(ctx, &buf, id))
	assert.Equal(t, "%PDF-fake", buf.String())
	assert.Equal(t, "Report Co", gen.data.Customer.CompanyName)
	require.NotNil(t, gen.data.Plan)
	assert.Equal(t, 1, gen.data.Plan.TotalSteps)

	buf.Reset()
	exp.PDF = pdf.NewDocumentGenerator("")
	require.NoError(t, exp.GoalPlanReport(ctx, &buf, id))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
