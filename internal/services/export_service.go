package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"crmdesk/internal/models"
	"crmdesk/internal/pdf"
)

const rosterSheet = "Customers"

var rosterHeaders = []string{
	"ID", "Company", "Contact", "Email", "Phone", "Category", "Priority",
	"Status", "Employees", "Years Known", "Steps Done", "Steps Total", "Progress %",
}

type ExportService struct {
	Customers *CustomerService
	Plans     *GoalPlanService
	PDF       pdf.Generator
}

func NewExportService(customers *CustomerService, plans *GoalPlanService, gen pdf.Generator) *ExportService {
	return &ExportService{Customers: customers, Plans: plans, PDF: gen}
}

// CustomersWorkbook writes the filtered roster as an xlsx workbook.
func (s *ExportService) CustomersWorkbook(ctx context.Context, w io.Writer, f models.CustomerFilter) error {
	list, err := s.Customers.List(ctx, f)
	if err != nil {
		return err
	}
	book, err := RosterWorkbook(list)
	if err != nil {
		return err
	}
	defer book.Close()

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	log.Printf("[export][xlsx] rows=%d", len(list))
	return nil
}

// RosterWorkbook lays the roster out on a single styled sheet.
func RosterWorkbook(list []models.CustomerSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, h := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(rosterSheet, cell, h)
		f.SetCellStyle(rosterSheet, cell, cell, headerStyle)
	}

	for i, c := range list {
		row := []any{
			c.ID, c.CompanyName, deref(c.ContactName), deref(c.Email), deref(c.Phone),
			deref(c.ServiceCategoryName), string(c.Priority), string(c.Status),
			deref(c.EmployeeNames), c.YearsKnown,
			c.CompletedSteps, c.TotalSteps, c.ProgressPercentage,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(rosterSheet, "A", "A", 8)
	f.SetColWidth(rosterSheet, "B", "I", 22)
	f.SetColWidth(rosterSheet, "J", "M", 12)
	return f, nil
}

// GoalPlanReport renders the customer's plan as a PDF.
func (s *ExportService) GoalPlanReport(ctx context.Context, w io.Writer, customerID int64) error {
	detail, err := s.Customers.Detail(ctx, customerID)
	if err != nil {
		return err
	}
	if detail.GoalPlan == nil {
		return NewNotFoundError("goal plan")
	}
	return s.PDF.GoalPlanReport(w, pdf.GoalPlanReportData{
		Customer:    detail.Customer,
		Category:    detail.ServiceCategoryName,
		Plan:        detail.GoalPlan,
		GeneratedAt: s.Customers.now(),
	})
}
