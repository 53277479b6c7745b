package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crmdesk/internal/models"
)

// Generator renders documents; handlers depend on it so tests can swap it.
type Generator interface {
	GoalPlanReport(w io.Writer, data GoalPlanReportData) error
}

// DocumentGenerator renders with a TTF font when FontPath is set and falls
// back to the Helvetica core font otherwise.
type DocumentGenerator struct {
	FontPath string
	fontName string
}

type GoalPlanReportData struct {
	Customer    models.Customer
	Category    *string
	Plan        *models.GoalPlanView
	GeneratedAt time.Time
}

func NewDocumentGenerator(fontPath string) *DocumentGenerator {
	name := "Helvetica"
	if fontPath != "" {
		name = "DejaVu"
	}
	return &DocumentGenerator{FontPath: fontPath, fontName: name}
}

func (g *DocumentGenerator) GoalPlanReport(w io.Writer, data GoalPlanReportData) error {
	if data.Plan == nil {
		return fmt.Errorf("goal plan report: no plan")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Goal plan: %s", data.Customer.CompanyName), false)
	pdf.SetAuthor("crmdesk", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := g.addFont(pdf)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "GOAL PLAN REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 12)
	pdf.CellFormat(0, 7, tr(data.Customer.CompanyName), "", 1, "C", false, 0, "")
	g.hr(pdf)

	c := data.Customer
	g.sectionTitle(pdf, "Customer")
	g.kvLine(pdf, "Contact", tr(orDash(c.ContactName)))
	g.kvLine(pdf, "Email", tr(orDash(c.Email)))
	g.kvLine(pdf, "Phone", tr(orDash(c.Phone)))
	g.kvLine(pdf, "Category", tr(orDash(data.Category)))
	g.kvLine(pdf, "Priority", string(c.Priority))
	g.kvLine(pdf, "Status", string(c.Status))
	pdf.Ln(2)
	g.hr(pdf)

	plan := data.Plan
	g.sectionTitle(pdf, "Plan")
	g.kvLine(pdf, "State", string(plan.State))
	g.kvLine(pdf, "Created", plan.CreatedAt.Format("2006-01-02"))
	finalized := "-"
	if plan.FinalizedAt != nil {
		finalized = plan.FinalizedAt.Format("2006-01-02")
	}
	g.kvLine(pdf, "Finalized", finalized)
	g.kvLine(pdf, "Progress", fmt.Sprintf("%d of %d steps (%d%%)",
		plan.CompletedSteps, plan.TotalSteps, plan.ProgressPercentage))
	g.progressBar(pdf, plan.ProgressPercentage)
	g.hr(pdf)

	g.sectionTitle(pdf, "Steps")
	if len(plan.Steps) == 0 {
		pdf.MultiCell(0, 6, "No steps.", "", "L", false)
	}
	for i, st := range plan.Steps {
		mark := "[ ]"
		if st.IsCompleted {
			mark = "[x]"
		}
		pdf.SetFont(g.fontName, "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%s %d. %s", mark, i+1, tr(st.Title)), "", "L", false)
		pdf.SetFont(g.fontName, "", 10)
		if st.Description != nil && *st.Description != "" {
			pdf.MultiCell(0, 5, tr(*st.Description), "", "L", false)
		}
		if st.CompletedAt != nil {
			pdf.MultiCell(0, 5, "Completed "+st.CompletedAt.Format("2006-01-02"), "", "L", false)
		}
		pdf.Ln(1)
	}

	pdf.AliasNbPages("")
	generated := data.GeneratedAt.Format("2006-01-02 15:04 MST")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated %s  |  Page %d/{nb}", generated, pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

func (g *DocumentGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *DocumentGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *DocumentGenerator) progressBar(pdf *gofpdf.Fpdf, percent int) {
	const width = 170.0
	y := pdf.GetY() + 2
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(20, y, width, 5, "D")
	if percent > 0 {
		pdf.SetFillColor(46, 139, 87)
		pdf.Rect(20, y, width*float64(percent)/100, 5, "F")
	}
	pdf.SetY(y + 8)
}

// addFont registers the UTF-8 font when configured and returns the text
// translator matching the chosen font.
func (g *DocumentGenerator) addFont(pdf *gofpdf.Fpdf) func(string) string {
	if g.FontPath == "" {
		return pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	return func(s string) string { return s }
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
