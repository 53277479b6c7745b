package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/services"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type ReportHandler struct {
	Reports *services.ReportService
	Exports *services.ExportService
}

func NewReportHandler(reports *services.ReportService, exports *services.ExportService) *ReportHandler {
	return &ReportHandler{Reports: reports, Exports: exports}
}

// @Summary      Dashboard statistics
// @Tags         Reports
// @Produce      json
// @Success      200  {object}  models.DashboardStats
// @Router       /dashboard/stats [get]
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	stats, err := h.Reports.DashboardStats(c.Request.Context())
	if err != nil {
		respondError(c, "reports", "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Export active customers
// @Description  Same filters as GET /customers, as an xlsx workbook
// @Tags         Reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status    query  string  false  "Exact status"
// @Param        priority  query  string  false  "Exact priority"
// @Param        search    query  string  false  "Substring"
// @Success      200
// @Router       /customers/export.xlsx [get]
func (h *ReportHandler) ExportCustomers(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Exports.CustomersWorkbook(c.Request.Context(), &buf, filterFromQuery(c)); err != nil {
		respondError(c, "reports", "xlsx", err)
		return
	}
	name := fmt.Sprintf("customers_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// @Summary      Goal plan PDF report
// @Tags         Reports
// @Produce      application/pdf
// @Param        id   path  int  true  "Customer ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan/report.pdf [get]
func (h *ReportHandler) GoalPlanReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.Exports.GoalPlanReport(c.Request.Context(), &buf, id); err != nil {
		respondError(c, "reports", "pdf", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"goal_plan_%d.pdf\"", id))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}
