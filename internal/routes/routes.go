package routes

import (
	"github.com/gin-gonic/gin"

	"crmdesk/internal/handlers"
	"crmdesk/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	customerHandler *handlers.CustomerHandler,
	goalPlanHandler *handlers.GoalPlanHandler,
	leadHandler *handlers.LeadHandler,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	authMiddleware gin.HandlerFunc,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	api := r.Group("/api")

	// ---- public
	api.POST("/auth/login", limiter.Middleware(), authHandler.Login)
	api.POST("/leads", limiter.Middleware(), leadHandler.Create)

	// CUSTOMERS
	api.GET("/customers", customerHandler.List)
	api.GET("/customers/export.xlsx", reportHandler.ExportCustomers)
	api.POST("/customers", customerHandler.Create)
	api.GET("/pending-customers", customerHandler.Pending)

	customers := api.Group("/customers/:id")
	{
		customers.GET("", customerHandler.Get)
		customers.PUT("", customerHandler.Update)
		customers.DELETE("", customerHandler.Delete)
		customers.GET("/statistics", customerHandler.Statistics)
		customers.POST("/employees", customerHandler.AssignEmployee)
		customers.POST("/interactions", customerHandler.AddInteraction)

		// GOAL PLAN
		customers.GET("/goal-plan", goalPlanHandler.Get)
		customers.POST("/goal-plan", goalPlanHandler.Create)
		customers.POST("/goal-plan/steps", goalPlanHandler.AddStep)
		customers.PUT("/goal-plan/steps/:stepId", goalPlanHandler.UpdateStep)
		customers.DELETE("/goal-plan/steps/:stepId", goalPlanHandler.DeleteStep)
		customers.POST("/goal-plan/finalize", goalPlanHandler.Finalize)
		customers.GET("/goal-plan/report.pdf", reportHandler.GoalPlanReport)
	}

	// REFERENCE
	api.GET("/service-categories", customerHandler.Categories)
	api.GET("/employees", customerHandler.Employees)
	api.GET("/dashboard/stats", reportHandler.DashboardStats)

	// ---- protected
	admin := api.Group("", authMiddleware)
	{
		admin.GET("/auth/me", authHandler.Me)

		admin.GET("/leads", leadHandler.List)
		admin.GET("/leads/:id", leadHandler.GetByID)
		admin.PUT("/leads/:id", leadHandler.UpdateStatus)
		admin.POST("/leads/:id/notes", leadHandler.AddNote)
		admin.GET("/leads/:id/notes", leadHandler.ListNotes)
	}

	return r
}
