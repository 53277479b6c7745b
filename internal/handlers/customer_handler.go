package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/models"
	"crmdesk/internal/services"
)

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: service}
}

func filterFromQuery(c *gin.Context) models.CustomerFilter {
	return models.CustomerFilter{
		Status:   models.CustomerStatus(c.Query("status")),
		Priority: models.CustomerPriority(c.Query("priority")),
		Search:   c.Query("search"),
	}
}

// @Summary      List active customers
// @Description  Customers whose goal plan is finalized, newest first
// @Tags         Customers
// @Produce      json
// @Param        status    query  string  false  "Exact status"
// @Param        priority  query  string  false  "Exact priority"
// @Param        search    query  string  false  "Company, contact or email substring"
// @Success      200  {array}   models.CustomerSummary
// @Failure      500  {object}  map[string]string
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		respondError(c, "customers", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      List pending customers
// @Description  Customers with no goal plan or a draft one
// @Tags         Customers
// @Produce      json
// @Success      200  {array}   models.PendingCustomer
// @Failure      500  {object}  map[string]string
// @Router       /pending-customers [get]
func (h *CustomerHandler) Pending(c *gin.Context) {
	list, err := h.Service.Pending(c.Request.Context())
	if err != nil {
		respondError(c, "customers", "pending", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Customer detail
// @Tags         Customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.CustomerDetail
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.Service.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, "customers", "get", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary      Create customer
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        customer  body      models.CustomerInput  true  "Customer"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	id, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "customers", "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Customer created successfully"})
}

// @Summary      Update customer
// @Description  Partial update; unknown keys are ignored
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "Customer ID"
// @Param        body  body  map[string]interface{}  true  "Fields to change"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.Update(c.Request.Context(), id, raw); err != nil {
		respondError(c, "customers", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated successfully"})
}

// @Summary      Delete customer
// @Description  Removes the customer with its plan, steps, assignments and interactions
// @Tags         Customers
// @Param        id   path  int  true  "Customer ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "customers", "delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Customer interaction statistics
// @Tags         Customers
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.CustomerStatistics
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/statistics [get]
func (h *CustomerHandler) Statistics(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stats, err := h.Service.Statistics(c.Request.Context(), id)
	if err != nil {
		respondError(c, "customers", "statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Assign employee
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "Customer ID"
// @Param        body  body  models.AssignmentInput  true  "Assignment"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/employees [post]
func (h *CustomerHandler) AssignEmployee(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Service.AssignEmployee(c.Request.Context(), id, in); err != nil {
		respondError(c, "customers", "assign", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee assigned successfully"})
}

// @Summary      Log interaction
// @Tags         Customers
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "Customer ID"
// @Param        body  body  models.InteractionInput  true  "Interaction"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/interactions [post]
func (h *CustomerHandler) AddInteraction(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.InteractionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	interactionID, err := h.Service.AddInteraction(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, "customers", "interaction", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": interactionID, "message": "Interaction added successfully"})
}

// @Summary      Service categories
// @Tags         Reference
// @Produce      json
// @Success      200  {array}  models.ServiceCategory
// @Router       /service-categories [get]
func (h *CustomerHandler) Categories(c *gin.Context) {
	list, err := h.Service.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, "categories", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Employees
// @Tags         Reference
// @Produce      json
// @Success      200  {array}  models.Employee
// @Router       /employees [get]
func (h *CustomerHandler) Employees(c *gin.Context) {
	list, err := h.Service.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, "employees", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
