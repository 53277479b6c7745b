package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/models"
	"crmdesk/internal/services"
)

type GoalPlanHandler struct {
	Service *services.GoalPlanService
}

func NewGoalPlanHandler(service *services.GoalPlanService) *GoalPlanHandler {
	return &GoalPlanHandler{Service: service}
}

type addStepRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// @Summary      Get goal plan
// @Tags         GoalPlans
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.GoalPlanView
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan [get]
func (h *GoalPlanHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.Service.GetPlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "goalplan", "get", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Create goal plan
// @Description  Opens an empty draft plan; a customer may hold only one
// @Tags         GoalPlans
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      201  {object}  models.GoalPlan
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan [post]
func (h *GoalPlanHandler) Create(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	plan, err := h.Service.CreatePlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "goalplan", "create", err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// @Summary      Add goal step
// @Description  Blank titles become "New step"
// @Tags         GoalPlans
// @Accept       json
// @Produce      json
// @Param        id    path  int             true  "Customer ID"
// @Param        body  body  addStepRequest  true  "Step"
// @Success      201  {object}  models.GoalStep
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan/steps [post]
func (h *GoalPlanHandler) AddStep(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req addStepRequest
	// an empty body is a valid request for a placeholder step
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	step, err := h.Service.AddStep(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		respondError(c, "goalplan", "add_step", err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

// @Summary      Update goal step
// @Description  Partial update; the customer status is recomputed from step completion
// @Tags         GoalPlans
// @Accept       json
// @Produce      json
// @Param        id      path  int                true  "Customer ID"
// @Param        stepId  path  int                true  "Step ID"
// @Param        body    body  models.StepUpdate  true  "Changes"
// @Success      200  {object}  models.GoalStep
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan/steps/{stepId} [put]
func (h *GoalPlanHandler) UpdateStep(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stepID, ok := parseID(c, "stepId")
	if !ok {
		return
	}
	var upd models.StepUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	step, err := h.Service.UpdateStep(c.Request.Context(), id, stepID, upd)
	if err != nil {
		respondError(c, "goalplan", "update_step", err)
		return
	}
	c.JSON(http.StatusOK, step)
}

// @Summary      Delete goal step
// @Tags         GoalPlans
// @Param        id      path  int  true  "Customer ID"
// @Param        stepId  path  int  true  "Step ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan/steps/{stepId} [delete]
func (h *GoalPlanHandler) DeleteStep(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	stepID, ok := parseID(c, "stepId")
	if !ok {
		return
	}
	if err := h.Service.DeleteStep(c.Request.Context(), id, stepID); err != nil {
		respondError(c, "goalplan", "delete_step", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Step deleted successfully"})
}

// @Summary      Finalize goal plan
// @Description  Requires at least one step; moves the customer to the active roster
// @Tags         GoalPlans
// @Produce      json
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.GoalPlanView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/goal-plan/finalize [post]
func (h *GoalPlanHandler) Finalize(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := h.Service.FinalizePlan(c.Request.Context(), id)
	if err != nil {
		respondError(c, "goalplan", "finalize", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
