package services

import (
	"math"

	"crmdesk/internal/models"
)

// Lead statuses are a flat set: any value may follow any other.
var LeadStatuses = map[models.LeadStatus]bool{
	models.LeadNew:       true,
	models.LeadContacted: true,
	models.LeadConverted: true,
}

// ProgressPercentage is completed/total rounded to the nearest integer,
// 0 for an empty plan.
func ProgressPercentage(c models.StepCounts) int {
	if c.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
}

// StatusForSteps is the customer status a step mutation writes back:
// Completed once every step of a non-empty plan is done, Active otherwise.
func StatusForSteps(c models.StepCounts) models.CustomerStatus {
	if c.Total > 0 && c.Completed == c.Total {
		return models.CustomerCompleted
	}
	return models.CustomerActive
}

// PlanStateOf derives the lifecycle state of a customer from its latest plan.
func PlanStateOf(plan *models.GoalPlan, c models.StepCounts) models.PlanState {
	switch {
	case plan == nil:
		return models.PlanNone
	case !plan.Finalized():
		return models.PlanDraft
	case StatusForSteps(c) == models.CustomerCompleted:
		return models.PlanFinalizedComplete
	default:
		return models.PlanFinalizedActive
	}
}
