package handlers

import (
	"net/http"

	"optinet-backend/models"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the static plan catalog
type PlanHandler struct{}

// NewPlanHandler creates a new plan handler
func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// List handles GET /api/plans
func (h *PlanHandler) List(c *gin.Context) {
	respondOK(c, http.StatusOK, models.OfferedPlans)
}
