package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// goalHandler handles HTTP requests related to savings goals.
type goalHandler struct {
	goalService      portssvc.GoalSvcFacade
	reportingService portssvc.ReportingSvc
}

func newGoalHandler(gs portssvc.GoalSvcFacade, rs portssvc.ReportingSvc) *goalHandler {
	return &goalHandler{
		goalService:      gs,
		reportingService: rs,
	}
}

// registerGoalRoutes registers routes related to savings goals.
func registerGoalRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newGoalHandler(services.Goal, services.Reporting)

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PUT("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)
		goals.POST("/:id/contributions", h.addContribution)
		goals.GET("/:id/contributions", h.listContributions)
		goals.GET("/:id/progress", h.getProgress)
	}
}

// createGoal godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   goal body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /goals [post]
func (h *goalHandler) createGoal(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.CreateGoal(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "create goal")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Goal created", slog.String("goal_id", goal.GoalID))
	c.JSON(http.StatusCreated, dto.ToGoalResponse(goal))
}

// listGoals godoc
// @Summary List savings goals
// @Tags goals
// @Produce  json
// @Success 200 {object} dto.ListGoalsResponse
// @Security BearerAuth
// @Router /goals [get]
func (h *goalHandler) listGoals(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err, "list goals")
		return
	}
	c.JSON(http.StatusOK, dto.ToListGoalsResponse(goals))
}

// getGoal godoc
// @Summary Get a savings goal
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id} [get]
func (h *goalHandler) getGoal(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoal(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "retrieve goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// updateGoal godoc
// @Summary Update a savings goal
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   goal body dto.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id} [put]
func (h *goalHandler) updateGoal(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "update goal")
		return
	}
	c.JSON(http.StatusOK, dto.ToGoalResponse(goal))
}

// deleteGoal godoc
// @Summary Delete a savings goal and its contributions
// @Tags goals
// @Param   id path string true "Goal ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id} [delete]
func (h *goalHandler) deleteGoal(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), identity, c.Param("id")); err != nil {
		respondError(c, err, "delete goal")
		return
	}
	c.Status(http.StatusNoContent)
}

// addContribution godoc
// @Summary Contribute to a savings goal
// @Description Adds money to the goal and completes it once the target is reached
// @Tags goals
// @Accept  json
// @Produce  json
// @Param   id path string true "Goal ID"
// @Param   contribution body dto.AddContributionRequest true "Contribution"
// @Success 201 {object} dto.ContributionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id}/contributions [post]
func (h *goalHandler) addContribution(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req dto.AddContributionRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.goalService.AddContribution(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "record contribution")
		return
	}
	if result.Completed {
		middleware.GetLoggerFromContext(c).Info("Goal completed", slog.String("goal_id", result.Goal.GoalID))
	}
	c.JSON(http.StatusCreated, dto.ContributionResponse{
		Goal:         dto.ToGoalResponse(&result.Goal),
		Contribution: result.Contribution,
		Completed:    result.Completed,
	})
}

// listContributions godoc
// @Summary List the contributions of a goal
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} dto.ListContributionsResponse
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id}/contributions [get]
func (h *goalHandler) listContributions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	contributions, err := h.goalService.ListContributions(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "list contributions")
		return
	}
	c.JSON(http.StatusOK, dto.ListContributionsResponse{Contributions: contributions})
}

// getProgress godoc
// @Summary Report progress towards a goal
// @Tags goals
// @Produce  json
// @Param   id path string true "Goal ID"
// @Success 200 {object} domain.GoalProgress
// @Failure 404 {object} map[string]string "Goal not found"
// @Security BearerAuth
// @Router /goals/{id}/progress [get]
func (h *goalHandler) getProgress(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	progress, err := h.reportingService.GetGoalProgress(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err, "report goal progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}
