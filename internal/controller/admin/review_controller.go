package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qdimov/quizdesk/internal/controller"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/middleware"
	"github.com/qdimov/quizdesk/internal/service"
	"github.com/rs/zerolog/log"
)

// ReviewController exposes the reviewer surface: the all-attempts listing,
// free-text grading and the status override. Reviewer privilege is
// enforced in the services, per operation.
type ReviewController struct {
	dashboard service.DashboardService
	grading   service.GradingService
	lifecycle service.LifecycleService
}

func NewReviewController(
	dashboard service.DashboardService,
	grading service.GradingService,
	lifecycle service.LifecycleService,
) *ReviewController {
	return &ReviewController{dashboard: dashboard, grading: grading, lifecycle: lifecycle}
}

// ListAttempts godoc
// @Summary (Reviewer) List all attempts
// @Tags Review
// @Produce json
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 403 {object} dto.ErrorResponse "Not a reviewer"
// @Router /admin/attempts [get]
func (c *ReviewController) ListAttempts(ctx *gin.Context) {
	actorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}
	attempts, err := c.dashboard.AllAttempts(actorID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// RecordGrade godoc
// @Summary (Reviewer) Grade one free-text answer
// @Description Values outside [0,100] are clamped. Non-numeric values are rejected and the prior grade kept.
// @Tags Review
// @Accept json
// @Produce json
// @Param answer_id path int true "Answer ID"
// @Param grade body dto.GradeItem true "Raw grade value"
// @Success 200 {object} dto.GradeResultDTO
// @Failure 400 {object} dto.ErrorResponse "Not a number, or not a free-text answer"
// @Failure 403 {object} dto.ErrorResponse "Not a reviewer"
// @Router /admin/answers/{answer_id}/grade [post]
func (c *ReviewController) RecordGrade(ctx *gin.Context) {
	answerID, err := strconv.ParseUint(ctx.Param("answer_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid answer_id format"})
		return
	}
	actorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.grading.RecordGrade(uint(answerID), req.Value, actorID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.GradeResultDTO{AnswerID: answer.ID, Grade: answer.Grade})
}

// GradeBatch godoc
// @Summary (Reviewer) Grade a batch of free-text answers
// @Description Items are graded independently; an unparseable value fails its own item without rolling back the rest.
// @Tags Review
// @Accept json
// @Produce json
// @Param grades body dto.GradeBatchRequest true "Answer/value pairs"
// @Success 200 {array} dto.GradeResultDTO
// @Failure 403 {object} dto.ErrorResponse "Not a reviewer"
// @Router /admin/grades [post]
func (c *ReviewController) GradeBatch(ctx *gin.Context) {
	actorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req dto.GradeBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	log.Info().Uint("actorID", actorID).Int("count", len(req.Grades)).Msg("Received grading batch")
	results, err := c.grading.GradeBatch(req.Grades, actorID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// OverrideStatus godoc
// @Summary (Reviewer) Override an attempt's verdict
// @Description Pass/Fail regenerates the report artifact; Pending invalidates it and keeps score and timing for regrading.
// @Tags Review
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param status body dto.OverrideRequest true "New status: Pending, Pass or Fail"
// @Success 200 {object} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown status value"
// @Failure 403 {object} dto.ErrorResponse "Not a reviewer"
// @Router /admin/attempts/{attempt_id}/status [post]
func (c *ReviewController) OverrideStatus(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid attempt_id format"})
		return
	}
	actorID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req dto.OverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	attempt, err := c.lifecycle.Override(uint(attemptID), req.Status, actorID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AttemptSummaryDTO{
		ID:          attempt.ID,
		QuizID:      attempt.QuizID,
		UserID:      attempt.UserID,
		Status:      attempt.Status,
		Score:       attempt.Score,
		TotalChoice: attempt.TotalChoice,
		StartedAt:   attempt.StartedAt,
		EndedAt:     attempt.EndedAt,
		TimeTaken:   attempt.TimeTaken,
		HasReport:   attempt.ReportPath != nil,
		CreatedAt:   attempt.CreatedAt,
	})
}
