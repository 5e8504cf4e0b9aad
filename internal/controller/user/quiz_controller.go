package user

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qdimov/quizdesk/internal/controller"
	"github.com/qdimov/quizdesk/internal/dto"
	"github.com/qdimov/quizdesk/internal/middleware"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	auth      service.AuthService
	catalog   service.CatalogService
	navigator service.NavigatorService
	lifecycle service.LifecycleService
	dashboard service.DashboardService
	reports   service.ReportService
}

func NewQuizController(
	auth service.AuthService,
	catalog service.CatalogService,
	navigator service.NavigatorService,
	lifecycle service.LifecycleService,
	dashboard service.DashboardService,
	reports service.ReportService,
) *QuizController {
	return &QuizController{
		auth:      auth,
		catalog:   catalog,
		navigator: navigator,
		lifecycle: lifecycle,
		dashboard: dashboard,
		reports:   reports,
	}
}

// Login godoc
// @Summary Issue a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username"
// @Success 200 {object} dto.TokenResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown user"
// @Router /auth/login [post]
func (c *QuizController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	token, err := c.auth.IssueToken(req.Username)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// ListDepartments godoc
// @Summary List departments
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.DepartmentDTO
// @Router /departments [get]
func (c *QuizController) ListDepartments(ctx *gin.Context) {
	departments, err := c.catalog.Departments()
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, departments)
}

// ListQuizzes godoc
// @Summary List quizzes of a department
// @Tags Catalog
// @Produce json
// @Param department_id path int true "Department ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /departments/{department_id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	departmentID, ok := pathID(ctx, "department_id")
	if !ok {
		return
	}
	quizzes, err := c.catalog.QuizzesByDepartment(departmentID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// BeginAttempt godoc
// @Summary Start a quiz attempt
// @Description Creates a Pending attempt and opens the navigation session at question 1.
// @Tags Attempts
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 201 {object} dto.BeginAttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id}/attempts [post]
func (c *QuizController) BeginAttempt(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	resp, err := c.navigator.Begin(userID, quizID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetQuestion godoc
// @Summary Present a question of an attempt
// @Description Returns the question at the 1-based position in stable catalog order. Out-of-range positions redirect to the dashboard.
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param number path int true "Question number (1-based)"
// @Success 200 {object} dto.QuestionViewDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id}/questions/{number} [get]
func (c *QuizController) GetQuestion(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	number, ok := pathInt(ctx, "number")
	if !ok {
		return
	}

	view, err := c.navigator.Question(attemptID, number)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitAnswer godoc
// @Summary Submit the answer for the current question
// @Description Records the answer and advances the cursor. On the last question the attempt is finalized and the result returned. Validation failures re-render the question with an inline message (422).
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param number path int true "Question number (1-based)"
// @Param answer body dto.SubmitAnswerRequest true "Choice ID or written answer"
// @Success 200 {object} dto.SubmitAnswerResponse "Next question index"
// @Failure 422 {object} dto.ErrorResponse "Missing or invalid response, resubmit"
// @Router /attempts/{attempt_id}/questions/{number} [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	number, ok := pathInt(ctx, "number")
	if !ok {
		return
	}

	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.navigator.SubmitAnswer(attemptID, number, req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			// Recoverable: the client re-renders the current question.
			ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: verr.Reason})
			return
		}
		controller.Respond(ctx, err)
		return
	}

	if !resp.Last {
		ctx.JSON(http.StatusOK, resp)
		return
	}

	// Last answer recorded: control passes to the result lifecycle.
	if _, err := c.lifecycle.Finalize(attemptID); err != nil {
		controller.Respond(ctx, err)
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	detail, err := c.dashboard.AttemptDetail(attemptID, userID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// Dashboard godoc
// @Summary List attempts
// @Description Examinees see their own attempts, newest first. Reviewers see everyone's.
// @Tags Dashboard
// @Produce json
// @Success 200 {array} dto.AttemptSummaryDTO
// @Router /dashboard [get]
func (c *QuizController) Dashboard(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
		return
	}

	var (
		attempts []dto.AttemptSummaryDTO
		err      error
	)
	if middleware.IsReviewer(ctx) {
		attempts, err = c.dashboard.AllAttempts(userID)
	} else {
		attempts, err = c.dashboard.AttemptsForUser(userID)
	}
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttempt godoc
// @Summary Attempt detail with live percentages
// @Tags Dashboard
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 403 {object} dto.ErrorResponse "Not the owner and not a reviewer"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	detail, err := c.dashboard.AttemptDetail(attemptID, userID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// DownloadReport godoc
// @Summary Download the report artifact
// @Description Owner or reviewer only. A finalized attempt whose artifact is missing (earlier store outage) gets one regeneration retry on access.
// @Tags Dashboard
// @Produce application/pdf
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {file} binary
// @Failure 403 {object} dto.ErrorResponse "Not the owner and not a reviewer"
// @Failure 404 {object} dto.ErrorResponse "No report available"
// @Router /attempts/{attempt_id}/report [get]
func (c *QuizController) DownloadReport(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)

	// Ownership check rides on the detail lookup.
	detail, err := c.dashboard.AttemptDetail(attemptID, userID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}

	if !detail.HasReport {
		if detail.Status == model.StatusPending {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No report available"})
			return
		}
		// Amortized retry after an earlier store failure.
		log.Info().Uint("attemptID", attemptID).Msg("Report missing, retrying generation on access")
		if err := c.reports.Generate(attemptID); err != nil {
			controller.Respond(ctx, err)
			return
		}
	}

	rc, err := c.reports.OpenFor(attemptID)
	if err != nil {
		controller.Respond(ctx, err)
		return
	}
	defer rc.Close()

	ctx.Header("Content-Disposition", `attachment; filename="result_`+strconv.FormatUint(uint64(attemptID), 10)+`.pdf"`)
	ctx.Header("Content-Type", "application/pdf")
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, rc); err != nil {
		log.Warn().Err(err).Uint("attemptID", attemptID).Msg("Failed streaming report artifact")
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func pathInt(ctx *gin.Context, name string) (int, bool) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return val, true
}
