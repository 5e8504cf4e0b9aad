package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qdimov/quizdesk/config"
	"github.com/qdimov/quizdesk/database"
	_ "github.com/qdimov/quizdesk/docs" // Swagger docs - auto-generated
	adminctrl "github.com/qdimov/quizdesk/internal/controller/admin"
	userctrl "github.com/qdimov/quizdesk/internal/controller/user"
	"github.com/qdimov/quizdesk/internal/logger"
	"github.com/qdimov/quizdesk/internal/middleware"
	"github.com/qdimov/quizdesk/internal/model"
	"github.com/qdimov/quizdesk/internal/repository"
	"github.com/qdimov/quizdesk/internal/service"
	"github.com/qdimov/quizdesk/internal/session"
	"github.com/qdimov/quizdesk/internal/storage"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quizdesk API
// @version 1.0
// @description Quiz attempt and grading lifecycle engine: sequential navigation, reviewer grading, pass/fail verdicts and PDF result reports.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			session.NewCursorStore,
			NewArtifactStore,
		),

		fx.Provide(
			repository.NewDepartmentRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewUserRepository,
		),

		fx.Provide(
			NewAuthService,
			service.NewCatalogService,
			service.NewScoringService,
			service.NewNavigatorService,
			NewReportService,
			NewLifecycleService,
			service.NewGradingService,
			service.NewDashboardService,
		),

		fx.Provide(
			userctrl.NewQuizController,
			adminctrl.NewReviewController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedReviewer),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func NewArtifactStore(cfg *config.Config) (*storage.FSStore, error) {
	return storage.NewFSStore(cfg.Report.Dir)
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) service.AuthService {
	return service.NewAuthService(userRepo, cfg.JWTSecret)
}

func NewReportService(
	attemptRepo repository.AttemptRepository,
	scoring service.ScoringService,
	store *storage.FSStore,
	cfg *config.Config,
	db *gorm.DB,
) service.ReportService {
	return service.NewReportService(attemptRepo, scoring, store, cfg.Report.Timezone, db)
}

func NewLifecycleService(
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	userRepo repository.UserRepository,
	scoring service.ScoringService,
	reports service.ReportService,
	cursors session.CursorStore,
	cfg *config.Config,
	db *gorm.DB,
) service.LifecycleService {
	return service.NewLifecycleService(attemptRepo, answerRepo, userRepo, scoring, reports, cursors, cfg.PassThreshold, db)
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	auth service.AuthService,
	quizCtrl *userctrl.QuizController,
	reviewCtrl *adminctrl.ReviewController,
) {
	api := router.Group("/api/v1")
	api.POST("/auth/login", quizCtrl.Login)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(auth))
	{
		authed.GET("/departments", quizCtrl.ListDepartments)
		authed.GET("/departments/:department_id/quizzes", quizCtrl.ListQuizzes)

		authed.POST("/quizzes/:quiz_id/attempts", quizCtrl.BeginAttempt)
		authed.GET("/attempts/:attempt_id/questions/:number", quizCtrl.GetQuestion)
		authed.POST("/attempts/:attempt_id/questions/:number", quizCtrl.SubmitAnswer)

		authed.GET("/dashboard", quizCtrl.Dashboard)
		authed.GET("/attempts/:attempt_id", quizCtrl.GetAttempt)
		authed.GET("/attempts/:attempt_id/report", quizCtrl.DownloadReport)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.Authenticate(auth))
	{
		adminGroup.GET("/attempts", reviewCtrl.ListAttempts)
		adminGroup.POST("/attempts/:attempt_id/status", reviewCtrl.OverrideStatus)
		adminGroup.POST("/answers/:answer_id/grade", reviewCtrl.RecordGrade)
		adminGroup.POST("/grades", reviewCtrl.GradeBatch)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quizdesk API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Department{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.User{},
		&model.Attempt{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// SeedReviewer makes sure a reviewer account exists so grading and
// overrides are reachable on a fresh database. The question catalog itself
// is authored externally and treated as read-only input here.
func SeedReviewer(db *gorm.DB, userRepo repository.UserRepository) error {
	_, err := userRepo.FindByUsername("admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	log.Info().Msg("Seeding default reviewer account")
	return userRepo.Create(&model.User{Username: "admin", IsReviewer: true})
}
