package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/elite-academy-api/api/swagger"
	"github.com/noah-isme/elite-academy-api/internal/dto"
	"github.com/noah-isme/elite-academy-api/internal/handler"
	"github.com/noah-isme/elite-academy-api/internal/repository"
	"github.com/noah-isme/elite-academy-api/internal/router"
	"github.com/noah-isme/elite-academy-api/internal/service"
	"github.com/noah-isme/elite-academy-api/pkg/cache"
	"github.com/noah-isme/elite-academy-api/pkg/config"
	"github.com/noah-isme/elite-academy-api/pkg/database"
	"github.com/noah-isme/elite-academy-api/pkg/export"
	"github.com/noah-isme/elite-academy-api/pkg/logger"
)

// @title Elite Academy API
// @version 1.0.0
// @description School management API: academics, attendance, fees, library, communication and reporting.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	engine := buildRouter(cfg, logr, db, redisClient)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	validate := dto.NewValidator()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Cache.TTL, logr)

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	settingsSvc := service.NewSettingsService(repository.NewSettingsRepository(db), cacheSvc, validate, logr, service.SettingsDefaults{
		SchoolName:  cfg.School.DefaultName,
		CurrentTerm: cfg.School.DefaultTerm,
	})
	parentRepo := repository.NewParentRepository(db)
	librarySvc := service.NewLibraryService(repository.NewLibraryItemRepository(db), repository.NewLibraryBorrowingRepository(db), validate, logr)

	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	h := router.Handlers{
		Auth:              handler.NewAuthHandler(authSvc),
		Users:             handler.NewUserHandler(service.NewUserService(userRepo, validate, logr)),
		Settings:          handler.NewSettingsHandler(settingsSvc),
		Subjects:          handler.NewSubjectHandler(service.NewSubjectService(repository.NewSubjectRepository(db), cacheSvc, validate, logr)),
		Classes:           handler.NewClassHandler(service.NewClassService(repository.NewClassRepository(db), validate, logr)),
		Students:          handler.NewStudentHandler(service.NewStudentService(repository.NewStudentRepository(db), validate, logr)),
		Parents:           handler.NewParentHandler(service.NewParentService(parentRepo, validate, logr)),
		Exams:             handler.NewExamHandler(service.NewExamService(repository.NewExamRepository(db), validate, logr)),
		Grades:            handler.NewGradeHandler(service.NewGradeService(gradeRepo, validate, logr)),
		Attendance:        handler.NewAttendanceHandler(service.NewAttendanceService(repository.NewAttendanceRepository(db), validate, logr)),
		Fees:              handler.NewFeeHandler(service.NewFeeService(repository.NewFeeRepository(db, auditRepo), export.NewCSVExporter(), metrics, validate, logr)),
		Announcements:     handler.NewAnnouncementHandler(service.NewAnnouncementService(repository.NewAnnouncementRepository(db), validate, logr)),
		Messages:          handler.NewMessageHandler(service.NewMessageService(repository.NewMessageRepository(db), validate, logr)),
		Timetables:        handler.NewTimetableHandler(service.NewTimetableService(repository.NewTimetableRepository(db), validate, logr)),
		Homework:          handler.NewHomeworkHandler(service.NewHomeworkService(repository.NewHomeworkRepository(db), validate, logr)),
		LibraryItems:      handler.NewLibraryItemHandler(librarySvc),
		LibraryBorrowings: handler.NewLibraryBorrowingHandler(librarySvc),
		LeaveApplications: handler.NewLeaveHandler(service.NewLeaveService(repository.NewLeaveApplicationRepository(db), validate, logr)),
		ReportCards:       handler.NewReportCardHandler(service.NewReportCardService(repository.NewReportCardRepository(db, gradeRepo), settingsSvc, export.NewPDFExporter(), validate, logr)),
		ParentFeedback:    handler.NewParentFeedbackHandler(service.NewParentFeedbackService(repository.NewParentFeedbackRepository(db), parentRepo, validate, logr)),
		AuditLogs:         handler.NewAuditLogHandler(service.NewAuditLogService(auditRepo, logr)),
		Health:            handler.NewHealthHandler(metrics, checks),
	}

	return router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Tokens:         authSvc,
		Metrics:        metrics,
	}, h)
}
