package main

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/johnahull/AthleteMetrics-sub012/internal/api"
	"github.com/johnahull/AthleteMetrics-sub012/internal/auth"
	"github.com/johnahull/AthleteMetrics-sub012/internal/config"
	"github.com/johnahull/AthleteMetrics-sub012/internal/db"
	"github.com/johnahull/AthleteMetrics-sub012/internal/ocr"
	"github.com/johnahull/AthleteMetrics-sub012/internal/repository"
	"github.com/johnahull/AthleteMetrics-sub012/internal/service"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	cfg := config.Load()
	if cfg.TokenSecret != "" {
		auth.TokenSecretKey = cfg.TokenSecret
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	orgRepo := repository.NewPgxOrganizationRepository(pool)
	teamRepo := repository.NewPgxTeamRepository(pool)
	athleteRepo := repository.NewPgxAthleteRepository(pool)
	measurementRepo := repository.NewPgxMeasurementRepository(pool)
	invitationRepo := repository.NewPgxInvitationRepository(pool)

	org := service.NewOrganizationService(transactor).WithOrgRepo(orgRepo)
	team := service.NewTeamService(transactor).WithTeamRepo(teamRepo).WithAthleteRepo(athleteRepo).WithOrgRepo(orgRepo)
	athlete := service.NewAthleteService(transactor).WithAthleteRepo(athleteRepo).WithOrgRepo(orgRepo)
	measurement := service.NewMeasurementService(transactor).WithMeasurementRepo(measurementRepo).WithAthleteRepo(athleteRepo)
	invitation := service.NewInvitationService(transactor, cfg.InviteTTL).WithInvitationRepo(invitationRepo).WithOrgRepo(orgRepo)
	analytics := service.NewAnalyticsService().WithMeasurementRepo(measurementRepo)
	importer := service.NewImportService(transactor).
		WithAthleteRepo(athleteRepo).
		WithTeamRepo(teamRepo).
		WithMeasurementRepo(measurementRepo).
		WithOCREngine(ocr.NewTesseractEngine(cfg.OCRLanguage))

	checker := api.MustNewHealthChecker(health.Config{
		Name:    "postgres",
		Timeout: 5 * time.Second,
		Check: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	e := echo.New()

	handler := api.NewHandler(logger).
		WithHealthChecker(checker).
		WithOrganizationService(org).
		WithTeamService(team).
		WithAthleteService(athlete).
		WithMeasurementService(measurement).
		WithInvitationService(invitation).
		WithAnalyticsService(analytics).
		WithImportService(importer).
		WithTokenTTL(cfg.TokenTTL).
		WithMaxUploadBytes(cfg.MaxUploadBytes)

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("addr", cfg.Addr))
	if err = e.Start(cfg.Addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
