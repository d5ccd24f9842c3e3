package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pathfinder-ai/pathfinder/internal/config"
	"github.com/pathfinder-ai/pathfinder/internal/db"
	"github.com/pathfinder-ai/pathfinder/internal/gemini"
	"github.com/pathfinder-ai/pathfinder/internal/markdown"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/service"
	"github.com/pathfinder-ai/pathfinder/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	AuthService         *service.AuthService
	UserService         *service.UserService
	ProfileService      *service.ProfileService
	EmailService        *service.EmailService
	SubscriptionService *service.SubscriptionService
	CareerService       *service.CareerService
	RoadmapService      *service.RoadmapService
	QuestService        *service.QuestService
	InsightService      *service.InsightService
	ExportService       *service.ExportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Generation gateway
	gateway, err := gemini.New(ctx, gemini.Config{
		APIKey:        cfg.GeminiAPIKey,
		Model:         cfg.GeminiModel,
		Timeout:       cfg.GeminiTimeout,
		MaxConcurrent: int64(cfg.GeminiMaxConcurrent),
	})
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize gemini: %v", err)
	}

	// Export storage (nil when no bucket is configured)
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	return Build(cfg, database, gateway, exportStorage), nil
}

// Build wires repositories and services on an open, migrated database.
func Build(cfg *config.Config, database *sqlx.DB, gateway service.Gateway, exportStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	subscriptionRepository := repository.NewSubscriptionRepository(database)
	careerRepository := repository.NewCareerRepository(database)
	roadmapRepository := repository.NewRoadmapRepository(database)
	questRepository := repository.NewQuestRepository(database)

	clock := service.NewClock(cfg.Location())

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	subscriptionService := service.NewSubscriptionService(subscriptionRepository)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		subscriptionService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository, subscriptionService)
	profileService := service.NewProfileService(profileRepository, careerRepository, userRepository, emailService, clock)
	roadmapService := service.NewRoadmapService(careerRepository, roadmapRepository, profileRepository, gateway, emailService, clock)
	careerService := service.NewCareerService(careerRepository, profileRepository, subscriptionService, roadmapService, gateway, clock)
	questService := service.NewQuestService(questRepository, careerRepository, profileRepository, gateway, clock)
	insightService := service.NewInsightService(careerRepository, questService, gateway, markdown.NewParser())
	exportService := service.NewExportService(roadmapService, careerService, subscriptionService, exportStorage, clock)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		AuthService:         authService,
		UserService:         userService,
		ProfileService:      profileService,
		EmailService:        emailService,
		SubscriptionService: subscriptionService,
		CareerService:       careerService,
		RoadmapService:      roadmapService,
		QuestService:        questService,
		InsightService:      insightService,
		ExportService:       exportService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
