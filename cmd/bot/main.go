package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anarchy/associates/internal/config"
	"github.com/anarchy/associates/internal/database"
	"github.com/anarchy/associates/internal/gateway"
	"github.com/anarchy/associates/internal/jobs"
	"github.com/anarchy/associates/internal/repository"
	"github.com/anarchy/associates/internal/service"
	"github.com/anarchy/associates/internal/validation"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewMongo(database.Config{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close(context.Background()) }()

	slog.Info("connected to database", slog.String("database", cfg.Database.Database))

	// Initialize repositories
	staffRepo := repository.NewStaffRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	jobRepo := repository.NewJobRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	retainerRepo := repository.NewRetainerRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	configRepo := repository.NewGuildConfigRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	wipeRepo := repository.NewWipeRepository(db)

	// Connect the Discord gateway
	session, err := gateway.NewSession(cfg.Bot.Token, cfg.Bot.GuildIDs)
	if err != nil {
		slog.Error("failed to create discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	discord := gateway.NewDiscordAdapter(session)

	// Initialize the validation pipeline
	businessRules := validation.NewBusinessRuleService(staffRepo, caseRepo, configRepo)
	crossEntity := validation.NewCrossEntityService(caseRepo, jobRepo, applicationRepo, staffRepo, discord)
	validator := validation.NewCommandValidationService(businessRules, crossEntity, validation.Limits{
		CacheTTL:         cfg.Validation.CacheTTL,
		CacheMaxEntries:  cfg.Validation.CacheMaxEntries,
		BypassTTL:        cfg.Validation.BypassTTL,
		BypassMaxPerUser: cfg.Validation.BypassMaxPerGuild,
	})

	// Initialize services
	auditService := service.NewAuditService(auditRepo)
	staffService := service.NewStaffService(staffRepo, discord, auditService)
	jobService := service.NewJobService(jobRepo, auditService)
	caseService := service.NewCaseService(caseRepo, staffRepo, auditService)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, staffRepo, staffService, auditService)
	retainerService := service.NewRetainerService(retainerRepo, auditService)
	feedbackService := service.NewFeedbackService(feedbackRepo, staffRepo)
	reminderService := service.NewReminderService(reminderRepo)
	permissionService := service.NewPermissionService(configRepo, auditService)
	rulesService := service.NewRulesChannelService(configRepo, discord)
	setupService := service.NewAnarchyServerSetupService(discord, configRepo, jobRepo, wipeRepo, auditService)

	// Wire command routes
	router := gateway.NewRouter(validator, discord)
	handlers := &gateway.Handlers{
		Staff:         staffService,
		Jobs:          jobService,
		Cases:         caseService,
		Applications:  applicationService,
		Retainers:     retainerService,
		Feedback:      feedbackService,
		Reminders:     reminderService,
		Permissions:   permissionService,
		Setup:         setupService,
		Rules:         rulesService,
		Audit:         auditService,
		BusinessRules: businessRules,
		CrossEntity:   crossEntity,
	}
	handlers.RegisterRoutes(router, validator)
	session.AddHandler(router.HandleInteraction)

	if err := session.Open(); err != nil {
		slog.Error("failed to open discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = session.Close() }()

	if err := session.RegisterCommands(gateway.Commands()); err != nil {
		slog.Error("failed to register commands", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start background processors
	reminderDispatcher := jobs.NewReminderDispatcher(reminderRepo, discord, cfg.Jobs.ReminderInterval)
	reminderDispatcher.Start()
	defer reminderDispatcher.Stop()

	jobCleanup := jobs.NewJobCleanup(jobRepo, discord, cfg.Jobs.JobMaxOpenAge, cfg.Jobs.JobCleanupInterval)
	jobCleanup.Start()
	defer jobCleanup.Stop()

	slog.Info("anarchy & associates is open for business")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
}
