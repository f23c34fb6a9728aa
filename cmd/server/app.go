package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/studygen/studygen-api/internal/config"
	"github.com/studygen/studygen-api/internal/events"
	"github.com/studygen/studygen-api/internal/generation"
	"github.com/studygen/studygen-api/internal/platform/gemini"
	"github.com/studygen/studygen-api/internal/platform/postgres"
	"github.com/studygen/studygen-api/internal/service"
	"github.com/studygen/studygen-api/internal/service/auth"
	"github.com/studygen/studygen-api/internal/skills"
	"github.com/studygen/studygen-api/internal/store"
	"github.com/studygen/studygen-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore      store.UserStore
	documentStore  store.DocumentStore
	quizStore      store.QuizStore
	flashcardStore store.FlashcardStore
	notesStore     store.NotesStore
	summaryStore   store.SummaryStore
	taskStore      *postgres.PostgresTaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        task.Generator
	summarizer       task.Summarizer
	documentService  service.DocumentService
	materialService  service.MaterialService
	userService      service.UserService

	// Skill registry
	skillRegistry *skills.Registry

	// Event system
	eventEmitter events.EventEmitter

	// Task handling
	taskRunner *task.TaskRunner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, logger, bcrypt.DefaultCost)
	app.documentStore = postgres.NewPostgresDocumentStore(db, logger)
	app.quizStore = postgres.NewPostgresQuizStore(db, logger)
	app.flashcardStore = postgres.NewPostgresFlashcardStore(db, logger)
	app.notesStore = postgres.NewPostgresNotesStore(db, logger)
	app.summaryStore = postgres.NewPostgresSummaryStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// LLM generator and the extractive fallback that needs no LLM
	app.generator, err = gemini.NewStudyMaterialGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	app.summarizer = generation.NewExtractiveSummarizer(logger)
	logger.Info("Generation services initialized", "model", cfg.LLM.ModelName)

	// Event system
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Repository adapters bridge the stores to the service layer
	documentRepo := service.NewDocumentRepositoryAdapter(app.documentStore, app.db)
	materialRepo := service.NewMaterialRepositoryAdapter(
		app.quizStore,
		app.flashcardStore,
		app.notesStore,
		app.summaryStore,
		app.db,
	)

	app.materialService, err = service.NewMaterialService(materialRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create material service: %w", err)
	}

	app.documentService, err = service.NewDocumentService(documentRepo, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create document service: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, app.db, logger)

	app.skillRegistry, err = skills.NewRegistry(skills.WithSkillDirs(cfg.Skills.Dirs...))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize skill registry: %w", err)
	}
	logger.Info("Skill registry initialized", "dirs", cfg.Skills.Dirs)

	// Task factory builds generation tasks for new documents and rebuilds
	// executors for tasks recovered after a restart.
	taskFactory := task.NewMaterialGenerationTaskFactory(
		app.documentService,
		app.generator,
		app.summarizer,
		app.materialService,
		logger,
	)
	app.taskStore.SetExecutorFactory(taskFactory)

	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Route generation request events to the task runner
	handler := task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, logger)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(handler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register task handler")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// Starting the runner also recovers unfinished tasks from previous runs, so
// the executor factory must be installed on the task store first.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    app.config.Task.QueueSize,
		WorkerCount:  app.config.Task.WorkerCount,
		StuckTaskAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
