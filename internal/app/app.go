package app

import (
	"time"

	"github.com/go-redis/redis"
	"gorm.io/gorm"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/domains/chat"
	"github.com/cartamenu/carta-rag/internal/domains/embedjob"
	"github.com/cartamenu/carta-rag/internal/domains/product"
	"github.com/cartamenu/carta-rag/internal/repository/embedcache"
	productRepo "github.com/cartamenu/carta-rag/internal/repository/product"
	"github.com/cartamenu/carta-rag/internal/retrieval"
	"github.com/cartamenu/carta-rag/internal/server"
	"github.com/cartamenu/carta-rag/pkg/aiclient"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	AIClient aiclient.Client
	// repos and services
	ProductRepo product.Repository
	ChatService chat.Service
	Enqueuer    embedjob.Enqueuer
	Worker      *embedjob.Worker
	ServerDeps  server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, lg *logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: lg,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// 1. Resolve the AI provider once at startup. A misconfigured
	// provider is fatal here rather than on the first request.
	ai, err := aiclient.New(a.Config.AI, a.Logger)
	if err != nil {
		return err
	}
	a.AIClient = ai

	// 2. Set up repositories
	a.ProductRepo = productRepo.NewGormProductRepo(a.DB)
	queryCache := embedcache.New(a.RC, time.Hour, a.Logger)

	// 3. Services
	a.ChatService = chat.New(
		a.ProductRepo,
		a.AIClient,
		retrieval.NewLinearIndex(),
		queryCache,
		a.Logger,
		a.Config.Features.ChatLogging,
	)

	// 4. Background embedding pipeline
	a.Enqueuer = embedjob.NewEnqueuer(a.Config.Redis, a.Config.Worker, a.Config.Features, a.Logger)
	processor := embedjob.NewProcessor(a.ProductRepo, a.AIClient, a.Logger)
	a.Worker = embedjob.NewWorker(a.Config.Redis, a.Config.Worker, processor, a.Logger)

	a.ServerDeps = server.NewServerDependencies(
		a.ChatService,
		a.Enqueuer,
		a.Config,
		a.Logger,
	)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
