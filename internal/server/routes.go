package server

import (
	"github.com/gin-gonic/gin"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/domains/chat"
	"github.com/cartamenu/carta-rag/internal/domains/embedjob"
	"github.com/cartamenu/carta-rag/internal/handlers"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

type Dependencies struct {
	ChatService chat.Service
	Enqueuer    embedjob.Enqueuer
	Configs     *config.Settings
	Logger      *logger.Logger
}

func NewServerDependencies(
	chatService chat.Service,
	enqueuer embedjob.Enqueuer,
	cfg *config.Settings,
	lg *logger.Logger,
) Dependencies {
	return Dependencies{
		ChatService: chatService,
		Enqueuer:    enqueuer,
		Configs:     cfg,
		Logger:      lg,
	}
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.CORSMiddleware())

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	chatHandler := handlers.NewChatHandler(dep.ChatService, dep.Logger)
	catalogHandler := handlers.NewCatalogHandler(dep.Enqueuer, dep.Logger)

	r.POST("/chat", handlers.FeatureGate(cfg.Features.AIChatEnabled), chatHandler.Create)

	// Called by the catalog service, not exposed publicly.
	internal := r.Group("/internal")
	{
		internal.POST("/products/:id/embedding", catalogHandler.EnqueueEmbedding)
	}
}
