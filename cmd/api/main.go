package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartamenu/carta-rag/internal/app"
	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/database"
	"github.com/cartamenu/carta-rag/internal/server"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// This is the main entry point for the API server.
// Loads in all system components
// Exposes functionalities
func main() {
	// fetch cfg
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// load global logger
	lg := logger.New(cfg.Debug)
	lg.Info("Logger initialized")
	// fetch database connection
	db, err := database.InitDB(cfg)
	if err != nil {
		lg.Fatalf("Failed to connect to database: %v", err)
	}
	// handle migrations
	if err := database.MigrateDB(db); err != nil {
		lg.Fatalf("Failed to run migrations: %v", err)
	}
	rc := database.NewRedis(cfg.Redis)

	application, err := app.NewApp(cfg, lg, db, rc)
	if err != nil {
		lg.Fatalf("Failed to wire application: %v", err)
	}

	// embedding worker runs in-process alongside the API
	go func() {
		if err := application.Worker.Start(); err != nil {
			lg.Fatalf("Embedding worker exiting: %v", err)
		}
	}()

	// compose router
	router := gin.Default()
	server.InitializeRoutes(cfg, router, application.GetServerDependencies())

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	// listen with graceful exit
	srv := &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}
	go func() {
		lg.Infof("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatalf("Server exiting %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// 5 secs then cancel
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorf("Shutdown err %v", err)
	}
	application.Worker.Shutdown()
	if err := application.Enqueuer.Close(); err != nil {
		lg.Errorf("Enqueuer close err %v", err)
	}
	lg.Info("Shutdown system")
}
