package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayasqualli/bookshelf/internal/api/controller"
	"github.com/ayasqualli/bookshelf/internal/api/middleware"
	apirepository "github.com/ayasqualli/bookshelf/internal/api/repository"
	"github.com/ayasqualli/bookshelf/internal/api/service"
	"github.com/ayasqualli/bookshelf/internal/books"
	"github.com/ayasqualli/bookshelf/internal/config"
	"github.com/ayasqualli/bookshelf/internal/db"
	"github.com/ayasqualli/bookshelf/internal/logger"
	"github.com/ayasqualli/bookshelf/internal/repository"
	"github.com/ayasqualli/bookshelf/internal/server"
	"github.com/ayasqualli/bookshelf/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(cfg.OTLPCollectorAddr)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init()

	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("failed to initialize redis: %v", err)
	}

	// Initialize SQLite DB
	conn, err := db.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.InitializeSchema(conn); err != nil {
		log.Fatalf("failed to initialize sqlite schema: %v", err)
	}

	// Create repositories and the catalog client
	userRepo := apirepository.NewUserRepository(conn)
	favoriteRepo := apirepository.NewFavoriteRepository(conn)
	sessionRepo := repository.NewSessionRepository(rdb, cfg.SessionTTL)
	catalog := books.NewClient(cfg.BooksAPIBaseURL, cfg.BooksAPIKey, cfg.BooksTimeout)

	// Create services
	userService := service.NewUserService(userRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, userRepo, catalog)
	bookService := service.NewBookService(catalog)

	// Create controllers and middleware
	auth := middleware.NewAuth(sessionRepo, cfg.SessionCookie)
	userController := controller.NewUserController(userService, sessionRepo, cfg.SessionCookie, cfg.SessionTTL)
	bookController := controller.NewBookController(bookService)
	favoriteController := controller.NewFavoriteController(favoriteService)

	// Create the Gin-based server
	srv := server.NewServer(auth, userController, bookController, favoriteController)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("http server started on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := conn.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exiting")
}
