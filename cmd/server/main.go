package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrew/ai-usage-monitor/internal/alerts"
	"github.com/andrew/ai-usage-monitor/internal/api"
	"github.com/andrew/ai-usage-monitor/internal/auth"
	"github.com/andrew/ai-usage-monitor/internal/cli/management"
	"github.com/andrew/ai-usage-monitor/internal/config"
	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/providers"
)

func main() {
	// Parse command-line flags
	manageCmd := flag.Bool("manage", false, "Run interactive management TUI")

	// Automation subcommands for scripting
	addUser := flag.String("add-user", "", "Create user with JSON input: {\"email\":\"...\", \"password\":\"...\", \"name\":\"...\"}")
	listUsers := flag.Bool("list-users", false, "List all users (JSON output)")
	listPlatforms := flag.String("list-platforms", "", "List a user's platforms by email (JSON output)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[ai-usage-monitor] ", log.LstdFlags)

	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	tokens := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenValidity)
	authService := auth.NewService(db, tokens)

	// Handle automation commands (JSON I/O for scripting)
	if *addUser != "" {
		management.NewManager(db, authService).AddUserJSON(*addUser)
		return
	}

	if *listUsers {
		management.NewManager(db, authService).ListUsersJSON()
		return
	}

	if *listPlatforms != "" {
		management.NewManager(db, authService).ListPlatformsJSON(*listPlatforms)
		return
	}

	// Handle interactive management mode
	if *manageCmd {
		if err := management.NewManager(db, authService).Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Default: run server
	runServer(cfg, db, authService, logger)
}

func runServer(cfg *config.Config, db *database.DB, authService *auth.Service, logger *log.Logger) {
	logger.Printf("Starting AI usage monitor on %s", cfg.Server.Address())
	logger.Printf("Database initialized at %s", cfg.Database.Path)

	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		logger.Printf("WARNING: JWT_SECRET not set, using the development secret")
	}

	upstream := providers.NewClient(cfg.Proxy.UpstreamTimeout)
	checker := alerts.NewChecker(alerts.NewLogNotifier(logger))

	// Setup routes
	handler := api.SetupRoutes(db, authService, upstream, checker, cfg.RateLimit.RequestsPerMinute, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on http://%s", cfg.Server.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Server shutting down...")

	// Gracefully shutdown the server with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}
