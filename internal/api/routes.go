package api

import (
	"log"
	"net/http"

	"github.com/andrew/ai-usage-monitor/internal/alerts"
	"github.com/andrew/ai-usage-monitor/internal/api/handlers"
	"github.com/andrew/ai-usage-monitor/internal/api/middleware"
	"github.com/andrew/ai-usage-monitor/internal/auth"
	"github.com/andrew/ai-usage-monitor/internal/database"
	"github.com/andrew/ai-usage-monitor/internal/providers"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	db *database.DB,
	authService *auth.Service,
	upstream *providers.Client,
	checker *alerts.Checker,
	rateLimitPerMinute int,
	logger *log.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Create handlers
	authHandler := handlers.NewAuthHandler(authService)
	platformHandler := handlers.NewPlatformHandler(db)
	proxyHandler := handlers.NewProxyHandler(db, upstream, checker)
	usageHandler := handlers.NewUsageHandler(db)
	analyticsHandler := handlers.NewAnalyticsHandler(db)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitPerMinute)
	loggerMiddleware := middleware.NewLogger(logger)
	corsMiddleware := middleware.NewCORS("")

	// Health check (no auth required)
	mux.HandleFunc("GET /health", handleHealth)

	// Auth routes (no token required)
	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)

	authed := func(h http.HandlerFunc) http.Handler {
		return applyMiddleware(h, authMiddleware.Authenticate)
	}

	mux.Handle("GET /api/auth/profile", authed(authHandler.HandleProfile))

	// Platform CRUD
	mux.Handle("GET /api/platforms", authed(platformHandler.HandleList))
	mux.Handle("POST /api/platforms", authed(platformHandler.HandleCreate))
	mux.Handle("GET /api/platforms/{id}", authed(platformHandler.HandleGet))
	mux.Handle("PUT /api/platforms/{id}", authed(platformHandler.HandleUpdate))
	mux.Handle("DELETE /api/platforms/{id}", authed(platformHandler.HandleDelete))

	// Chat proxy is the hot path; it is the only rate-limited route group
	mux.Handle("POST /api/proxy/{platformID}/chat", applyMiddleware(
		http.HandlerFunc(proxyHandler.HandleChat),
		authMiddleware.Authenticate,
		rateLimitMiddleware.RateLimit,
	))

	// Usage and analytics
	mux.Handle("POST /api/usage/report", authed(proxyHandler.HandleReportUsage))
	mux.Handle("GET /api/usage/logs", authed(usageHandler.HandleGetLogs))
	mux.Handle("GET /api/usage/stats", authed(usageHandler.HandleGetStats))
	mux.Handle("GET /api/analytics/daily", authed(analyticsHandler.HandleDaily))
	mux.Handle("GET /api/analytics/distribution", authed(analyticsHandler.HandleDistribution))

	// Apply global middleware
	handler := corsMiddleware.Handle(mux)
	handler = loggerMiddleware.Log(handler)

	return handler
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// applyMiddleware applies middleware in reverse order
func applyMiddleware(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
