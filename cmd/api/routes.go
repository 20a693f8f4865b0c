package main

import (
	"net/http"

	httphandlers "github.com/pasqualebf/finanzas-app/internal/interfaces/http"
	"github.com/pasqualebf/finanzas-app/internal/shared/config"
	"github.com/pasqualebf/finanzas-app/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.Firebase)

	mux.Handle("/api/simplefin/connect", authMiddleware(http.HandlerFunc(deps.SimpleFinHandler.HandleConnect)))
	mux.Handle("/api/simplefin/sync", authMiddleware(http.HandlerFunc(deps.SimpleFinHandler.HandleSyncNow)))
	mux.Handle("/api/import/text", authMiddleware(http.HandlerFunc(deps.ImporterHandler.HandleImportText)))
	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleListAccounts)))
	mux.Handle("/api/movements", authMiddleware(http.HandlerFunc(deps.MovementHandler.HandleListMovements)))

	// Apply global middleware
	return middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(mux))
}
