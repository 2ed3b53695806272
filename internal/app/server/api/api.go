// Package api assembles the HTTP surface for the sync server.
//
// POST /api/v1/auth/register     # Register (public)
// POST /api/v1/auth/login        # Login (public)
// GET  /api/v1/health            # Liveness (public)
// GET  /api/v1/{table}           # List records (auth)
// POST /api/v1/{table}           # Create record (auth)
// GET  /api/v1/{table}/{id}      # Fetch record (auth)
// PUT  /api/v1/{table}/{id}      # Replace record (auth)
// DELETE /api/v1/{table}/{id}    # Delete record (auth)
package api

import (
	authAPI "heybuddy/internal/app/server/api/http/auth"
	documentAPI "heybuddy/internal/app/server/api/http/document"
	healthAPI "heybuddy/internal/app/server/api/http/health"
	"heybuddy/internal/app/server/api/http/middleware"
	authMW "heybuddy/internal/app/server/api/http/middleware/auth"
	loggerMW "heybuddy/internal/app/server/api/http/middleware/logger"
	"heybuddy/internal/app/server/config"
	"heybuddy/internal/app/server/token"
	"heybuddy/internal/domain/document"
	"heybuddy/internal/domain/user"
	"heybuddy/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Auth     *authAPI.Handler
	Document *documentAPI.Handler
}

// New builds a *chi.Mux with every operation registered through huma.
func New(cfg *config.Config, storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("HeyBuddy API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, storage, log)
	h.Health.SetupRoutes(API)
	h.Auth.SetupRoutes(API)
	h.Document.SetupRoutes(API)

	return mux
}

func handlers(cfg *config.Config, storage *postgres.Storage, log *slog.Logger) *Handlers {
	tokens := token.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	auth := authMW.New(tokens, log)
	logging := loggerMW.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(logging.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage.Pool(), log)
	userService := user.NewService(userRepo, log)
	middlewares.Add(logging.Middleware())
	authHandler := authAPI.NewHandler(userService, tokens, log, middlewares.GetAllAndClear())

	documentRepo := postgres.NewDocumentRepository(storage.Pool(), log)
	documentService := document.NewService(documentRepo, log)
	middlewares.Add(auth.Middleware())
	middlewares.Add(logging.Middleware())
	documentHandler := documentAPI.NewHandler(documentService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Auth:     authHandler,
		Document: documentHandler,
	}
}
