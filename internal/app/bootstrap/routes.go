// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	healthfeature "github.com/dalemusser/taskhub/internal/app/features/health"
	projectsfeature "github.com/dalemusser/taskhub/internal/app/features/projects"
	realtimefeature "github.com/dalemusser/taskhub/internal/app/features/realtime"
	tasksfeature "github.com/dalemusser/taskhub/internal/app/features/tasks"
	userstore "github.com/dalemusser/taskhub/internal/app/store/users"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. TaskHub wires the token middleware globally and
// mounts the JSON API under /api, with the health check and the websocket
// endpoint at the root.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tokens, err := auth.NewTokenManager(appCfg.AuthSecret, appCfg.AuthTokenTTL, userstore.New(db), logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: resolves the bearer token to a user record.
	// Handlers read it via auth.CurrentUser(r).
	r.Use(tokens.LoadTokenUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Realtime channel. Authenticates during the upgrade handshake.
	realtimeHandler := realtimefeature.NewHandler(db, logger, tokens)
	r.Mount("/ws", realtimefeature.Routes(realtimeHandler))

	// JSON API.
	r.Route("/api", func(api chi.Router) {
		projectsHandler := projectsfeature.NewHandler(db, logger)
		api.Mount("/projects", projectsfeature.Routes(projectsHandler))

		tasksHandler := tasksfeature.NewHandler(db, logger)
		api.Mount("/tasks", tasksfeature.Routes(tasksHandler))
	})

	return r, nil
}
