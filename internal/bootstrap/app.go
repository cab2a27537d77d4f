package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"bewerbung-gateway/internal/applications"
	"bewerbung-gateway/internal/auth"
	"bewerbung-gateway/internal/generator"
	"bewerbung-gateway/internal/server"
	"bewerbung-gateway/internal/shared/config"
	"bewerbung-gateway/internal/shared/storage/db"
	"bewerbung-gateway/internal/upstream"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Upstream    *upstream.Client
	FlowStore   generator.Store
	FlowService *generator.Service
	FlowHandler *generator.Handler
	AppsHandler *applications.Handler
	AuthHandler *auth.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	if err != nil {
		return nil, err
	}

	var flowStore generator.Store
	if sqlDB != nil {
		flowStore = &generator.PGStore{DB: sqlDB}
	} else {
		flowStore = generator.NewMemoryStore()
	}

	flowSvc := generator.NewService(flowStore, client)

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Upstream:    client,
		FlowStore:   flowStore,
		FlowService: flowSvc,
		FlowHandler: generator.NewHandler(flowSvc),
		AppsHandler: applications.NewHandler(client),
		AuthHandler: auth.NewHandler(client),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		FlowHandler: app.FlowHandler,
		AppsHandler: app.AppsHandler,
		AuthHandler: app.AuthHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory session store")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory session store: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
