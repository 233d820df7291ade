package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/graph-gophers/graphql-go"

	"blogapi/internal/auth"
	"blogapi/internal/authz"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/gql"
	handlers "blogapi/internal/handler"
	"blogapi/internal/loader"
	"blogapi/internal/middleware"
	"blogapi/internal/repository"
	"blogapi/internal/service"
	"blogapi/internal/storage"
)

// App holds the long-lived dependencies shared by every request.
type App struct {
	Cfg      *config.Config
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Enforcer *authz.Enforcer
	Tokens   *auth.TokenCodec
	Schema   *graphql.Schema
}

// New connects to the database and the object store, applies pending
// migrations and builds the services. Close releases the database.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, db)
	if err != nil {
		db.CloseDB()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, db *database.DB) (*App, error) {
	if err := db.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewMinIOClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	enforcer, err := authz.NewEnforcer(cfg.Policy.ModelPath, cfg.Policy.PolicyPath)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.TokenDurationMin)
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, store, tokens)

	schema, err := gql.NewSchema(gql.NewResolver(enforcer, services))
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}

	return &App{
		Cfg:      cfg,
		DB:       db,
		Repo:     repo,
		Services: services,
		Enforcer: enforcer,
		Tokens:   tokens,
		Schema:   schema,
	}, nil
}

func (a *App) Close() error {
	return a.DB.CloseDB()
}

// Router mounts the GraphQL endpoint and the REST routes behind the shared
// middleware chain.
func (a *App) Router() http.Handler {
	h := handlers.NewHandlers(a.Services, a.Enforcer, a.DB, a.Cfg)

	r := mux.NewRouter()
	r.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.Handle("/graphql", gql.Handler(a.Schema)).Methods(http.MethodPost)
	r.Handle("/api/uploads", middleware.RequireIdentity(http.HandlerFunc(h.UploadFile))).Methods(http.MethodPost)
	r.Handle("/file/{uuid}", middleware.RequireIdentity(http.HandlerFunc(h.DownloadFile))).Methods(http.MethodGet)

	return middleware.Chain(
		r,
		loader.Middleware(a.Services.User, a.Services.Post),
		middleware.AuthMiddleware(a.Tokens),
		middleware.CORSMiddleware(a.Cfg.AllowedOrigins),
		middleware.LoggingMiddleware,
	)
}
