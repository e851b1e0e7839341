package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dynaform/internal/activity"
	"dynaform/internal/audit"
	"dynaform/internal/auth"
	"dynaform/internal/form"
	jwttoken "dynaform/internal/jwt_token"
	"dynaform/internal/platform/config"
	"dynaform/internal/platform/httpserver"
	"dynaform/internal/platform/logger"
	"dynaform/internal/platform/metrics"
	"dynaform/internal/platform/middleware"
	platformredis "dynaform/internal/platform/redis"
	"dynaform/internal/response"
	"dynaform/internal/user"
	"dynaform/internal/view"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	stores, err := buildStores(cfg)
	if err != nil {
		log.Error("failed to initialize storage", "error", err.Error())
		os.Exit(1)
	}
	defer stores.Close()

	redisClient, err := platformredis.New(context.Background(), cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	codec := jwttoken.NewJWTCodec(cfg.JWTSigningKey, cfg.TokenTTL, "dynaform")

	publisher := audit.NewPublisher(stores.audit, log, audit.WithAsyncBuffer(256))
	defer publisher.Close()

	var viewOpts []view.ServiceOption
	if redisClient != nil {
		viewOpts = append(viewOpts, view.WithRecencyMarker(view.NewRedisRecencyMarker(redisClient)))
	}
	viewService := view.NewService(stores.views, stores.forms, m, log, viewOpts...)

	authService := auth.NewService(stores.users, codec)
	formService := form.NewService(stores.forms, stores.questions, viewService, publisher)
	responseService := response.NewService(stores.responses, stores.forms, publisher, m)
	activityService := activity.NewService(stores.forms, stores.views, stores.users)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Authenticate(jwttoken.NewJWTCodecAdapter(codec), authService, m, log))

	auth.NewHandler(authService, log).Register(router)
	form.NewHandler(formService, log).Register(router)
	response.NewHandler(responseService, log).Register(router)
	activity.NewHandler(activityService, m, log).Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting dynaform", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// stores bundles the storage backends so main wires either the Postgres or
// the in-memory set as a unit.
type stores struct {
	users     user.Store
	forms     form.Store
	questions form.QuestionStore
	responses response.Store
	views     view.EventStore
	audit     audit.Store

	db *sql.DB
}

func (s *stores) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// buildStores picks Postgres when a DSN is configured and falls back to
// in-memory storage for development.
func buildStores(cfg config.Server) (*stores, error) {
	if cfg.PostgresDSN == "" {
		formStore := form.NewInMemoryStore()
		return &stores{
			users:     user.NewInMemoryStore(),
			forms:     formStore,
			questions: formStore,
			responses: response.NewInMemoryStore(),
			views:     view.NewInMemoryEventStore(),
			audit:     audit.NewInMemoryStore(),
		}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	formStore := form.NewPostgresStore(db)
	return &stores{
		users:     user.NewPostgresStore(db),
		forms:     formStore,
		questions: formStore,
		responses: response.NewPostgresStore(db),
		views:     view.NewPostgresEventStore(db),
		audit:     audit.NewPostgresStore(db),
		db:        db,
	}, nil
}
