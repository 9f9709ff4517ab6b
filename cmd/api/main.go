package main

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/lxlismy7-source/springboot-assigment/internal/config"
	"github.com/lxlismy7-source/springboot-assigment/internal/handler"
	"github.com/lxlismy7-source/springboot-assigment/internal/metrics"
	"github.com/lxlismy7-source/springboot-assigment/internal/middleware"
	"github.com/lxlismy7-source/springboot-assigment/internal/repository"
	"github.com/lxlismy7-source/springboot-assigment/internal/service"
	"github.com/lxlismy7-source/springboot-assigment/internal/token"
	"github.com/lxlismy7-source/springboot-assigment/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(cfg); err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}

	metrics.Init()

	// Initialize layers
	repo := repository.NewRepository(db)
	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)

	var notifier service.SignupNotifier
	if cfg.OpsEmail != "" {
		notifier = email.NewSender(cfg, logger)
	}

	authSvc := service.NewAuthService(repo, tokens, notifier, logger)
	noteSvc := service.NewNoteService(repo, logger)
	h := handler.NewHandler(authSvc, noteSvc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(metrics.Middleware)
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public routes
	r.HandleFunc("/api/auth/signup", h.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/api/notes").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(tokens))
	authRouter.HandleFunc("", h.CreateNote).Methods("POST")
	authRouter.HandleFunc("", h.ListNotes).Methods("GET")
	authRouter.HandleFunc("/{id}", h.GetNote).Methods("GET")
	authRouter.HandleFunc("/{id}", h.DeleteNote).Methods("DELETE")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.DBConn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
