package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framil09/prefeitura--sub000/internal"
	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	accessPostgres "github.com/framil09/prefeitura--sub000/internal/accesscontrol/postgres"
	"github.com/framil09/prefeitura--sub000/internal/auth"
	authPostgres "github.com/framil09/prefeitura--sub000/internal/auth/postgres"
	"github.com/framil09/prefeitura--sub000/internal/core/events"
	"github.com/framil09/prefeitura--sub000/internal/transport"
	"github.com/framil09/prefeitura--sub000/internal/transport/rest"
	"github.com/framil09/prefeitura--sub000/internal/user"
	userPostgres "github.com/framil09/prefeitura--sub000/internal/user/postgres"
	"github.com/framil09/prefeitura--sub000/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that backs the admin panel`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(config.Observability.Logging.Format, config.Observability.Logging.Level)
	lg := logger.L()

	sqlDB, gormDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, buildDeps(config, sqlDB, gormDB, lg))

	addr := fmt.Sprintf(":%d", config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: config.Server.ReadHeaderTimeout,
		ReadTimeout:       config.Server.ReadTimeout,
		WriteTimeout:      config.Server.WriteTimeout,
		IdleTimeout:       config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func buildDeps(config *internal.Config, sqlDB *sqlx.DB, gormDB *gorm.DB, lg *slog.Logger) rest.RouterDeps {
	base := transport.NewBaseHandler(lg)
	bus := events.NewBus(lg)

	permissionRepo := accessPostgres.NewPermissionRepository(gormDB)
	permissionService := accesscontrol.NewService(permissionRepo, bus, lg)
	permissionHandler := accesscontrol.NewHandler(base, permissionService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, lg)
	userHandler := user.NewHandler(base, userService)

	verifier := auth.NewTokenVerifier(config.Security.AccessTokenSecret)
	identityRepo := authPostgres.NewIdentityRepository(gormDB)
	authMiddleware := auth.NewMiddleware(base, verifier, identityRepo)

	return rest.RouterDeps{
		DB:                sqlDB.DB,
		AuthMiddleware:    authMiddleware,
		PermissionHandler: permissionHandler,
		UserHandler:       userHandler,
		AllowedOrigins:    config.Server.AllowedOrigins,
		Logger:            lg,
	}
}

// initDB opens one pgx connection pool and layers gorm on top of it so
// repositories and health checks share the same pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	const driver = "pgx"

	sqlDB, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}

	return sqlDB, gormDB, nil
}
