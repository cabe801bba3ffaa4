package entrypoint

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/auth"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/loader"
	"github.com/mrlokans/catalog/internal/repository"
	"github.com/mrlokans/catalog/internal/repository/database"
	"github.com/mrlokans/catalog/internal/repository/memory"
	http_controllers "github.com/mrlokans/catalog/internal/http"
)

// Run assembles the repository, populates it if needed and serves the API
// until interrupted.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting catalog v%s (repository mode: %s)", version, cfg.Repository.Mode)

	repo, sessionDB, cleanup, err := buildRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer cleanup()

	sessionManager, err := auth.NewSessionManager(sessionDB, cfg.Auth.SessionLifetime, cfg.Auth.SecureCookies)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authService := auth.NewService(repo, cfg.Auth.BcryptCost)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Repo:           repo,
		AuthService:    authService,
		SessionManager: sessionManager,
		PageSize:       cfg.Data.PageSize,
		Version:        version,
	})

	Serve(router, cfg)
}

// buildRepository selects the backend from configuration. The transient
// store is always loaded from the data directory; the persisted store is
// loaded only on reset or first run. The returned *sql.DB is non-nil only
// for the persisted backend, where sessions share its SQLite file.
func buildRepository(cfg *config.Config) (repository.Repository, *sql.DB, func(), error) {
	switch cfg.Repository.Mode {
	case config.RepositoryModeMemory:
		repo := memory.New()
		if err := loader.Populate(repo, cfg.Data.Dir, cfg.Auth.BcryptCost); err != nil {
			return nil, nil, nil, err
		}
		return repo, nil, func() {}, nil

	case config.RepositoryModeDatabase:
		repo, err := database.New(cfg.Database.Path, cfg.Database.Echo)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := repo.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}

		if cfg.Database.Reset {
			log.Printf("Resetting database at %s", cfg.Database.Path)
			if err := repo.Reset(); err != nil {
				cleanup()
				return nil, nil, nil, err
			}
		}

		count, err := repo.CountItems()
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		if count == 0 {
			if err := loader.Populate(repo, cfg.Data.Dir, cfg.Auth.BcryptCost); err != nil {
				cleanup()
				return nil, nil, nil, err
			}
		}

		sqlDB, err := repo.SQLDB()
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		return repo, sqlDB, cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown repository mode %q", cfg.Repository.Mode)
	}
}

// Serve runs the HTTP server with signal-driven graceful shutdown.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}
