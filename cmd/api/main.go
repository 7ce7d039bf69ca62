package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jwtauth "pet-diary/internal/adapters/auth/jwt"
	"pet-diary/internal/adapters/storage/mongodb"
	pg "pet-diary/internal/adapters/storage/postgres"
	"pet-diary/internal/platform/config"
	"pet-diary/internal/platform/logger"
	"pet-diary/internal/router"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New(logger.Options{}).Error("invalid config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Error("storage unavailable", map[string]any{"storage": string(cfg.Storage), "error": err.Error()})
		os.Exit(1)
	}
	defer backend.shutdown()

	tokens := jwtauth.New(cfg.JWTSecret, cfg.JWTTTL)

	r := router.NewRouter(router.Options{
		AuthVerifier:   tokens,
		TokenIssuer:    tokens,
		AllowDebugUser: cfg.DebugUserAllowed(),
		Logger:         log,
		Repos:          &backend.repos,
		Health:         backend.health,
		AuthRPS:        cfg.AuthRateLimitRPS,
		AuthBurst:      cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr(), "storage": backend.name, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
	log.Info("server stopped", nil)
}

type storageBackend struct {
	name     string
	repos    router.Repos
	health   func(ctx context.Context) error
	shutdown func()
}

// openBackend abre el storage configurado. Fuera de producción, si mongo no
// responde cae a memoria para poder levantar en local.
func openBackend(ctx context.Context, cfg config.Config, log logger.Logger) (storageBackend, error) {
	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
		if err != nil {
			if cfg.IsProduction() {
				return storageBackend{}, err
			}
			log.Warn("mongo unreachable, using in-memory storage", map[string]any{"error": err.Error()})
			return memoryBackend(), nil
		}

		setupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := mongodb.Setup(setupCtx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return storageBackend{}, err
		}

		return storageBackend{
			name:  string(config.StorageMongo),
			repos: router.Repos{
				Users: mongodb.NewUsersRepo(db),
				Pets:  mongodb.NewPetsRepo(db),
				Diary: mongodb.NewDiaryRepo(db),
			},
			health:   func(ctx context.Context) error { return mongodb.Ping(ctx, client) },
			shutdown: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StoragePostgres:
		db, err := pg.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return storageBackend{}, err
		}
		if err := pg.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return storageBackend{}, err
		}

		return storageBackend{
			name:  string(config.StoragePostgres),
			repos: router.Repos{
				Users: pg.NewUsersRepo(db),
				Pets:  pg.NewPetsRepo(db),
				Diary: pg.NewDiaryRepo(db),
			},
			health:   func(ctx context.Context) error { return pg.Ping(ctx, db) },
			shutdown: func() { _ = db.Close() },
		}, nil

	default:
		return memoryBackend(), nil
	}
}

func memoryBackend() storageBackend {
	return storageBackend{
		name:     string(config.StorageMemory),
		repos:    router.MemoryRepos(),
		shutdown: func() {},
	}
}
