package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/vadimbarashkov/base62-shortener/internal/adapter/cache/memory"
	"github.com/vadimbarashkov/base62-shortener/internal/adapter/repository/cached"
	"github.com/vadimbarashkov/base62-shortener/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/base62-shortener/internal/adapter/repository/sqlite"
	"github.com/vadimbarashkov/base62-shortener/internal/config"
	"github.com/vadimbarashkov/base62-shortener/internal/entity"
	"github.com/vadimbarashkov/base62-shortener/internal/usecase"
	"github.com/vadimbarashkov/base62-shortener/pkg/sqldb"
	"golang.org/x/sync/errgroup"

	rediscache "github.com/vadimbarashkov/base62-shortener/internal/adapter/cache/redis"
	delivery "github.com/vadimbarashkov/base62-shortener/internal/adapter/delivery/http"
)

type urlRepository interface {
	FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
	CreateAndAssignCode(ctx context.Context, originalURL string, encode func(uint64) string) (*entity.URL, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
}

// App holds the HTTP handler of the service together with the resources it owns.
type App struct {
	Handler http.Handler
	closers []func() error
}

// New connects to the configured storage, applies migrations, sets up the
// optional cache and builds the HTTP handler. Close must be called to release
// the acquired resources.
func New(ctx context.Context, cfg *config.Config, logger *httplog.Logger) (*App, error) {
	const op = "app.New"

	a := new(App)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a.closers = append(a.closers, db.Close)

	logger.InfoContext(ctx, "running migrations",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("source", cfg.Storage.MigrationsURL()),
	)

	if err := sqldb.RunMigrations(cfg.Storage.MigrationsURL(), migrationDatabaseURL(cfg)); err != nil {
		a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var repo urlRepository

	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		repo = sqlite.NewURLRepository(db)
	default:
		repo = postgres.NewURLRepository(db)
	}

	switch cfg.Cache.Driver {
	case config.CacheDriverMemory:
		repo = cached.NewURLRepository(repo, memory.New(cfg.Cache.Size, cfg.Cache.TTL), logger.Logger)
	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}

		repo = cached.NewURLRepository(repo, rediscache.New(client, cfg.Cache.TTL), logger.Logger)
	}

	logger.InfoContext(ctx, "storage ready",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("cache", cfg.Cache.Driver),
	)

	urlUseCase := usecase.NewURLUseCase(cfg.BaseURL, repo)
	a.Handler = delivery.NewRouter(logger, urlUseCase)

	return a, nil
}

// Close releases the resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		return sqldb.NewSQLite(ctx, cfg.SQLite.Path)
	default:
		return sqldb.NewPostgres(
			ctx,
			cfg.Postgres.DSN(),
			sqldb.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			sqldb.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			sqldb.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			sqldb.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
		)
	}
}

func migrationDatabaseURL(cfg *config.Config) string {
	if cfg.Storage.Driver == config.StorageDriverSQLite {
		return sqldb.SQLiteMigrationURL(cfg.SQLite.Path)
	}

	return cfg.Postgres.DSN()
}

// Run serves the application until ctx is cancelled, then shuts the server
// down and releases the storage.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: failed to build application: %w", op, err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to release resources", slog.String("op", op), slog.Any("err", err))
		}
	}()

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        a.Handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("base_url", cfg.BaseURL),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
