//go:build integration

package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vadimbarashkov/base62-shortener/internal/config"
)

func startContainer(t testing.TB, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	ctx := context.Background()

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := cont.Terminate(ctx); err != nil {
			t.Fatalf("Failed to terminate %s container: %v", req.Image, err)
		}
	})

	return cont
}

func postgresRedisConfig(t testing.TB) *config.Config {
	t.Helper()

	ctx := context.Background()

	pgCont := startContainer(t, testcontainers.ContainerRequest{
		Image: "postgres:16-alpine",
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "url_shortener",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})

	redisCont := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})

	pgHost, err := pgCont.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	pgPort, err := pgCont.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisAddr, err := redisCont.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get container endpoint: %v", err)
	}

	return &config.Config{
		Env:     config.EnvDev,
		BaseURL: "http://localhost:8000",
		Storage: config.Storage{
			Driver:         config.StorageDriverPostgres,
			MigrationsPath: "../../migrations",
		},
		Postgres: config.Postgres{
			User:     "test",
			Password: "test",
			Host:     pgHost,
			Port:     pgPort.Int(),
			DB:       "url_shortener",
			SSLMode:  "disable",
		},
		Cache: config.Cache{
			Driver: config.CacheDriverRedis,
			TTL:    time.Minute,
		},
		Redis: config.Redis{
			Addr: redisAddr,
		},
	}
}

func TestApp_PostgresRedis(t *testing.T) {
	cfg := postgresRedisConfig(t)

	a, err := New(context.Background(), cfg, httplog.NewLogger("", httplog.Options{Writer: io.Discard}))
	if err != nil {
		t.Fatalf("Failed to build application: %v", err)
	}
	t.Cleanup(func() {
		a.Close()
	})

	server := httptest.NewServer(a.Handler)
	t.Cleanup(server.Close)

	e := httpexpect.Default(t, server.URL)

	e.POST("/ShortenURL").
		WithQuery("url", "https://example.com/a").
		Expect().
		Status(http.StatusOK).
		Text().IsEqual("http://localhost:8000/b")

	e.POST("/ShortenURL").
		WithQuery("url", "https://example.com/a").
		Expect().
		Status(http.StatusOK).
		Text().IsEqual("http://localhost:8000/b")

	for i := 0; i < 2; i++ {
		e.GET("/b").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusTemporaryRedirect).
			Header("Location").IsEqual("https://example.com/a")
	}

	e.GET("/zzzz").
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusNotFound).
		JSON().Object().
		HasValue("detail", "URL not found")
}
