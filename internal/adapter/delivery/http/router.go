// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerFile = "./docs/swagger.yml"

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
//
// Operational endpoints live under "/-/": '-' is not a base62 digit, so they
// can never shadow a short code.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	})

	r.Route("/-", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/-/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, swaggerFile)
		})
	})

	h := newURLHandler(urlUseCase, validator.New())

	r.Post("/ShortenURL", h.shortenURL)
	r.Get("/{shortCode}", h.resolveShortCode)

	return r
}
