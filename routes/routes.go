package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pmitra96/recipe-backend/config"
	"github.com/pmitra96/recipe-backend/controllers"
	"github.com/pmitra96/recipe-backend/metrics"
	auth "github.com/pmitra96/recipe-backend/middleware"
)

// SetupRouter mounts every endpoint. history may be nil when no database is configured.
func SetupRouter(cfg *config.Config, gen *controllers.GenerationController, history *controllers.HistoryController) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(auth.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public
	r.Get("/", controllers.Root)
	r.Get("/health", controllers.Health(cfg.LLM.Model))
	r.Handle("/metrics", metrics.Handler())

	// Generation + history, protected only when a key or secret is configured
	r.Group(func(r chi.Router) {
		if cfg.Auth.APIKey != "" {
			r.Use(auth.APIKeyMiddleware(cfg.Auth.APIKey))
		}
		if cfg.Auth.JWTSecret != "" {
			r.Use(auth.AuthenticateJWT([]byte(cfg.Auth.JWTSecret)))
		}

		r.Post("/generate-recipe", gen.GenerateRecipe)
		r.Post("/generate-grocery", gen.GenerateGrocery)

		if history != nil {
			r.Get("/history", history.List)
		} else {
			r.Get("/history", controllers.HistoryDisabled)
		}
	})

	return r
}
