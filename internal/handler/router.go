// Package handler exposes the recipebook services over a JSON HTTP API.
// Handlers only decode requests, call one service operation and render its
// Result; every rule lives in the services.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/service"
)

// Services are the domain services the API is built on.
type Services struct {
	Auth          *service.AuthenticationService
	Users         *service.UsersService
	Categories    *service.CategoryService
	Difficulties  *service.DifficultyService
	CategoryTypes *service.CategoryTypeService
	Ingredients   *service.IngredientService
	Recipes       *service.RecipeService
	Comments      *service.CommentService
	Ratings       *service.RatingService
	Favorites     *service.FavoritesService
	Settings      *service.UserSettingsService
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router wires the HTTP surface.
type Router struct {
	svc            Services
	verifier       *auth.Verifier
	health         Pinger
	metrics        *Metrics
	metricsPath    string
	limiter        *RateLimiter
	allowedOrigins []string
	maxBodySize    int64
	logger         zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	Services Services
	Verifier *auth.Verifier

	// Health is pinged by /health. Optional.
	Health Pinger

	// Metrics enables /metrics and request instrumentation when set.
	Metrics     *Metrics
	MetricsPath string

	// RateLimiter limits requests per client IP when set.
	RateLimiter *RateLimiter

	AllowedOrigins []string
	MaxBodySize    int64
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(config RouterConfig) *Router {
	metricsPath := config.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &Router{
		svc:            config.Services,
		verifier:       config.Verifier,
		health:         config.Health,
		metrics:        config.Metrics,
		metricsPath:    metricsPath,
		limiter:        config.RateLimiter,
		allowedOrigins: config.AllowedOrigins,
		maxBodySize:    config.MaxBodySize,
		logger:         config.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestLogger(rt.logger))
	r.Use(middleware.Recoverer)
	r.Use(rt.metrics.Middleware)
	if len(rt.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
			ExposedHeaders:   []string{RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check and metrics (no rate limit, no auth)
	r.Get("/health", rt.handleHealth)
	if rt.metrics != nil {
		r.Method(http.MethodGet, rt.metricsPath, rt.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(rt.limiter.Middleware)
		r.Use(auth.Middleware(rt.verifier))

		r.Post("/auth/login", rt.handleLogin)
		r.With(auth.RequireAuth).Post("/auth/logout", rt.handleLogout)
		r.Post("/users", rt.handleRegister)

		r.Route("/me", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", rt.handleCurrentUser)
			r.Put("/password", rt.handleChangePassword)
			r.Get("/favorites", rt.handleListFavorites)
			r.Get("/settings", rt.handleGetSettings)
			r.Put("/settings", rt.handleUpdateSettings)
		})

		r.Get("/difficulties", rt.handleListDifficulties)
		r.Get("/category-types", rt.handleListCategoryTypes)
		r.Get("/ingredient-types", rt.handleListIngredientTypes)

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", rt.handleListIngredients)
			r.Post("/", rt.handleCreateIngredient)
			r.Put("/{id}", rt.handleUpdateIngredient)
			r.Delete("/{id}", rt.handleDeleteIngredient)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/", rt.handleListCategories)
			r.Post("/", rt.handleCreateCategory)
			r.Get("/{id}", rt.handleGetCategory)
			r.Put("/{id}", rt.handleUpdateCategory)
			r.Delete("/{id}", rt.handleDeleteCategory)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", rt.handleListRecipes)
			r.Post("/", rt.handleCreateRecipe)
			r.Get("/{id}", rt.handleGetRecipe)
			r.Put("/{id}", rt.handleUpdateRecipe)
			r.Delete("/{id}", rt.handleDeleteRecipe)
			r.Post("/{id}/approve", rt.handleApproveRecipe)

			r.Get("/{id}/ingredients", rt.handleListRecipeIngredients)
			r.Post("/{id}/ingredients", rt.handleAddRecipeIngredient)
			r.Delete("/{id}/ingredients/{ingredientID}", rt.handleRemoveRecipeIngredient)

			r.Get("/{id}/comments", rt.handleListComments)
			r.Post("/{id}/comments", rt.handleAddComment)

			r.Get("/{id}/rating", rt.handleGetRating)
			r.Put("/{id}/rating", rt.handlePutRating)
			r.Delete("/{id}/rating", rt.handleDeleteRating)

			r.Put("/{id}/favorite", rt.handleAddFavorite)
			r.Delete("/{id}/favorite", rt.handleRemoveFavorite)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Put("/{id}", rt.handleEditComment)
			r.Delete("/{id}", rt.handleDeleteComment)
		})
	})

	return r
}

// handleHealth handles health check requests.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.health.Ping(ctx); err != nil {
			rt.logger.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
