package api

import (
	"net/http"
	"time"

	"blogsphere/internal/api/handler"
	appmiddleware "blogsphere/internal/api/middleware"
	"blogsphere/internal/app/service"
	"blogsphere/internal/common/security"
	"blogsphere/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	postService *service.PostService,
	categoryService *service.CategoryService,
	loginLimiter appmiddleware.Limiter,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.AppConfig.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Verifies a bearer token when present and puts claims in context.
	// Authenticator/AdminOnly enforce it on the routes that need auth.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("BlogSphere API is running..."))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/auth", func(authRouter chi.Router) {
			authRouter.Use(appmiddleware.RateLimit(loginLimiter))
			authHandler.RegisterRoutes(authRouter)
		})

		postHandler := handler.NewPostHandler(postService)
		apiRouter.Route("/posts", postHandler.RegisterRoutes)

		categoryHandler := handler.NewCategoryHandler(categoryService)
		apiRouter.Route("/categories", categoryHandler.RegisterRoutes)
	})

	return r
}
