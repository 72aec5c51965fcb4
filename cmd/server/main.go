package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogsphere/internal/api"
	"blogsphere/internal/api/middleware"
	"blogsphere/internal/app/service"
	"blogsphere/internal/common/security"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/platform/cache"
	"blogsphere/internal/platform/config"
	"blogsphere/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	if err := database.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}
	fmt.Println("Database ready.")

	// 4. Login rate limiter: Redis-backed when configured, otherwise in-process
	var loginLimiter middleware.Limiter
	if config.AppConfig.RedisAddr != "" {
		cache.ConnectRedis()
		defer cache.CloseRedis()
		loginLimiter = middleware.NewRedisLimiter(cache.RDB, "login", config.AppConfig.LoginRateLimit, config.AppConfig.LoginRateWindow)
	} else {
		loginLimiter = middleware.NewMemoryLimiter(config.AppConfig.LoginRateLimit, config.AppConfig.LoginRateWindow)
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	categoryRepo := repository.NewPgCategoryRepository(database.DB)
	postRepo := repository.NewPgPostRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	postService := service.NewPostService(postRepo, categoryRepo, service.PostPolicy{
		TrustClientAuthor: config.AppConfig.TrustClientAuthor,
		OwnerOnlyEdit:     config.AppConfig.OwnerOnlyPostEdit,
	})

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, postService, categoryService, loginLimiter)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
