// Command seed bootstraps an admin account from ADMIN_USERNAME,
// ADMIN_EMAIL and ADMIN_PASSWORD, and with -demo fills the store with a
// few categories and posts for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"blogsphere/internal/app/service"
	"blogsphere/internal/common"
	"blogsphere/internal/common/security"
	"blogsphere/internal/domain/model"
	"blogsphere/internal/domain/repository"
	"blogsphere/internal/platform/config"
	"blogsphere/internal/platform/database"

	"github.com/google/uuid"
)

var demoCategories = []string{"Technology", "Travel", "Food", "Lifestyle"}

var demoPosts = []struct {
	title    string
	content  string
	author   string
	category string
}{
	{"Getting Started with Go", "A walkthrough of modules, tooling and the standard library.", "admin", "Technology"},
	{"A Weekend in Lisbon", "Trams, tiles and too many pastéis de nata.", "admin", "Travel"},
	{"Five Pantry Staples", "What to keep on hand for quick weeknight dinners.", "admin", "Food"},
}

func main() {
	demo := flag.Bool("demo", false, "also create demo categories and posts")
	flag.Parse()

	config.Load()
	database.Connect()
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	userRepo := repository.NewPgUserRepository(database.DB)
	categoryRepo := repository.NewPgCategoryRepository(database.DB)
	postRepo := repository.NewPgPostRepository(database.DB)

	admin, err := ensureAdmin(ctx, userRepo)
	if err != nil {
		log.Fatalf("Could not create admin user: %v", err)
	}
	fmt.Printf("Admin user ready: %s <%s>\n", admin.Username, admin.Email)

	if !*demo {
		return
	}

	categoryService := service.NewCategoryService(categoryRepo)
	postService := service.NewPostService(postRepo, categoryRepo, service.PostPolicy{TrustClientAuthor: true})
	identity := model.Identity{UserID: admin.ID, Username: admin.Username, Role: admin.Role}

	categoryIDs := map[string]string{}
	for _, name := range demoCategories {
		category, err := categoryService.Create(ctx, service.CategoryRequest{Name: name})
		if err != nil {
			if errors.Is(err, common.ErrValidation) { // already seeded
				if existing, ferr := categoryRepo.FindByName(ctx, name); ferr == nil {
					categoryIDs[name] = existing.ID
				}
				continue
			}
			log.Fatalf("Could not create category %q: %v", name, err)
		}
		categoryIDs[name] = category.ID
		fmt.Printf("Created category %q\n", name)
	}

	for _, p := range demoPosts {
		_, err := postService.Create(ctx, identity, service.CreatePostRequest{
			Title:    p.title,
			Content:  p.content,
			Author:   p.author,
			Category: categoryIDs[p.category],
		})
		if err != nil {
			if errors.Is(err, common.ErrValidation) {
				continue // slug clash from a previous run
			}
			log.Fatalf("Could not create post %q: %v", p.title, err)
		}
		fmt.Printf("Created post %q\n", p.title)
	}
}

func ensureAdmin(ctx context.Context, userRepo repository.UserRepository) (*model.User, error) {
	if config.AppConfig.AdminEmail == "" || config.AppConfig.AdminPassword == "" {
		return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	existing, err := userRepo.FindByEmail(ctx, config.AppConfig.AdminEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	hashed, err := security.HashPassword(config.AppConfig.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin := &model.User{
		ID:             uuid.NewString(),
		Username:       config.AppConfig.AdminUsername,
		Email:          config.AppConfig.AdminEmail,
		HashedPassword: hashed,
		Role:           model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
