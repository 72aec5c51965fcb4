package service

import (
	"context"
	"errors"
	"testing"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/repository"
)

func TestCreateCategoryAndListSorted(t *testing.T) {
	svc := NewCategoryService(repository.NewMemoryCategoryRepository())
	ctx := context.Background()

	for _, name := range []string{"Technology", "Art", "Music"} {
		if _, err := svc.Create(ctx, CategoryRequest{Name: name}); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	categories, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Art", "Music", "Technology"}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(categories))
	}
	for i, name := range want {
		if categories[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, categories[i].Name)
		}
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc := NewCategoryService(repository.NewMemoryCategoryRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, CategoryRequest{Name: "Technology"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CategoryRequest{Name: "Technology"}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate name, got %v", err)
	}

	categories, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("store count changed: expected 1 category, got %d", len(categories))
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc := NewCategoryService(repository.NewMemoryCategoryRepository())
	if _, err := svc.Create(context.Background(), CategoryRequest{Name: "   "}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	repo := repository.NewMemoryCategoryRepository()
	svc := NewCategoryService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryRequest{Name: "Tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CategoryRequest{Name: "Travel"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, created.ID, CategoryRequest{Name: "Technology"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Technology" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	if _, err := svc.Update(ctx, "no-such-id", CategoryRequest{Name: "X"}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	if _, err := svc.Update(ctx, created.ID, CategoryRequest{Name: "Travel"}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for name collision, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	svc := NewCategoryService(repository.NewMemoryCategoryRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryRequest{Name: "Tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	categories, _ := svc.List(ctx)
	if len(categories) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(categories))
	}

	if err := svc.Delete(ctx, "no-such-id"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
