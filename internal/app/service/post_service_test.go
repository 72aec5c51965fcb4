package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/model"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
)

type postFixture struct {
	svc      *PostService
	catRepo  *repository.MemoryCategoryRepository
	postRepo *repository.MemoryPostRepository
	category *model.Category
}

func newPostFixture(t *testing.T, policy PostPolicy) *postFixture {
	t.Helper()
	catRepo := repository.NewMemoryCategoryRepository()
	postRepo := repository.NewMemoryPostRepository(catRepo)
	category := &model.Category{ID: uuid.NewString(), Name: "Technology"}
	if err := catRepo.Create(context.Background(), category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return &postFixture{
		svc:      NewPostService(postRepo, catRepo, policy),
		catRepo:  catRepo,
		postRepo: postRepo,
		category: category,
	}
}

var alice = model.Identity{UserID: "u1", Username: "alice", Role: model.RoleUser}

func TestCreatePostDefaults(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{
		Title:    "Hello World",
		Content:  "First post.",
		Category: f.category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == "" {
		t.Fatal("expected a generated id")
	}
	if post.Slug != "hello-world" {
		t.Fatalf("unexpected slug %q", post.Slug)
	}
	if post.Likes != 0 {
		t.Fatalf("expected likes 0, got %d", post.Likes)
	}
	if post.Comments == nil || len(post.Comments) != 0 {
		t.Fatalf("expected empty comments, got %v", post.Comments)
	}
	if post.Image != model.DefaultPostImage {
		t.Fatalf("expected default image, got %q", post.Image)
	}
	if post.ReadTime != model.DefaultPostReadTime {
		t.Fatalf("expected default read time, got %q", post.ReadTime)
	}
	if post.Author != "alice" {
		t.Fatalf("expected author from identity, got %q", post.Author)
	}
	if post.Category == nil || post.Category.Name != "Technology" {
		t.Fatalf("expected resolved category, got %+v", post.Category)
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	cases := []CreatePostRequest{
		{Content: "body", Category: f.category.ID},
		{Title: "t", Category: f.category.ID},
		{Title: "t", Content: "body"},
		{Title: "t", Content: "body", Category: "no-such-category"},
	}
	for i, req := range cases {
		if _, err := f.svc.Create(ctx, alice, req); !errors.Is(err, common.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestCreatePostAuthorPolicy(t *testing.T) {
	ctx := context.Background()

	trusting := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	post, err := trusting.svc.Create(ctx, alice, CreatePostRequest{
		Title: "Guest Post", Content: "body", Category: trusting.category.ID, Author: "guest-writer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Author != "guest-writer" {
		t.Fatalf("trusting policy: expected supplied author, got %q", post.Author)
	}

	strict := newPostFixture(t, PostPolicy{TrustClientAuthor: false})
	post, err = strict.svc.Create(ctx, alice, CreatePostRequest{
		Title: "Guest Post", Content: "body", Category: strict.category.ID, Author: "guest-writer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Author != "alice" {
		t.Fatalf("strict policy: expected identity author, got %q", post.Author)
	}
}

func TestUpdatePostPartial(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Original", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newContent := "revised body"
	updated, err := f.svc.Update(ctx, alice, post.ID, UpdatePostRequest{Content: &newContent})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != newContent {
		t.Fatalf("expected updated content, got %q", updated.Content)
	}
	if updated.Title != "Original" {
		t.Fatalf("title should be untouched, got %q", updated.Title)
	}

	if _, err := f.svc.Update(ctx, alice, "no-such-id", UpdatePostRequest{Content: &newContent}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	badCategory := "no-such-category"
	if _, err := f.svc.Update(ctx, alice, post.ID, UpdatePostRequest{Category: &badCategory}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown category, got %v", err)
	}
}

func TestOwnerOnlyEditPolicy(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: false, OwnerOnlyEdit: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Mine", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bob := model.Identity{UserID: "u2", Username: "bob", Role: model.RoleUser}
	admin := model.Identity{UserID: "u3", Username: "root", Role: model.RoleAdmin}
	title := "Stolen"

	if _, err := f.svc.Update(ctx, bob, post.ID, UpdatePostRequest{Title: &title}); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}
	if err := f.svc.Delete(ctx, bob, post.ID); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete for non-author, got %v", err)
	}
	if _, err := f.svc.Update(ctx, alice, post.ID, UpdatePostRequest{Title: &title}); err != nil {
		t.Fatalf("author update should pass: %v", err)
	}
	if err := f.svc.Delete(ctx, admin, post.ID); err != nil {
		t.Fatalf("admin delete should pass: %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Doomed", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.Delete(ctx, alice, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetByID(ctx, post.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := f.svc.Delete(ctx, alice, post.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestLikeConcurrent(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Popular", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 10
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := f.svc.Like(ctx, post.ID); err != nil {
				t.Errorf("like: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := f.svc.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Likes != n {
		t.Fatalf("expected %d likes, got %d", n, got.Likes)
	}

	if _, err := f.svc.Like(ctx, "no-such-id"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown post, got %v", err)
	}
}

func TestCommentsAppendOrder(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Discussed", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := f.svc.AddComment(ctx, alice, post.ID, AddCommentRequest{Author: "alice", Text: "first"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	second, err := f.svc.AddComment(ctx, alice, post.ID, AddCommentRequest{Author: "bob", Text: "second"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	comments, err := f.svc.ListComments(ctx, post.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != first.ID || comments[1].ID != second.ID {
		t.Fatal("comments not in append order")
	}
	if !comments[0].CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("original timestamp not preserved")
	}

	if _, err := f.svc.AddComment(ctx, alice, post.ID, AddCommentRequest{Text: "   "}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty text, got %v", err)
	}
	if _, err := f.svc.AddComment(ctx, alice, "no-such-id", AddCommentRequest{Text: "hi"}); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown post, got %v", err)
	}
	if _, err := f.svc.ListComments(ctx, "no-such-id"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown post, got %v", err)
	}
}

func TestCategoryIsReferenceNotCopy(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	post, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Tagged", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed := *f.category
	renamed.Name = "Tech & Science"
	if err := f.catRepo.Update(ctx, &renamed); err != nil {
		t.Fatalf("rename category: %v", err)
	}

	got, err := f.svc.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category == nil || got.Category.Name != "Tech & Science" {
		t.Fatalf("expected rename to show through, got %+v", got.Category)
	}

	// Deleting the category leaves a dangling reference, not an error.
	if err := f.catRepo.Delete(ctx, f.category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	got, err = f.svc.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get after category delete: %v", err)
	}
	if got.Category != nil {
		t.Fatalf("expected null category after delete, got %+v", got.Category)
	}
	if got.CategoryID != f.category.ID {
		t.Fatal("stored reference id should survive the category delete")
	}
}

func TestListNewestFirst(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	older, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Older", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	newer, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Newer", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	posts, err := f.svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Fatal("expected newest-created first")
	}
}

func TestSlugUniqueness(t *testing.T) {
	f := newPostFixture(t, PostPolicy{TrustClientAuthor: true})
	ctx := context.Background()

	first, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Same Title", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.svc.Create(ctx, alice, CreatePostRequest{Title: "Same Title", Content: "body", Category: f.category.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Slug == second.Slug {
		t.Fatalf("expected distinct slugs, both %q", first.Slug)
	}

	got, err := f.svc.GetBySlug(ctx, first.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected post %s, got %s", first.ID, got.ID)
	}
}
