package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/model"
	"blogsphere/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// PostPolicy is the single place the two deliberately-configurable
// authorization choices live: whether the caller-supplied author field is
// trusted, and whether post mutations are restricted to the author.
type PostPolicy struct {
	TrustClientAuthor bool
	OwnerOnlyEdit     bool
}

// CanMutate reports whether identity may update or delete post. Admins
// always may; otherwise any authenticated user may unless OwnerOnlyEdit
// restricts mutations to the stored author.
func (p PostPolicy) CanMutate(identity model.Identity, post *model.Post) bool {
	if identity.IsAdmin() {
		return true
	}
	if p.OwnerOnlyEdit {
		return post.Author == identity.Username
	}
	return true
}

func (p PostPolicy) resolveAuthor(identity model.Identity, supplied string) string {
	supplied = strings.TrimSpace(supplied)
	if p.TrustClientAuthor && supplied != "" {
		return supplied
	}
	return identity.Username
}

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	policy       PostPolicy
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, policy PostPolicy) *PostService {
	return &PostService{postRepo: postRepo, categoryRepo: categoryRepo, policy: policy}
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"` // category id
	Author   string `json:"author"`
	Image    string `json:"image"`
	ReadTime string `json:"read_time"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Author   *string `json:"author,omitempty"`
	Image    *string `json:"image,omitempty"`
	ReadTime *string `json:"read_time,omitempty"`
}

type AddCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

func (s *PostService) GetBySlug(ctx context.Context, postSlug string) (*model.Post, error) {
	return s.postRepo.FindBySlug(ctx, postSlug)
}

func (s *PostService) Create(ctx context.Context, identity model.Identity, req CreatePostRequest) (*model.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" || req.Category == "" {
		return nil, common.Errorf("title, content and category are required: %w", common.ErrValidation)
	}

	// The category reference must resolve at creation time. It is not
	// re-validated afterwards; a later category deletion dangles.
	category, err := s.categoryRepo.FindByID(ctx, req.Category)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("category does not exist: %w", common.ErrValidation)
		}
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	postSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Slug:       postSlug,
		Content:    req.Content,
		Author:     s.policy.resolveAuthor(identity, req.Author),
		CategoryID: category.ID,
		Image:      req.Image,
		ReadTime:   req.ReadTime,
		Likes:      0,
		Comments:   []model.Comment{},
	}
	if post.Image == "" {
		post.Image = model.DefaultPostImage
	}
	if post.ReadTime == "" {
		post.ReadTime = model.DefaultPostReadTime
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Category = category
	return post, nil
}

func (s *PostService) Update(ctx context.Context, identity model.Identity, id string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanMutate(identity, post) {
		return nil, common.Errorf("not allowed to modify this post: %w", common.ErrForbidden)
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, common.Errorf("title cannot be empty: %w", common.ErrValidation)
		}
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, common.Errorf("content cannot be empty: %w", common.ErrValidation)
		}
		post.Content = *req.Content
	}
	if req.Category != nil && *req.Category != post.CategoryID {
		category, err := s.categoryRepo.FindByID(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.Errorf("category does not exist: %w", common.ErrValidation)
			}
			return nil, fmt.Errorf("failed to resolve category: %w", err)
		}
		post.CategoryID = category.ID
	}
	if req.Author != nil {
		post.Author = s.policy.resolveAuthor(identity, *req.Author)
	}
	if req.Image != nil && *req.Image != "" {
		post.Image = *req.Image
	}
	if req.ReadTime != nil && *req.ReadTime != "" {
		post.ReadTime = *req.ReadTime
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.postRepo.FindByID(ctx, id)
}

func (s *PostService) Delete(ctx context.Context, identity model.Identity, id string) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanMutate(identity, post) {
		return common.Errorf("not allowed to delete this post: %w", common.ErrForbidden)
	}
	return s.postRepo.Delete(ctx, id)
}

// Like bumps the counter by one. There is no per-user ledger: repeat
// calls from the same user keep incrementing.
func (s *PostService) Like(ctx context.Context, id string) (int, error) {
	return s.postRepo.IncrementLikes(ctx, id)
}

func (s *PostService) AddComment(ctx context.Context, identity model.Identity, postID string, req AddCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, common.Errorf("comment text is required: %w", common.ErrValidation)
	}
	comment := &model.Comment{
		ID:        uuid.NewString(),
		Author:    s.policy.resolveAuthor(identity, req.Author),
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.postRepo.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	return s.postRepo.ListComments(ctx, postID)
}

func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	exists, err := s.postRepo.SlugExists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	if !exists {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}
