package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/model"
)

// In-memory repository implementations. They back the test suite and are
// handy for running the API without a database; semantics mirror the pg
// implementations, including dangling category references.

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]*model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.Errorf("user with given username or email already exists: %w", common.ErrValidation)
		}
	}
	cp := *user
	now := time.Now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
		cp.UpdatedAt = now
	}
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	return r.findBy(func(u *model.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) findBy(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

type MemoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[string]*model.Category
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: map[string]*model.Category{}}
}

func (r *MemoryCategoryRepository) Create(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return common.Errorf("category with this name already exists: %w", common.ErrValidation)
		}
	}
	cp := *c
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	r.categories[c.ID] = &cp
	c.CreatedAt = cp.CreatedAt
	return nil
}

func (r *MemoryCategoryRepository) Update(_ context.Context, c *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.categories[c.ID]
	if !ok {
		return common.ErrNotFound
	}
	for _, other := range r.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return common.Errorf("category with this name already exists: %w", common.ErrValidation)
		}
	}
	existing.Name = c.Name
	return nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryCategoryRepository) FindByID(_ context.Context, id string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryCategoryRepository) FindByName(_ context.Context, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryCategoryRepository) List(_ context.Context) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type MemoryPostRepository struct {
	mu         sync.Mutex
	posts      map[string]*model.Post
	order      []string // insertion order; List returns it reversed
	categories *MemoryCategoryRepository
}

func NewMemoryPostRepository(categories *MemoryCategoryRepository) *MemoryPostRepository {
	return &MemoryPostRepository{posts: map[string]*model.Post{}, categories: categories}
}

func (r *MemoryPostRepository) Create(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.posts {
		if existing.Slug == p.Slug {
			return common.Errorf("post with this slug already exists: %w", common.ErrValidation)
		}
	}
	cp := *p
	cp.Category = nil
	cp.Comments = append([]model.Comment{}, p.Comments...)
	now := time.Now().UTC()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
		cp.UpdatedAt = now
	}
	r.posts[p.ID] = &cp
	p.CreatedAt = cp.CreatedAt
	p.UpdatedAt = cp.UpdatedAt
	r.order = append(r.order, p.ID)
	return nil
}

func (r *MemoryPostRepository) Update(_ context.Context, p *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.posts[p.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Title = p.Title
	existing.Content = p.Content
	existing.Author = p.Author
	existing.CategoryID = p.CategoryID
	existing.Image = p.Image
	existing.ReadTime = p.ReadTime
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.posts, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	p, ok := r.posts[id]
	if !ok {
		r.mu.Unlock()
		return nil, common.ErrNotFound
	}
	cp := r.snapshot(p)
	r.mu.Unlock()
	return r.resolve(ctx, cp), nil
}

func (r *MemoryPostRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	r.mu.Lock()
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := r.snapshot(p)
			r.mu.Unlock()
			return r.resolve(ctx, cp), nil
		}
	}
	r.mu.Unlock()
	return nil, common.ErrNotFound
}

func (r *MemoryPostRepository) List(ctx context.Context) ([]model.Post, error) {
	r.mu.Lock()
	out := make([]*model.Post, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.snapshot(r.posts[r.order[i]]))
	}
	r.mu.Unlock()

	posts := make([]model.Post, 0, len(out))
	for _, p := range out {
		posts = append(posts, *r.resolve(ctx, p))
	}
	return posts, nil
}

func (r *MemoryPostRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryPostRepository) IncrementLikes(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return 0, common.ErrNotFound
	}
	p.Likes++
	p.UpdatedAt = time.Now().UTC()
	return p.Likes, nil
}

func (r *MemoryPostRepository) AddComment(_ context.Context, postID string, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return common.ErrNotFound
	}
	p.Comments = append(p.Comments, *c)
	return nil
}

func (r *MemoryPostRepository) ListComments(_ context.Context, postID string) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return append([]model.Comment{}, p.Comments...), nil
}

func (r *MemoryPostRepository) snapshot(p *model.Post) *model.Post {
	cp := *p
	cp.Comments = append([]model.Comment{}, p.Comments...)
	return &cp
}

func (r *MemoryPostRepository) resolve(ctx context.Context, p *model.Post) *model.Post {
	p.Category = nil
	if c, err := r.categories.FindByID(ctx, p.CategoryID); err == nil {
		p.Category = c
	}
	return p
}
