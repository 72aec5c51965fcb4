package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"blogsphere/internal/common"
	"blogsphere/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Post, error)
	FindBySlug(ctx context.Context, slug string) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// IncrementLikes bumps the like counter by one in a single statement
	// and returns the new count.
	IncrementLikes(ctx context.Context, id string) (int, error)

	AddComment(ctx context.Context, postID string, comment *model.Comment) error
	ListComments(ctx context.Context, postID string) ([]model.Comment, error)
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

const postSelectColumns = `
	p.id, p.title, p.slug, p.content, p.author, p.category_id,
	p.image, p.read_time, p.likes, p.created_at, p.updated_at,
	c.id, c.name, c.created_at`

func (r *pgPostRepository) Create(ctx context.Context, p *model.Post) error {
	query := `INSERT INTO posts (id, title, slug, content, author, category_id, image, read_time, likes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Content, p.Author, p.CategoryID, p.Image, p.ReadTime, p.Likes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("post with this slug already exists: %w", common.ErrValidation)
		}
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPostRepository) Update(ctx context.Context, p *model.Post) error {
	query := `UPDATE posts SET
	            title = $1, content = $2, author = $3, category_id = $4,
	            image = $5, read_time = $6, updated_at = now()
	          WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, p.Content, p.Author, p.CategoryID, p.Image, p.ReadTime, p.ID,
	)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Update: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPostRepository.Delete: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	return r.findOne(ctx, "p.id", id)
}

func (r *pgPostRepository) FindBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.findOne(ctx, "p.slug", slug)
}

func (r *pgPostRepository) findOne(ctx context.Context, column, value string) (*model.Post, error) {
	query := `SELECT ` + postSelectColumns + `
	          FROM posts p
	          LEFT JOIN categories c ON p.category_id = c.id
	          WHERE ` + column + ` = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPostRepository.findOne(%s): %w", column, err)
	}
	comments, err := r.loadComments(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (r *pgPostRepository) List(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postSelectColumns + `
	          FROM posts p
	          LEFT JOIN categories c ON p.category_id = c.id
	          ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.List: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	index := map[string]int{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("pgPostRepository.List scan: %w", err)
		}
		post.Comments = []model.Comment{}
		index[post.ID] = len(posts)
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPostRepository.List rows: %w", err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	// One pass over all comments instead of a query per post.
	commentRows, err := r.db.QueryContext(ctx,
		`SELECT post_id, id, author, body, created_at FROM post_comments ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.List comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var postID string
		var c model.Comment
		if err := commentRows.Scan(&postID, &c.ID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPostRepository.List comment scan: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("pgPostRepository.List comment rows: %w", err)
	}
	return posts, nil
}

func (r *pgPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgPostRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgPostRepository) IncrementLikes(ctx context.Context, id string) (int, error) {
	var likes int
	err := r.db.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + 1, updated_at = now() WHERE id = $1 RETURNING likes`,
		id).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgPostRepository.IncrementLikes: %w", err)
	}
	return likes, nil
}

func (r *pgPostRepository) AddComment(ctx context.Context, postID string, c *model.Comment) error {
	query := `INSERT INTO post_comments (id, post_id, author, body, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, postID, c.Author, c.Text, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation: post is gone
			return common.ErrNotFound
		}
		return fmt.Errorf("pgPostRepository.AddComment: %w", err)
	}
	return nil
}

func (r *pgPostRepository) ListComments(ctx context.Context, postID string) ([]model.Comment, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListComments: %w", err)
	}
	if !exists {
		return nil, common.ErrNotFound
	}
	return r.loadComments(ctx, postID)
}

func (r *pgPostRepository) loadComments(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, author, body, created_at FROM post_comments WHERE post_id = $1 ORDER BY seq ASC`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.loadComments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgPostRepository.loadComments scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPostRepository.loadComments rows: %w", err)
	}
	return comments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	post := &model.Post{}
	var catID, catName sql.NullString
	var catCreatedAt sql.NullTime
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Content, &post.Author, &post.CategoryID,
		&post.Image, &post.ReadTime, &post.Likes, &post.CreatedAt, &post.UpdatedAt,
		&catID, &catName, &catCreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		post.Category = &model.Category{
			ID:        catID.String,
			Name:      catName.String,
			CreatedAt: catCreatedAt.Time,
		}
	}
	return post, nil
}
