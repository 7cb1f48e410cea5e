package repository

import (
	"context"
	"errors"

	"optinet-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlogRepository handles database operations for blog posts
type BlogRepository struct {
	db *pgxpool.Pool
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, title, slug, excerpt, body, author, published, created_at, updated_at`

func scanBlogPost(row pgx.Row) (*models.BlogPost, error) {
	post := &models.BlogPost{}
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&post.Body,
		&post.Author,
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Create creates a new blog post
func (r *BlogRepository) Create(ctx context.Context, post *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, body, author, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		post.Author,
		post.Published,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

// GetByID retrieves a blog post by ID
func (r *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE id = $1`
	return scanBlogPost(r.db.QueryRow(ctx, query, id))
}

// GetBySlug retrieves a blog post by slug
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE slug = $1`
	return scanBlogPost(r.db.QueryRow(ctx, query, slug))
}

// SlugExists reports whether a slug is already taken, optionally excluding
// one post (so an update does not collide with itself).
func (r *BlogRepository) SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`
	var exists bool
	err := r.db.QueryRow(ctx, query, slug, exclude).Scan(&exists)
	return exists, err
}

// Update updates a blog post
func (r *BlogRepository) Update(ctx context.Context, post *models.BlogPost) error {
	query := `
		UPDATE blog_posts SET
			title = $2,
			slug = $3,
			excerpt = $4,
			body = $5,
			author = $6,
			published = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Excerpt,
		post.Body,
		post.Author,
		post.Published,
	).Scan(&post.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// List retrieves blog posts, optionally restricted to published ones.
func (r *BlogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC`

	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
		if offset > 0 {
			query += ` OFFSET $2`
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// Delete deletes a blog post
func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
