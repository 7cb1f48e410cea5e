package service

import (
	"context"

	"optinet-backend/models"

	"github.com/google/uuid"
)

// BlogStore is the slice of the blog repository the service needs.
type BlogStore interface {
	Create(ctx context.Context, post *models.BlogPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
	Update(ctx context.Context, post *models.BlogPost) error
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PortfolioStore is the slice of the portfolio repository the service needs.
type PortfolioStore interface {
	Create(ctx context.Context, item *models.PortfolioItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error)
	SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
	Update(ctx context.Context, item *models.PortfolioItem) error
	List(ctx context.Context, limit, offset int) ([]*models.PortfolioItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContentService handles blog posts and portfolio items, including slug
// generation and de-duplication.
type ContentService struct {
	blog      BlogStore
	portfolio PortfolioStore
}

// ContentServiceOption is a functional option for ContentService
type ContentServiceOption func(*ContentService)

// ContentWithBlogStore sets the blog store
func ContentWithBlogStore(store BlogStore) ContentServiceOption {
	return func(s *ContentService) {
		s.blog = store
	}
}

// ContentWithPortfolioStore sets the portfolio store
func ContentWithPortfolioStore(store PortfolioStore) ContentServiceOption {
	return func(s *ContentService) {
		s.portfolio = store
	}
}

// NewContentService creates a new content service
func NewContentService(opts ...ContentServiceOption) *ContentService {
	s := &ContentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePost stores a blog post with a slug derived from the title.
func (s *ContentService) CreatePost(ctx context.Context, post *models.BlogPost) error {
	if post.Title == "" {
		return &ValidationError{Problems: []string{"title is required"}}
	}

	slug, err := uniqueSlug(ctx, post.Title, func(ctx context.Context, slug string) (bool, error) {
		return s.blog.SlugExists(ctx, slug, nil)
	})
	if err != nil {
		return err
	}
	post.Slug = slug

	return s.blog.Create(ctx, post)
}

// UpdatePost updates a blog post, regenerating the slug whenever the title
// changed.
func (s *ContentService) UpdatePost(ctx context.Context, post *models.BlogPost, titleChanged bool) error {
	if post.Title == "" {
		return &ValidationError{Problems: []string{"title is required"}}
	}

	if titleChanged {
		id := post.ID
		slug, err := uniqueSlug(ctx, post.Title, func(ctx context.Context, slug string) (bool, error) {
			return s.blog.SlugExists(ctx, slug, &id)
		})
		if err != nil {
			return err
		}
		post.Slug = slug
	}

	return s.blog.Update(ctx, post)
}

// CreatePortfolioItem stores a portfolio item with a slug derived from the
// title.
func (s *ContentService) CreatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	if item.Title == "" {
		return &ValidationError{Problems: []string{"title is required"}}
	}

	slug, err := uniqueSlug(ctx, item.Title, func(ctx context.Context, slug string) (bool, error) {
		return s.portfolio.SlugExists(ctx, slug, nil)
	})
	if err != nil {
		return err
	}
	item.Slug = slug

	return s.portfolio.Create(ctx, item)
}

// UpdatePortfolioItem updates a portfolio item, regenerating the slug
// whenever the title changed.
func (s *ContentService) UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem, titleChanged bool) error {
	if item.Title == "" {
		return &ValidationError{Problems: []string{"title is required"}}
	}

	if titleChanged {
		id := item.ID
		slug, err := uniqueSlug(ctx, item.Title, func(ctx context.Context, slug string) (bool, error) {
			return s.portfolio.SlugExists(ctx, slug, &id)
		})
		if err != nil {
			return err
		}
		item.Slug = slug
	}

	return s.portfolio.Update(ctx, item)
}
