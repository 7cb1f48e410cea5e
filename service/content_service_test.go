package service

import (
	"context"
	"testing"
	"time"

	"optinet-backend/models"
	"optinet-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlogStore struct {
	posts map[uuid.UUID]*models.BlogPost
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{posts: make(map[uuid.UUID]*models.BlogPost)}
}

func (s *fakeBlogStore) Create(ctx context.Context, post *models.BlogPost) error {
	post.ID = uuid.New()
	post.CreatedAt = time.Now()
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *fakeBlogStore) GetByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *fakeBlogStore) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	for _, post := range s.posts {
		if post.Slug == slug {
			copied := *post
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeBlogStore) SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	for id, post := range s.posts {
		if post.Slug == slug && (exclude == nil || id != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBlogStore) Update(ctx context.Context, post *models.BlogPost) error {
	if _, ok := s.posts[post.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *post
	s.posts[post.ID] = &copied
	return nil
}

func (s *fakeBlogStore) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*models.BlogPost, error) {
	var out []*models.BlogPost
	for _, post := range s.posts {
		if !publishedOnly || post.Published {
			copied := *post
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeBlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.posts, id)
	return nil
}

func testContentService() (*ContentService, *fakeBlogStore) {
	blog := newFakeBlogStore()
	return NewContentService(ContentWithBlogStore(blog)), blog
}

func TestCreatePostGeneratesSlug(t *testing.T) {
	svc, _ := testContentService()

	post := &models.BlogPost{Title: "Fiber Comes To Thika", Body: "..."}
	require.NoError(t, svc.CreatePost(context.Background(), post))
	assert.Equal(t, "fiber-comes-to-thika", post.Slug)
}

func TestCreatePostDeduplicatesSlug(t *testing.T) {
	svc, _ := testContentService()

	first := &models.BlogPost{Title: "Network Upgrade"}
	second := &models.BlogPost{Title: "Network Upgrade"}
	third := &models.BlogPost{Title: "Network Upgrade"}

	require.NoError(t, svc.CreatePost(context.Background(), first))
	require.NoError(t, svc.CreatePost(context.Background(), second))
	require.NoError(t, svc.CreatePost(context.Background(), third))

	assert.Equal(t, "network-upgrade", first.Slug)
	assert.Equal(t, "network-upgrade-1", second.Slug)
	assert.Equal(t, "network-upgrade-2", third.Slug)
}

func TestCreatePostRequiresTitle(t *testing.T) {
	svc, _ := testContentService()

	err := svc.CreatePost(context.Background(), &models.BlogPost{Body: "no title"})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestUpdatePostKeepsSlugWhenTitleUnchanged(t *testing.T) {
	svc, _ := testContentService()

	post := &models.BlogPost{Title: "Network Upgrade"}
	require.NoError(t, svc.CreatePost(context.Background(), post))

	post.Body = "revised body"
	require.NoError(t, svc.UpdatePost(context.Background(), post, false))
	assert.Equal(t, "network-upgrade", post.Slug)
}

func TestUpdatePostRegeneratesSlugOnTitleChange(t *testing.T) {
	svc, _ := testContentService()

	post := &models.BlogPost{Title: "Network Upgrade"}
	require.NoError(t, svc.CreatePost(context.Background(), post))

	post.Title = "Network Upgrade Complete"
	require.NoError(t, svc.UpdatePost(context.Background(), post, true))
	assert.Equal(t, "network-upgrade-complete", post.Slug)
}

func TestUpdatePostDoesNotCollideWithItself(t *testing.T) {
	svc, _ := testContentService()

	post := &models.BlogPost{Title: "Network Upgrade"}
	require.NoError(t, svc.CreatePost(context.Background(), post))

	// Re-saving under the same title keeps the original slug without a suffix.
	require.NoError(t, svc.UpdatePost(context.Background(), post, true))
	assert.Equal(t, "network-upgrade", post.Slug)
}
