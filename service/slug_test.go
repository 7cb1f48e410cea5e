package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Fiber To The Home", want: "fiber-to-the-home"},
		{in: "  Trimmed  Title  ", want: "trimmed-title"},
		{in: "Nairobi: 40 Mbps!", want: "nairobi-40-mbps"},
		{in: "already-slugged", want: "already-slugged"},
		{in: "UPPER", want: "upper"},
		{in: "---", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestUniqueSlugNoCollision(t *testing.T) {
	slug, err := uniqueSlug(context.Background(), "Fresh Title", func(ctx context.Context, slug string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-title", slug)
}

func TestUniqueSlugAppendsSuffix(t *testing.T) {
	taken := map[string]bool{"fresh-title": true, "fresh-title-1": true}

	slug, err := uniqueSlug(context.Background(), "Fresh Title", func(ctx context.Context, slug string) (bool, error) {
		return taken[slug], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-title-2", slug)
}

func TestUniqueSlugEmptyTitle(t *testing.T) {
	slug, err := uniqueSlug(context.Background(), "???", func(ctx context.Context, slug string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "untitled", slug)
}
