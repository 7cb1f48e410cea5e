package service

import (
	"context"
	"fmt"
	"strings"
)

// SlugChecker reports whether a slug is already taken, optionally
// excluding one record (so updates do not collide with themselves).
type SlugChecker func(ctx context.Context, slug string) (bool, error)

// Slugify converts a title into a URL-safe, lowercase, hyphenated slug.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug derives a slug from the title and de-duplicates it by
// appending a numeric suffix on collision: foo, foo-1, foo-2, ...
func uniqueSlug(ctx context.Context, title string, taken SlugChecker) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "untitled"
	}

	slug := base
	for i := 1; ; i++ {
		exists, err := taken(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
