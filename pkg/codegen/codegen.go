// Package codegen produces collision-free codes and names inside a uniqueness
// scope by probing the store with suffix increments. It is pure with respect
// to storage: callers supply the existence probe, so the algorithm is
// unit-testable without a database.
package codegen

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MaxAttempts bounds suffix probing before falling back to a timestamp
// suffix, which guarantees termination no matter how many copies exist.
const MaxAttempts = 100

// ExistsFunc reports whether candidate is already taken inside the
// uniqueness scope (organization, optionally parent entity, field).
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generate returns base itself when free, otherwise base with an
// incrementing suffix ("BASE-1", "BASE-2", ...).
func Generate(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	return probe(ctx, base, base+"-%d", exists)
}

// GenerateCopy returns "BASE-COPY" when free, otherwise "BASE-COPY-n".
// Used by every duplication flow.
func GenerateCopy(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	return probe(ctx, base+"-COPY", base+"-COPY-%d", exists)
}

func probe(ctx context.Context, first, pattern string, exists ExistsFunc) (string, error) {
	candidate := first
	for attempt := 1; ; attempt++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if attempt > MaxAttempts {
			return fmt.Sprintf("%s-%d", first, time.Now().UnixMilli()), nil
		}
		candidate = fmt.Sprintf(pattern, attempt)
	}
}

var nonSlug = regexp.MustCompile(`[^A-Z0-9]+`)

// Slugify uppercases s and collapses every non-alphanumeric run into a single
// hyphen: "Hilton Hotels" -> "HILTON-HOTELS".
func Slugify(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToUpper(s), "-")
	return strings.Trim(slug, "-")
}

// Truncate cuts s to at most max characters without leaving a trailing
// hyphen.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}
