package codegen_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/pkg/codegen"
)

func takenSet(taken ...string) codegen.ExistsFunc {
	set := make(map[string]bool, len(taken))
	for _, t := range taken {
		set[t] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("base free", func(t *testing.T) {
		t.Parallel()
		code, err := codegen.Generate(ctx, "HILTON-HOTELS", takenSet())
		require.NoError(t, err)
		assert.Equal(t, "HILTON-HOTELS", code)
	})

	t.Run("suffix increments past taken candidates", func(t *testing.T) {
		t.Parallel()
		code, err := codegen.Generate(ctx, "HILTON-HOTELS", takenSet("HILTON-HOTELS", "HILTON-HOTELS-1", "HILTON-HOTELS-2"))
		require.NoError(t, err)
		assert.Equal(t, "HILTON-HOTELS-3", code)
	})

	t.Run("timestamp fallback terminates", func(t *testing.T) {
		t.Parallel()
		everything := func(context.Context, string) (bool, error) { return true, nil }
		code, err := codegen.Generate(ctx, "X", everything)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(code, "X-"), "got %q", code)
		ms, convErr := strconv.ParseInt(strings.TrimPrefix(code, "X-"), 10, 64)
		require.NoError(t, convErr)
		assert.Greater(t, ms, int64(codegen.MaxAttempts))
	})
}

func TestGenerateCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	code, err := codegen.GenerateCopy(ctx, "SUMMER-RATE", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "SUMMER-RATE-COPY", code)

	code, err = codegen.GenerateCopy(ctx, "SUMMER-RATE", takenSet("SUMMER-RATE-COPY"))
	require.NoError(t, err)
	assert.Equal(t, "SUMMER-RATE-COPY-1", code)
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "HILTON-HOTELS", codegen.Slugify("Hilton Hotels"))
	assert.Equal(t, "ACME-TOURS-2", codegen.Slugify("  Acme Tours #2! "))
	assert.Equal(t, "", codegen.Slugify("***"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ABC", codegen.Truncate("ABC", 10))
	assert.Equal(t, "ABCDE", codegen.Truncate("ABCDEF", 5))
	// No trailing hyphen after the cut.
	assert.Equal(t, "ABC", codegen.Truncate("ABC-DEF", 4))
}
