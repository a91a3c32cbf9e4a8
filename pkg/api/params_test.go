package api_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourhub-uz/tourhub/pkg/api"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		url    string
		limit  int
		offset int
	}{
		{"defaults", "/things", 20, 0},
		{"explicit page", "/things?page=3&pageSize=10", 10, 20},
		{"size capped", "/things?pageSize=500", 100, 0},
		{"garbage falls back", "/things?page=abc&pageSize=-1", 20, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := api.ParsePagination(httptest.NewRequest("GET", tc.url, nil))
			assert.Equal(t, tc.limit, p.Limit)
			assert.Equal(t, tc.offset, p.Offset)
		})
	}
}

func TestParseSort(t *testing.T) {
	t.Parallel()
	fields := map[string]int{"name": 1, "created_at": 2}

	t.Run("no sort param", func(t *testing.T) {
		t.Parallel()
		_, _, ok, err := api.ParseSort(httptest.NewRequest("GET", "/things", nil), fields)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ascending by default", func(t *testing.T) {
		t.Parallel()
		field, asc, ok, err := api.ParseSort(httptest.NewRequest("GET", "/things?sort=name", nil), fields)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 1, field)
		assert.True(t, asc)
	})

	t.Run("descending", func(t *testing.T) {
		t.Parallel()
		field, asc, ok, err := api.ParseSort(httptest.NewRequest("GET", "/things?sort=created_at&dir=desc", nil), fields)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 2, field)
		assert.False(t, asc)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()
		_, _, _, err := api.ParseSort(httptest.NewRequest("GET", "/things?sort=password", nil), fields)
		require.Error(t, err)
	})
}
