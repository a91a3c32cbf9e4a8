package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tourhub-uz/tourhub/pkg/mapping"
)

type row struct {
	ID   int
	Name string
}

func TestMapByKey(t *testing.T) {
	t.Parallel()
	rows := []row{{1, "a"}, {2, "b"}, {1, "c"}}
	m := mapping.MapByKey(rows, func(r row) int { return r.ID })
	assert.Len(t, m, 2)
	// Later duplicates overwrite.
	assert.Equal(t, "c", m[1].Name)
}

func TestGroupByKey(t *testing.T) {
	t.Parallel()
	rows := []row{{1, "a"}, {2, "b"}, {1, "c"}}
	g := mapping.GroupByKey(rows, func(r row) int { return r.ID })
	assert.Len(t, g, 2)
	assert.Equal(t, []row{{1, "a"}, {1, "c"}}, g[1])
}

func TestKeys(t *testing.T) {
	t.Parallel()
	rows := []row{{2, "b"}, {1, "a"}, {2, "c"}}
	assert.Equal(t, []int{2, 1}, mapping.Keys(rows, func(r row) int { return r.ID }))
}
