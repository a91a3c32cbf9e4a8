package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination is the offset-based paging common to every list endpoint:
// offset = (page-1) * pageSize.
type Pagination struct {
	Limit  int
	Offset int
}

func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("pageSize"))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Pagination{Limit: size, Offset: (page - 1) * size}
}

// ParseSort maps the sort/dir query params through an allow-list of column
// names. Unknown sort names are a validation error, never passed through.
func ParseSort[F any](r *http.Request, fields map[string]F) (field F, ascending bool, ok bool, err error) {
	name := r.URL.Query().Get("sort")
	if name == "" {
		return field, false, false, nil
	}
	f, found := fields[name]
	if !found {
		return field, false, false, serrors.Validation("unknown sort field: "+name, "sort")
	}
	return f, r.URL.Query().Get("dir") != "desc", true, nil
}

// PathUUID parses a uuid route variable.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, serrors.Validation(name+" must be a UUID", name)
	}
	return id, nil
}

// BodyIDs is the payload of every bulk endpoint.
type BodyIDs struct {
	IDs []uuid.UUID `json:"ids"`
}
