package supplier

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/pkg/repo"
)

var (
	ErrNotFound  = errors.New("supplier not found")
	ErrCodeTaken = errors.New("supplier code already in use")
	// ErrHasContracts blocks deletion while contracts still reference the
	// supplier.
	ErrHasContracts = errors.New("supplier has linked contracts")
)

type Supplier struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	Code            string
	Type            string
	ContactPerson   string
	Email           string
	Phone           string
	Address         string
	City            string
	Country         string
	DefaultCurrency string
	IsActive        bool
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Field int

const (
	NameField Field = iota
	CodeField
	TypeField
	IsActiveField
	CreatedAtField
	UpdatedAtField
)

type FindParams struct {
	// Q matches name or code, case-insensitively.
	Q       string
	Limit   int
	Offset  int
	SortBy  repo.SortBy[Field]
	Filters []repo.FieldFilter[Field]
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Supplier, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// CodeExists probes the org-scoped uniqueness set for code generation.
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, s *Supplier) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) (*Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
