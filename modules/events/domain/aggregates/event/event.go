package event

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/pkg/repo"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrCodeTaken = errors.New("event code already in use")
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Code        string
	Type        string
	Venue       string
	City        string
	Country     string
	DateFrom    time.Time
	DateTo      time.Time
	Status      Status
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Field int

const (
	NameField Field = iota
	CodeField
	TypeField
	StatusField
	CityField
	CountryField
	DateFromField
	DateToField
	CreatedAtField
	UpdatedAtField
)

type FindParams struct {
	// Q matches code or name, case-insensitively.
	Q       string
	Limit   int
	Offset  int
	SortBy  repo.SortBy[Field]
	Filters []repo.FieldFilter[Field]
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Event, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// CodeExists and NameExists probe the org-scoped uniqueness sets; the
	// two keys are generated independently on duplicate.
	CodeExists(ctx context.Context, code string) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, e *Event) (*Event, error)
	Update(ctx context.Context, e *Event) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
