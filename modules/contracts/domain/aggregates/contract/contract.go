package contract

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourhub-uz/tourhub/pkg/repo"
)

var (
	ErrNotFound    = errors.New("contract not found")
	ErrNumberTaken = errors.New("contract number already in use")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusActive, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

type Contract struct {
	ID                 uuid.UUID
	TenantID           uuid.UUID
	ContractNumber     string
	Name               string
	Type               string
	SupplierID         uuid.NullUUID
	EventID            uuid.NullUUID
	ValidFrom          time.Time
	ValidTo            time.Time
	Currency           string
	TotalCost          decimal.NullDecimal
	CommissionRate     decimal.NullDecimal
	Status             Status
	PaymentTerms       string
	CancellationPolicy string
	Terms              string
	Files              []string
	Notes              string
	OwnerID            uuid.NullUUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Field int

const (
	NumberField Field = iota
	NameField
	TypeField
	StatusField
	SupplierIDField
	EventIDField
	ValidFromField
	ValidToField
	CreatedAtField
	UpdatedAtField
)

type FindParams struct {
	// Q matches contract number or name, case-insensitively.
	Q       string
	Limit   int
	Offset  int
	SortBy  repo.SortBy[Field]
	Filters []repo.FieldFilter[Field]
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Contract, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	// ByEvent lists an event's contracts newest-first, optionally limited.
	ByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*Contract, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (total int64, active int64, err error)
	Create(ctx context.Context, c *Contract) (*Contract, error)
	Update(ctx context.Context, c *Contract) (*Contract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
