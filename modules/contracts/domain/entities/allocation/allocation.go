package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("allocation not found")

// Allocation is a contract-level inventory carve-out for a product or
// product option.
type Allocation struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	ContractID      uuid.UUID
	ProductID       uuid.NullUUID
	ProductOptionID uuid.NullUUID
	TotalQuantity   int
	ValidFrom       time.Time
	ValidTo         time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Availability is one day of the allocation's inventory time series.
type Availability struct {
	ID             uuid.UUID
	AllocationID   uuid.UUID
	Date           time.Time
	TotalAvailable int
	Booked         int
	Available      int
	IsClosed       bool
}

// Release is a scheduled return of allocated inventory to general
// availability, by quantity or percentage, optionally with a penalty.
type Release struct {
	ID            uuid.UUID
	AllocationID  uuid.UUID
	ReleaseDate   time.Time
	Quantity      *int
	Percentage    decimal.NullDecimal
	PenaltyAmount decimal.NullDecimal
	Notes         string
}

// Summary are the derived availability totals shown on detail views.
type Summary struct {
	TotalAvailable       int
	TotalBooked          int
	TotalRemaining       int
	NextAvailabilityDate *time.Time
}

// Summarize folds an allocation's availability series into totals.
// NextAvailabilityDate is the earliest date with remaining availability; when
// every day is sold out it falls back to the earliest date in the series.
func Summarize(rows []*Availability) Summary {
	sorted := make([]*Availability, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var summary Summary
	for _, row := range sorted {
		summary.TotalAvailable += row.TotalAvailable
		summary.TotalBooked += row.Booked
		summary.TotalRemaining += row.Available
		if summary.NextAvailabilityDate == nil && row.Available > 0 {
			date := row.Date
			summary.NextAvailabilityDate = &date
		}
	}
	if summary.NextAvailabilityDate == nil && len(sorted) > 0 {
		date := sorted[0].Date
		summary.NextAvailabilityDate = &date
	}
	return summary
}

type CreateDTO struct {
	ContractID      uuid.UUID `json:"contract_id"`
	ProductID       *string   `json:"product_id" validate:"omitempty,uuid"`
	ProductOptionID *string   `json:"product_option_id" validate:"omitempty,uuid"`
	TotalQuantity   int       `json:"total_quantity" validate:"required,min=1"`
	ValidFrom       time.Time `json:"valid_from" validate:"required"`
	ValidTo         time.Time `json:"valid_to" validate:"required"`
	Notes           string    `json:"notes"`
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Allocation, error)
	ByContract(ctx context.Context, contractID uuid.UUID) ([]*Allocation, error)
	// AvailabilityByAllocationIDs returns availability rows for all given
	// allocations, date ascending, capped at limit rows in total.
	AvailabilityByAllocationIDs(ctx context.Context, ids []uuid.UUID, limit int) ([]*Availability, error)
	ReleasesByAllocationIDs(ctx context.Context, ids []uuid.UUID) ([]*Release, error)
	ByProduct(ctx context.Context, productID uuid.UUID) ([]*Allocation, error)
	Create(ctx context.Context, a *Allocation) (*Allocation, error)
	Update(ctx context.Context, a *Allocation) (*Allocation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
