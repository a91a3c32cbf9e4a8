package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking and Item are read-only from this subsystem's perspective: they are
// written by the reservation pipeline and only joined into detail views here.

type Booking struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Reference    string
	CustomerName string
	Status       string
	CreatedAt    time.Time
}

type Item struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	BookingID       uuid.UUID
	ProductID       uuid.NullUUID
	ProductOptionID uuid.NullUUID
	ContractID      uuid.NullUUID
	ServiceDateFrom time.Time
	ServiceDateTo   time.Time
	Quantity        int
	TotalPrice      decimal.Decimal
	// TotalPriceBase is the amount converted to the organization's base
	// currency when conversion happened at booking time; revenue summaries
	// prefer it and fall back to TotalPrice.
	TotalPriceBase decimal.NullDecimal
	Currency       string
	Status         string
	CreatedAt      time.Time
}

// RevenueAmount returns the amount used in revenue summaries.
func (i *Item) RevenueAmount() decimal.Decimal {
	if i.TotalPriceBase.Valid {
		return i.TotalPriceBase.Decimal
	}
	return i.TotalPrice
}

// Upcoming reports whether the item's service starts on or after the given
// day. Comparison is at day granularity in UTC.
func (i *Item) Upcoming(today time.Time) bool {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return !i.ServiceDateFrom.Before(day)
}

type Repository interface {
	// RecentItemsByContract returns the newest-created items consuming a
	// contract.
	RecentItemsByContract(ctx context.Context, contractID uuid.UUID, limit int) ([]*Item, error)
	// ItemsByProductIDs returns every item for the given products,
	// newest-created first. Returns nil without querying when ids is empty.
	ItemsByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*Item, error)
	// BookingsByIDs batch-fetches booking headers for in-memory joins.
	BookingsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Booking, error)
}
