package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourhub-uz/tourhub/modules/catalog/domain/entities/producttype"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

var (
	ErrNotFound  = errors.New("product not found")
	ErrCodeTaken = errors.New("product code already in use")
)

// Location is an optional structured address with coordinates, stored as a
// JSON column.
type Location struct {
	AddressLine string              `json:"address_line,omitempty"`
	City        string              `json:"city,omitempty"`
	Country     string              `json:"country,omitempty"`
	Latitude    decimal.NullDecimal `json:"latitude,omitempty"`
	Longitude   decimal.NullDecimal `json:"longitude,omitempty"`
}

type Product struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	ProductTypeID uuid.UUID
	Name          string
	Code          string
	Description   string
	Location      *Location
	// Attributes is the raw type-specific payload; DecodeAttributes returns
	// the typed variant for known product-type codes.
	Attributes json.RawMessage
	EventID    uuid.NullUUID
	Tags       []string
	Media      []string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Typed attribute variants, keyed by product-type code.

type AccommodationAttributes struct {
	BoardBasis string `json:"board_basis,omitempty"`
	StarRating int    `json:"star_rating,omitempty"`
	RoomCount  int    `json:"room_count,omitempty"`
}

type TourAttributes struct {
	DurationDays int      `json:"duration_days,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Languages    []string `json:"languages,omitempty"`
}

type TransferAttributes struct {
	VehicleClass string `json:"vehicle_class,omitempty"`
	MaxPax       int    `json:"max_pax,omitempty"`
}

// DecodeAttributes parses the raw attribute payload into the variant matching
// the product-type code. Unknown codes return the raw message untouched.
func DecodeAttributes(typeCode string, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch typeCode {
	case producttype.CodeAccommodation:
		var a AccommodationAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "failed to decode accommodation attributes")
		}
		return &a, nil
	case producttype.CodeTour:
		var a TourAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "failed to decode tour attributes")
		}
		return &a, nil
	case producttype.CodeTransfer:
		var a TransferAttributes
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "failed to decode transfer attributes")
		}
		return &a, nil
	}
	return raw, nil
}

type Field int

const (
	NameField Field = iota
	CodeField
	TypeIDField
	EventIDField
	IsActiveField
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
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Product, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	// CodeExists probes uniqueness within (org, product type).
	CodeExists(ctx context.Context, productTypeID uuid.UUID, code string) (bool, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	// ByEvent lists an event's products newest-first, optionally limited.
	ByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*Product, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (total int64, active int64, err error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
