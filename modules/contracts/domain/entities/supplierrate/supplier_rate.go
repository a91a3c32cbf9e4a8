package supplierrate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("supplier rate not found")

// SupplierRate is cost-side pricing for a product or option, optionally
// scoped to one contract allocation.
type SupplierRate struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	RateName        string
	SupplierID      uuid.NullUUID
	ContractID      uuid.NullUUID
	AllocationID    uuid.NullUUID
	ProductID       uuid.NullUUID
	ProductOptionID uuid.NullUUID
	ValidFrom       time.Time
	ValidTo         time.Time
	BaseCost        decimal.Decimal
	Currency        string
	MarkupType      string
	MarkupAmount    decimal.NullDecimal
	PricingDetails  json.RawMessage
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateDTO struct {
	RateName        string              `json:"rate_name" validate:"required,max=255"`
	SupplierID      *string             `json:"supplier_id" validate:"omitempty,uuid"`
	ContractID      *string             `json:"contract_id" validate:"omitempty,uuid"`
	AllocationID    *string             `json:"allocation_id" validate:"omitempty,uuid"`
	ProductID       *string             `json:"product_id" validate:"omitempty,uuid"`
	ProductOptionID *string             `json:"product_option_id" validate:"omitempty,uuid"`
	ValidFrom       time.Time           `json:"valid_from" validate:"required"`
	ValidTo         time.Time           `json:"valid_to" validate:"required"`
	BaseCost        decimal.Decimal     `json:"base_cost"`
	Currency        string              `json:"currency" validate:"required,len=3"`
	MarkupType      string              `json:"markup_type" validate:"omitempty,oneof=percentage fixed"`
	MarkupAmount    decimal.NullDecimal `json:"markup_amount"`
	PricingDetails  json.RawMessage     `json:"pricing_details"`
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SupplierRate, error)
	ByContract(ctx context.Context, contractID uuid.UUID) ([]*SupplierRate, error)
	ByProduct(ctx context.Context, productID uuid.UUID) ([]*SupplierRate, error)
	// RateNameExists probes the org-scoped uniqueness set used on duplicate.
	RateNameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, r *SupplierRate) (*SupplierRate, error)
	Update(ctx context.Context, r *SupplierRate) (*SupplierRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
