package sellingrate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var ErrNotFound = errors.New("selling rate not found")

type PricingModel string

const (
	PricingPerPerson PricingModel = "per_person"
	PricingPerUnit   PricingModel = "per_unit"
	PricingFlat      PricingModel = "flat"
)

// SellingRate is sell-side pricing for a product or product option.
type SellingRate struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	RateName        string
	ProductID       uuid.NullUUID
	ProductOptionID uuid.NullUUID
	ValidFrom       time.Time
	ValidTo         time.Time
	RateBasis       string
	PricingModel    PricingModel
	BasePrice       decimal.Decimal
	Currency        string
	MarkupType      string
	MarkupAmount    decimal.NullDecimal
	PricingDetails  json.RawMessage
	TargetCost      decimal.NullDecimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateDTO struct {
	RateName        string              `json:"rate_name" validate:"required,max=255"`
	ProductID       *string             `json:"product_id" validate:"omitempty,uuid"`
	ProductOptionID *string             `json:"product_option_id" validate:"omitempty,uuid"`
	ValidFrom       time.Time           `json:"valid_from" validate:"required"`
	ValidTo         time.Time           `json:"valid_to" validate:"required"`
	RateBasis       string              `json:"rate_basis" validate:"omitempty,max=64"`
	PricingModel    string              `json:"pricing_model" validate:"required,oneof=per_person per_unit flat"`
	BasePrice       decimal.Decimal     `json:"base_price"`
	Currency        string              `json:"currency" validate:"required,len=3"`
	MarkupType      string              `json:"markup_type" validate:"omitempty,oneof=percentage fixed"`
	MarkupAmount    decimal.NullDecimal `json:"markup_amount"`
	PricingDetails  json.RawMessage     `json:"pricing_details"`
	TargetCost      decimal.NullDecimal `json:"target_cost"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.RateName = strings.TrimSpace(d.RateName)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if d.Currency != "" && money.GetCurrency(d.Currency) == nil {
		errs["Currency"] = "is not a known currency code"
	}
	if !d.ValidFrom.IsZero() && !d.ValidTo.IsZero() && d.ValidTo.Before(d.ValidFrom) {
		errs["ValidTo"] = "must not be before valid_from"
	}
	return errs, len(errs) == 0
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SellingRate, error)
	ByProduct(ctx context.Context, productID uuid.UUID) ([]*SellingRate, error)
	// RateNameExists probes the org-scoped uniqueness set used on duplicate.
	RateNameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, r *SellingRate) (*SellingRate, error)
	Update(ctx context.Context, r *SellingRate) (*SellingRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
