package contract

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type CreateDTO struct {
	ContractNumber     string              `json:"contract_number" validate:"omitempty,max=64"`
	Name               string              `json:"name" validate:"required,max=255"`
	Type               string              `json:"type" validate:"omitempty,max=64"`
	SupplierID         *string             `json:"supplier_id" validate:"omitempty,uuid"`
	EventID            *string             `json:"event_id" validate:"omitempty,uuid"`
	ValidFrom          time.Time           `json:"valid_from" validate:"required"`
	ValidTo            time.Time           `json:"valid_to" validate:"required"`
	Currency           string              `json:"currency" validate:"required,len=3"`
	TotalCost          decimal.NullDecimal `json:"total_cost"`
	CommissionRate     decimal.NullDecimal `json:"commission_rate"`
	Status             string              `json:"status" validate:"omitempty,oneof=draft pending active expired cancelled"`
	PaymentTerms       string              `json:"payment_terms"`
	CancellationPolicy string              `json:"cancellation_policy"`
	Terms              string              `json:"terms"`
	Files              []string            `json:"files" validate:"omitempty,dive,url"`
	Notes              string              `json:"notes"`
}

type UpdateDTO struct {
	Name               string              `json:"name" validate:"required,max=255"`
	Type               string              `json:"type" validate:"omitempty,max=64"`
	SupplierID         *string             `json:"supplier_id" validate:"omitempty,uuid"`
	EventID            *string             `json:"event_id" validate:"omitempty,uuid"`
	ValidFrom          time.Time           `json:"valid_from" validate:"required"`
	ValidTo            time.Time           `json:"valid_to" validate:"required"`
	Currency           string              `json:"currency" validate:"required,len=3"`
	TotalCost          decimal.NullDecimal `json:"total_cost"`
	CommissionRate     decimal.NullDecimal `json:"commission_rate"`
	Status             string              `json:"status" validate:"required,oneof=draft pending active expired cancelled"`
	PaymentTerms       string              `json:"payment_terms"`
	CancellationPolicy string              `json:"cancellation_policy"`
	Terms              string              `json:"terms"`
	Files              []string            `json:"files" validate:"omitempty,dive,url"`
	Notes              string              `json:"notes"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.ContractNumber = strings.ToUpper(strings.TrimSpace(d.ContractNumber))
	d.Name = strings.TrimSpace(d.Name)
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

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
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
