package supplier

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type CreateDTO struct {
	Name            string `json:"name" validate:"required,max=255"`
	Code            string `json:"code" validate:"omitempty,max=64"`
	Type            string `json:"type" validate:"omitempty,oneof=hotel dmc transport activity other"`
	ContactPerson   string `json:"contact_person" validate:"omitempty,max=255"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Address         string `json:"address"`
	City            string `json:"city" validate:"omitempty,max=128"`
	Country         string `json:"country" validate:"omitempty,len=2"`
	DefaultCurrency string `json:"default_currency" validate:"omitempty,len=3"`
	Notes           string `json:"notes"`
}

type UpdateDTO struct {
	Name            string `json:"name" validate:"required,max=255"`
	Type            string `json:"type" validate:"omitempty,oneof=hotel dmc transport activity other"`
	ContactPerson   string `json:"contact_person" validate:"omitempty,max=255"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Address         string `json:"address"`
	City            string `json:"city" validate:"omitempty,max=128"`
	Country         string `json:"country" validate:"omitempty,len=2"`
	DefaultCurrency string `json:"default_currency" validate:"omitempty,len=3"`
	IsActive        *bool  `json:"is_active"`
	Notes           string `json:"notes"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.DefaultCurrency = strings.ToUpper(strings.TrimSpace(d.DefaultCurrency))
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if d.DefaultCurrency != "" && money.GetCurrency(d.DefaultCurrency) == nil {
		errs["DefaultCurrency"] = "is not a known currency code"
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.DefaultCurrency = strings.ToUpper(strings.TrimSpace(d.DefaultCurrency))
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Normalize()
	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if d.DefaultCurrency != "" && money.GetCurrency(d.DefaultCurrency) == nil {
		errs["DefaultCurrency"] = "is not a known currency code"
	}
	return errs, len(errs) == 0
}
