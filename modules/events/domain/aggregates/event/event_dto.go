package event

import (
	"strings"
	"time"

	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type CreateDTO struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Code        string    `json:"code" validate:"omitempty,max=32"`
	Type        string    `json:"type" validate:"omitempty,max=64"`
	Venue       string    `json:"venue" validate:"omitempty,max=255"`
	City        string    `json:"city" validate:"omitempty,max=128"`
	Country     string    `json:"country" validate:"omitempty,len=2"`
	DateFrom    time.Time `json:"date_from" validate:"required"`
	DateTo      time.Time `json:"date_to" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=planned active completed cancelled"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}

type UpdateDTO struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Type        string    `json:"type" validate:"omitempty,max=64"`
	Venue       string    `json:"venue" validate:"omitempty,max=255"`
	City        string    `json:"city" validate:"omitempty,max=128"`
	Country     string    `json:"country" validate:"omitempty,len=2"`
	DateFrom    time.Time `json:"date_from" validate:"required"`
	DateTo      time.Time `json:"date_to" validate:"required"`
	Status      string    `json:"status" validate:"required,oneof=planned active completed cancelled"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if !d.DateFrom.IsZero() && !d.DateTo.IsZero() && d.DateTo.Before(d.DateFrom) {
		errs["DateTo"] = "must not be before date_from"
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if !d.DateFrom.IsZero() && !d.DateTo.IsZero() && d.DateTo.Before(d.DateFrom) {
		errs["DateTo"] = "must not be before date_from"
	}
	return errs, len(errs) == 0
}
