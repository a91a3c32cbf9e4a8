package product

import (
	"encoding/json"
	"strings"

	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

type CreateDTO struct {
	ProductTypeID string          `json:"product_type_id" validate:"required,uuid"`
	Name          string          `json:"name" validate:"required,max=255"`
	Code          string          `json:"code" validate:"omitempty,max=32"`
	Description   string          `json:"description"`
	Location      *Location       `json:"location"`
	Attributes    json.RawMessage `json:"attributes"`
	EventID       *string         `json:"event_id" validate:"omitempty,uuid"`
	Tags          []string        `json:"tags" validate:"omitempty,dive,max=64"`
	Media         []string        `json:"media" validate:"omitempty,dive,url"`
}

type UpdateDTO struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Location    *Location       `json:"location"`
	Attributes  json.RawMessage `json:"attributes"`
	EventID     *string         `json:"event_id" validate:"omitempty,uuid"`
	Tags        []string        `json:"tags" validate:"omitempty,dive,max=64"`
	Media       []string        `json:"media" validate:"omitempty,dive,url"`
	IsActive    *bool           `json:"is_active"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if len(d.Attributes) > 0 && !json.Valid(d.Attributes) {
		errs["Attributes"] = "must be a valid JSON object"
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.Name = strings.TrimSpace(d.Name)

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if len(d.Attributes) > 0 && !json.Valid(d.Attributes) {
		errs["Attributes"] = "must be a valid JSON object"
	}
	return errs, len(errs) == 0
}
