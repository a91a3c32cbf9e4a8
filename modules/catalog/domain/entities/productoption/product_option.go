package productoption

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/pkg/constants"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

var (
	ErrNotFound  = errors.New("product option not found")
	ErrCodeTaken = errors.New("option code already in use for this product")
)

// Option is a sellable variant of a product.
type Option struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ProductID   uuid.UUID
	OptionName  string
	OptionCode  string
	Description string
	Attributes  json.RawMessage
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	OptionName  string          `json:"option_name" validate:"required,max=255"`
	OptionCode  string          `json:"option_code" validate:"omitempty,max=32"`
	Description string          `json:"description"`
	Attributes  json.RawMessage `json:"attributes"`
	SortOrder   int             `json:"sort_order" validate:"min=0"`
}

type UpdateDTO struct {
	OptionName  string          `json:"option_name" validate:"required,max=255"`
	Description string          `json:"description"`
	Attributes  json.RawMessage `json:"attributes"`
	IsActive    *bool           `json:"is_active"`
	SortOrder   int             `json:"sort_order" validate:"min=0"`
}

func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.OptionName = strings.TrimSpace(d.OptionName)
	d.OptionCode = strings.ToUpper(strings.TrimSpace(d.OptionCode))

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if len(d.Attributes) > 0 && !json.Valid(d.Attributes) {
		errs["Attributes"] = "must be a valid JSON object"
	}
	return errs, len(errs) == 0
}

func (d *UpdateDTO) Ok() (serrors.ValidationErrors, bool) {
	d.OptionName = strings.TrimSpace(d.OptionName)

	errs := serrors.FromValidate(constants.Validate.Struct(d))
	if len(d.Attributes) > 0 && !json.Valid(d.Attributes) {
		errs["Attributes"] = "must be a valid JSON object"
	}
	return errs, len(errs) == 0
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Option, error)
	// ByProduct lists a product's options ordered by sort_order then name.
	ByProduct(ctx context.Context, productID uuid.UUID) ([]*Option, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*Option, error)
	// CodeExists and NameExists probe uniqueness within one product; the two
	// keys are generated independently on duplicate.
	CodeExists(ctx context.Context, productID uuid.UUID, code string) (bool, error)
	NameExists(ctx context.Context, productID uuid.UUID, name string) (bool, error)
	Create(ctx context.Context, o *Option) (*Option, error)
	Update(ctx context.Context, o *Option) (*Option, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
