package producttype

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("product type not found")

// Well-known type codes. Attribute payloads are keyed by these.
const (
	CodeAccommodation = "ACCOM"
	CodeTour          = "TOUR"
	CodeTransfer      = "TRANSFER"
)

type ProductType struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Code       string
	Name       string
	CodePrefix string
	CreatedAt  time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductType, error)
	GetAll(ctx context.Context) ([]*ProductType, error)
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]*ProductType, error)
}
