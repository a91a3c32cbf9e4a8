package tenant

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("tenant not found")

// Tenant is the isolation boundary: every entity in the system belongs to
// exactly one, and no operation crosses it.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	Create(ctx context.Context, t *Tenant) (*Tenant, error)
}
