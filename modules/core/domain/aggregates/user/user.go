package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

// User is an authenticated back-office member. Subject is the opaque
// principal identifier minted by the external identity service; TenantID is
// the explicit organization mapping when one was assigned directly.
type User struct {
	ID        uuid.UUID
	TenantID  uuid.NullUUID
	Subject   string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the secondary organization mapping kept alongside the user
// record. Some tenants were onboarded before direct user mapping existed and
// only carry a profile row.
type Profile struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

// Membership links a user to an organization; at most one per user is marked
// default.
type Membership struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	IsDefault      bool
	CreatedAt      time.Time
}

type Repository interface {
	GetBySubject(ctx context.Context, subject string) (*User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	GetMemberships(ctx context.Context, userID uuid.UUID) ([]*Membership, error)
	Create(ctx context.Context, u *User) (*User, error)
}
