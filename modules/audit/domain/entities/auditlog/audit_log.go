package auditlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionDuplicate     Action = "duplicate"
	ActionBulkDelete    Action = "bulk_delete"
	ActionBulkUpdate    Action = "bulk_update"
	ActionBulkDuplicate Action = "bulk_duplicate"
	ActionActivate      Action = "activate"
	ActionDeactivate    Action = "deactivate"
)

// Entry is one immutable audit record. OldValues/NewValues carry the full
// before/after snapshots; Changes is the computed field-level diff between
// them. Entries are append-only: the application never updates or deletes
// them.
type Entry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     Action
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	Changes    json.RawMessage
	ChangedBy  uuid.NullUUID
	ChangedAt  time.Time
}

type FindParams struct {
	EntityType string
	EntityID   uuid.NullUUID
	Action     Action
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	// List returns entries newest-first.
	List(ctx context.Context, params *FindParams) ([]*Entry, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
}
