package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID         string
	TenantID   string
	EntityType string
	EntityID   string
	Action     string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	Changes    json.RawMessage
	ChangedBy  *string
	ChangedAt  time.Time
}
