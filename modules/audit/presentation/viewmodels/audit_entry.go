package viewmodels

import (
	"encoding/json"
	"time"
)

type AuditEntry struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	ChangedBy  string          `json:"changed_by,omitempty"`
	ChangedAt  time.Time       `json:"changed_at"`
}
