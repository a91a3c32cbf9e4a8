package mappers

import (
	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	"github.com/tourhub-uz/tourhub/modules/audit/presentation/viewmodels"
)

func EntryToViewModel(e *auditlog.Entry) *viewmodels.AuditEntry {
	vm := &viewmodels.AuditEntry{
		ID:         e.ID.String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID.String(),
		Action:     string(e.Action),
		OldValues:  e.OldValues,
		NewValues:  e.NewValues,
		Changes:    e.Changes,
		ChangedAt:  e.ChangedAt,
	}
	if e.ChangedBy.Valid {
		vm.ChangedBy = e.ChangedBy.UUID.String()
	}
	return vm
}

func EntriesToViewModels(items []*auditlog.Entry) []*viewmodels.AuditEntry {
	out := make([]*viewmodels.AuditEntry, 0, len(items))
	for _, e := range items {
		out = append(out, EntryToViewModel(e))
	}
	return out
}
