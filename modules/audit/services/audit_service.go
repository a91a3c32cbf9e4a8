package services

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	"github.com/tourhub-uz/tourhub/pkg/composables"
)

type AuditService struct {
	repo auditlog.Repository
}

func NewAuditService(repo auditlog.Repository) *AuditService {
	return &AuditService{repo: repo}
}

type RecordParams struct {
	EntityType string
	EntityID   uuid.UUID
	Action     auditlog.Action
	// Old and New are entity snapshots; either may be nil (create has no
	// old, delete has no new).
	Old any
	New any
}

// Record appends exactly one audit entry for one logical mutation. Callers
// invoke it inside the mutation's transaction, so a failed audit insert rolls
// the mutation back with it. Bulk operations record one entry per row.
func (s *AuditService) Record(ctx context.Context, params RecordParams) error {
	entry := &auditlog.Entry{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		Action:     params.Action,
	}

	if userID := composables.UseUserID(ctx); userID != uuid.Nil {
		entry.ChangedBy = uuid.NullUUID{UUID: userID, Valid: true}
	}

	var err error
	if params.Old != nil {
		entry.OldValues, err = json.Marshal(params.Old)
		if err != nil {
			return errors.Wrap(err, "failed to marshal old snapshot")
		}
	}
	if params.New != nil {
		entry.NewValues, err = json.Marshal(params.New)
		if err != nil {
			return errors.Wrap(err, "failed to marshal new snapshot")
		}
	}

	if entry.OldValues != nil && entry.NewValues != nil {
		patch, err := jsondiff.CompareJSON(entry.OldValues, entry.NewValues)
		if err != nil {
			return errors.Wrap(err, "failed to diff snapshots")
		}
		if len(patch) > 0 {
			entry.Changes, err = json.Marshal(patch)
			if err != nil {
				return errors.Wrap(err, "failed to marshal changes")
			}
		}
	}

	return s.repo.Create(ctx, entry)
}

// Trail returns the newest entries for one entity, for detail views.
func (s *AuditService) Trail(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]*auditlog.Entry, error) {
	return s.repo.List(ctx, &auditlog.FindParams{
		EntityType: entityType,
		EntityID:   uuid.NullUUID{UUID: entityID, Valid: true},
		Limit:      limit,
	})
}

func (s *AuditService) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.Entry, int64, error) {
	if params == nil {
		params = &auditlog.FindParams{}
	}
	entries, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}
