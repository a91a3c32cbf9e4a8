package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeEvent = "event"

// ImageRemover deletes an uploaded event image behind its stored public URL.
type ImageRemover interface {
	Delete(ctx context.Context, publicURL string) error
}

type EventService struct {
	repo        event.Repository
	media       ImageRemover
	audit       *auditservices.AuditService
	publisher   eventbus.EventBus
	invalidator invalidation.Invalidator
}

func NewEventService(
	repo event.Repository,
	media ImageRemover,
	audit *auditservices.AuditService,
	publisher eventbus.EventBus,
	invalidator invalidation.Invalidator,
) *EventService {
	return &EventService{
		repo:        repo,
		media:       media,
		audit:       audit,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) GetPaginatedWithTotal(ctx context.Context, params *event.FindParams) ([]*event.Event, int64, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, 0, serrors.Unauthorized("")
	}
	if params == nil {
		params = &event.FindParams{}
	}
	rows, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *EventService) Create(ctx context.Context, dto *event.CreateDTO) (*event.Event, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*event.Event, error) {
		code := dto.Code
		if code == "" {
			var err error
			code, err = codegen.Generate(txCtx, codegen.Slugify(dto.Name), s.repo.CodeExists)
			if err != nil {
				return nil, err
			}
		} else {
			taken, err := s.repo.CodeExists(txCtx, code)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, serrors.Conflict("event code already in use", "Code")
			}
		}

		status := event.StatusPlanned
		if dto.Status != "" {
			status = event.Status(dto.Status)
		}

		entity := &event.Event{
			Name:        dto.Name,
			Code:        code,
			Type:        dto.Type,
			Venue:       dto.Venue,
			City:        dto.City,
			Country:     dto.Country,
			DateFrom:    dto.DateFrom,
			DateTo:      dto.DateTo,
			Status:      status,
			Description: dto.Description,
			ImageURL:    dto.ImageURL,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeEvent,
			EntityID:   created.ID,
			Action:     auditlog.ActionCreate,
			New:        created,
		}); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, "/events")
	s.publisher.Publish(event.CreatedEvent{Result: created})
	return created, nil
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, dto *event.UpdateDTO) (*event.Event, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	var before *event.Event
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*event.Event, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing
		before = &snapshot

		existing.Name = dto.Name
		existing.Type = dto.Type
		existing.Venue = dto.Venue
		existing.City = dto.City
		existing.Country = dto.Country
		existing.DateFrom = dto.DateFrom
		existing.DateTo = dto.DateTo
		existing.Status = event.Status(dto.Status)
		existing.Description = dto.Description
		existing.ImageURL = dto.ImageURL

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeEvent,
			EntityID:   updated.ID,
			Action:     auditlog.ActionUpdate,
			Old:        before,
			New:        updated,
		}); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.removeDroppedImage(ctx, before.ImageURL, updated.ImageURL)
	s.invalidator.Invalidate(ctx, "/events", "/events/"+id.String())
	s.publisher.Publish(event.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *event.Event
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = existing
		return s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeEvent,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.removeDroppedImage(ctx, deleted.ImageURL, "")
	s.invalidator.Invalidate(ctx, "/events", "/events/"+id.String())
	s.publisher.Publish(event.DeletedEvent{Result: deleted})
	return nil
}

// Duplicate copies an event under a fresh "-COPY" name and code. The two
// keys are probed independently.
func (s *EventService) Duplicate(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*event.Event, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		code, err := codegen.GenerateCopy(txCtx, source.Code, s.repo.CodeExists)
		if err != nil {
			return nil, err
		}
		name, err := codegen.GenerateCopy(txCtx, source.Name, s.repo.NameExists)
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.Code = code
		clone.Name = name
		clone.Status = event.StatusPlanned
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeEvent,
			EntityID:   created.ID,
			Action:     auditlog.ActionDuplicate,
			Old:        source,
			New:        created,
		}); err != nil {
			return nil, err
		}
		return created, nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, "/events")
	s.publisher.Publish(event.CreatedEvent{Result: created})
	return created, nil
}

// BulkUpdateStatus moves each event to the given status, skipping rows
// already there and recording one audit entry per changed row.
func (s *EventService) BulkUpdateStatus(ctx context.Context, ids []uuid.UUID, status event.Status) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}
	if !status.IsValid() {
		return serrors.Validation("unknown event status", "Status")
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if existing.Status == status {
				continue
			}
			snapshot := *existing
			existing.Status = status
			updated, err := s.repo.Update(txCtx, existing)
			if err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeEvent,
				EntityID:   id,
				Action:     auditlog.ActionBulkUpdate,
				Old:        &snapshot,
				New:        updated,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/events")
	return nil
}

func (s *EventService) removeDroppedImage(ctx context.Context, before, after string) {
	if s.media == nil || before == "" || before == after {
		return
	}
	if err := s.media.Delete(ctx, before); err != nil {
		composables.UseLogger(ctx).WithError(err).WithField("url", before).Warn("failed to delete dropped event image")
	}
}
