package services

import (
	"context"

	"github.com/google/uuid"

	auditservices "github.com/tourhub-uz/tourhub/modules/audit/services"
	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	"github.com/tourhub-uz/tourhub/modules/suppliers/domain/aggregates/supplier"
	"github.com/tourhub-uz/tourhub/pkg/codegen"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/eventbus"
	"github.com/tourhub-uz/tourhub/pkg/invalidation"
	"github.com/tourhub-uz/tourhub/pkg/serrors"
)

const entityTypeSupplier = "supplier"

// ContractCounter is the narrow view of the contracts module the deletion
// guard needs.
type ContractCounter interface {
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type SupplierService struct {
	repo        supplier.Repository
	contracts   ContractCounter
	audit       *auditservices.AuditService
	publisher   eventbus.EventBus
	invalidator invalidation.Invalidator
}

func NewSupplierService(
	repo supplier.Repository,
	contracts ContractCounter,
	audit *auditservices.AuditService,
	publisher eventbus.EventBus,
	invalidator invalidation.Invalidator,
) *SupplierService {
	return &SupplierService{
		repo:        repo,
		contracts:   contracts,
		audit:       audit,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *SupplierService) GetPaginatedWithTotal(ctx context.Context, params *supplier.FindParams) ([]*supplier.Supplier, int64, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, 0, serrors.Unauthorized("")
	}
	if params == nil {
		params = &supplier.FindParams{}
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

// Create inserts a supplier, deriving the org-scoped code from the name when
// the caller left it blank.
func (s *SupplierService) Create(ctx context.Context, dto *supplier.CreateDTO) (*supplier.Supplier, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplier.Supplier, error) {
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
				return nil, serrors.Conflict("supplier code already in use", "Code")
			}
		}

		entity := &supplier.Supplier{
			Name:            dto.Name,
			Code:            code,
			Type:            dto.Type,
			ContactPerson:   dto.ContactPerson,
			Email:           dto.Email,
			Phone:           dto.Phone,
			Address:         dto.Address,
			City:            dto.City,
			Country:         dto.Country,
			DefaultCurrency: dto.DefaultCurrency,
			IsActive:        true,
			Notes:           dto.Notes,
		}
		created, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplier,
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

	s.invalidator.Invalidate(ctx, "/suppliers")
	s.publisher.Publish(supplier.CreatedEvent{Result: created})
	return created, nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, dto *supplier.UpdateDTO) (*supplier.Supplier, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}
	if errs, ok := dto.Ok(); !ok {
		return nil, errs
	}

	var before *supplier.Supplier
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplier.Supplier, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *existing
		before = &snapshot

		existing.Name = dto.Name
		existing.Type = dto.Type
		existing.ContactPerson = dto.ContactPerson
		existing.Email = dto.Email
		existing.Phone = dto.Phone
		existing.Address = dto.Address
		existing.City = dto.City
		existing.Country = dto.Country
		existing.DefaultCurrency = dto.DefaultCurrency
		existing.Notes = dto.Notes
		if dto.IsActive != nil {
			existing.IsActive = *dto.IsActive
		}

		updated, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplier,
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

	s.invalidator.Invalidate(ctx, "/suppliers", "/suppliers/"+id.String())
	s.publisher.Publish(supplier.UpdatedEvent{Before: before, Result: updated})
	return updated, nil
}

func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	var deleted *supplier.Supplier
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		linked, err := s.contracts.CountBySupplier(txCtx, id)
		if err != nil {
			return err
		}
		if linked > 0 {
			return serrors.Conflict("supplier has linked contracts and cannot be deleted", "")
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return err
		}
		deleted = existing
		return s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplier,
			EntityID:   id,
			Action:     auditlog.ActionDelete,
			Old:        existing,
		})
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/suppliers", "/suppliers/"+id.String())
	s.publisher.Publish(supplier.DeletedEvent{Result: deleted})
	return nil
}

// Duplicate copies a supplier under a fresh "-COPY" code.
func (s *SupplierService) Duplicate(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return nil, serrors.Unauthorized("")
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (*supplier.Supplier, error) {
		source, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		code, err := codegen.GenerateCopy(txCtx, source.Code, s.repo.CodeExists)
		if err != nil {
			return nil, err
		}

		clone := *source
		clone.ID = uuid.Nil
		clone.Code = code
		created, err := s.repo.Create(txCtx, &clone)
		if err != nil {
			return nil, err
		}
		if err := s.audit.Record(txCtx, auditservices.RecordParams{
			EntityType: entityTypeSupplier,
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

	s.invalidator.Invalidate(ctx, "/suppliers")
	s.publisher.Publish(supplier.CreatedEvent{Result: created})
	return created, nil
}

// BulkDelete removes suppliers one by one: each row gets its own guard check
// and audit entry, and one refused deletion aborts the whole batch.
func (s *SupplierService) BulkDelete(ctx context.Context, ids []uuid.UUID) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			linked, err := s.contracts.CountBySupplier(txCtx, id)
			if err != nil {
				return err
			}
			if linked > 0 {
				return serrors.Conflict("supplier "+existing.Code+" has linked contracts and cannot be deleted", "")
			}
			if err := s.repo.Delete(txCtx, id); err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeSupplier,
				EntityID:   id,
				Action:     auditlog.ActionBulkDelete,
				Old:        existing,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidator.Invalidate(ctx, "/suppliers")
	return nil
}

// BulkSetActive flips the active flag on each supplier, recording one audit
// entry per row.
func (s *SupplierService) BulkSetActive(ctx context.Context, ids []uuid.UUID, active bool) error {
	if _, err := composables.UseTenantID(ctx); err != nil {
		return serrors.Unauthorized("")
	}

	action := auditlog.ActionDeactivate
	if active {
		action = auditlog.ActionActivate
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, id := range ids {
			existing, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if existing.IsActive == active {
				continue
			}
			snapshot := *existing
			existing.IsActive = active
			updated, err := s.repo.Update(txCtx, existing)
			if err != nil {
				return err
			}
			if err := s.audit.Record(txCtx, auditservices.RecordParams{
				EntityType: entityTypeSupplier,
				EntityID:   id,
				Action:     action,
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

	s.invalidator.Invalidate(ctx, "/suppliers")
	return nil
}
