package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/modules/audit/domain/entities/auditlog"
	"github.com/tourhub-uz/tourhub/modules/audit/infrastructure/persistence/models"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

type AuditLogRepository struct{}

func NewAuditLogRepository() auditlog.Repository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *auditlog.Entry) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	if entry.TenantID == uuid.Nil {
		entry.TenantID = tenantID
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err = tx.QueryRow(
		ctx,
		`INSERT INTO audit_logs (id, tenant_id, entity_type, entity_id, action, old_values, new_values, changes, changed_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING changed_at`,
		entry.ID,
		entry.TenantID,
		entry.EntityType,
		entry.EntityID,
		string(entry.Action),
		entry.OldValues,
		entry.NewValues,
		entry.Changes,
		entry.ChangedBy,
	).Scan(&entry.ChangedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert audit log entry")
	}
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, params *auditlog.FindParams) ([]*auditlog.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildAuditLogFilters(params, tenantID)
	query := `
		SELECT id, tenant_id, entity_type, entity_id, action, old_values, new_values, changes, changed_by, changed_at
		FROM audit_logs
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY changed_at DESC`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query audit log")
	}
	defer rows.Close()

	var results []*auditlog.Entry
	for rows.Next() {
		var row models.AuditLog
		if err := rows.Scan(
			&row.ID,
			&row.TenantID,
			&row.EntityType,
			&row.EntityID,
			&row.Action,
			&row.OldValues,
			&row.NewValues,
			&row.Changes,
			&row.ChangedBy,
			&row.ChangedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan audit log row")
		}
		entry, err := toDomainAuditLog(&row)
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *AuditLogRepository) Count(ctx context.Context, params *auditlog.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAuditLogFilters(params, tenantID)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_logs
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count audit log")
	}
	return count, nil
}

func buildAuditLogFilters(params *auditlog.FindParams, tenantID uuid.UUID) ([]string, []interface{}) {
	where := []string{"tenant_id = $1"}
	args := []interface{}{tenantID}

	if params == nil {
		return where, args
	}
	if params.EntityType != "" {
		args = append(args, params.EntityType)
		where = append(where, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if params.EntityID.Valid {
		args = append(args, params.EntityID.UUID)
		where = append(where, fmt.Sprintf("entity_id = $%d", len(args)))
	}
	if params.Action != "" {
		args = append(args, string(params.Action))
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if params.From != nil {
		args = append(args, *params.From)
		where = append(where, fmt.Sprintf("changed_at >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where = append(where, fmt.Sprintf("changed_at <= $%d", len(args)))
	}
	return where, args
}

func toDomainAuditLog(row *models.AuditLog) (*auditlog.Entry, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid audit log id")
	}
	tenantID, err := uuid.Parse(row.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid audit log tenant id")
	}
	entityID, err := uuid.Parse(row.EntityID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid audit log entity id")
	}
	var changedBy uuid.NullUUID
	if row.ChangedBy != nil {
		parsed, err := uuid.Parse(*row.ChangedBy)
		if err != nil {
			return nil, errors.Wrap(err, "invalid audit log actor id")
		}
		changedBy = uuid.NullUUID{UUID: parsed, Valid: true}
	}
	return &auditlog.Entry{
		ID:         id,
		TenantID:   tenantID,
		EntityType: row.EntityType,
		EntityID:   entityID,
		Action:     auditlog.Action(row.Action),
		OldValues:  row.OldValues,
		NewValues:  row.NewValues,
		Changes:    row.Changes,
		ChangedBy:  changedBy,
		ChangedAt:  row.ChangedAt,
	}, nil
}
