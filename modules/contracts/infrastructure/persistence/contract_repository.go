package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/contracts/domain/aggregates/contract"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	contractFindQuery = `
		SELECT
			c.id,
			c.tenant_id,
			c.contract_number,
			c.name,
			c.type,
			c.supplier_id,
			c.event_id,
			c.valid_from,
			c.valid_to,
			c.currency,
			c.total_cost,
			c.commission_rate,
			c.status,
			c.payment_terms,
			c.cancellation_policy,
			c.terms,
			c.files,
			c.notes,
			c.owner_id,
			c.created_at,
			c.updated_at
		FROM contracts c`

	contractCountQuery = `SELECT COUNT(c.id) FROM contracts c`

	contractExistsQuery = `SELECT 1 FROM contracts c WHERE c.tenant_id = $1 AND c.contract_number = $2`

	contractCountBySupplierQuery = `SELECT COUNT(*) FROM contracts WHERE tenant_id = $1 AND supplier_id = $2`

	contractCountByEventQuery = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM contracts
		WHERE tenant_id = $1 AND event_id = $2`

	contractInsertQuery = `
		INSERT INTO contracts (
			id, tenant_id, contract_number, name, type, supplier_id, event_id,
			valid_from, valid_to, currency, total_cost, commission_rate, status,
			payment_terms, cancellation_policy, terms, files, notes, owner_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at`

	contractUpdateQuery = `
		UPDATE contracts
		SET name = $3, type = $4, supplier_id = $5, event_id = $6, valid_from = $7,
			valid_to = $8, currency = $9, total_cost = $10, commission_rate = $11,
			status = $12, payment_terms = $13, cancellation_policy = $14, terms = $15,
			files = $16, notes = $17, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	contractDeleteQuery = `DELETE FROM contracts WHERE id = $1 AND tenant_id = $2`
)

type PgContractRepository struct {
	fieldMap map[contract.Field]string
}

func NewContractRepository() contract.Repository {
	return &PgContractRepository{
		fieldMap: map[contract.Field]string{
			contract.NumberField:     "c.contract_number",
			contract.NameField:       "c.name",
			contract.TypeField:       "c.type",
			contract.StatusField:     "c.status",
			contract.SupplierIDField: "c.supplier_id",
			contract.EventIDField:    "c.event_id",
			contract.ValidFromField:  "c.valid_from",
			contract.ValidToField:    "c.valid_to",
			contract.CreatedAtField:  "c.created_at",
			contract.UpdatedAtField:  "c.updated_at",
		},
	}
}

func (g *PgContractRepository) buildFilters(ctx context.Context, params *contract.FindParams) ([]string, []interface{}, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"c.tenant_id = $1"}
	args := []interface{}{tenantID}

	for _, filter := range params.Filters {
		column, ok := g.fieldMap[filter.Column]
		if !ok {
			return nil, nil, fmt.Errorf("unknown filter field: %v", filter.Column)
		}
		where = append(where, filter.Filter.String(column, len(args)+1))
		args = append(args, filter.Filter.Value()...)
	}

	if params.Q != "" {
		index := len(args) + 1
		where = append(where, fmt.Sprintf("(c.contract_number ILIKE $%d OR c.name ILIKE $%d)", index, index))
		args = append(args, "%"+params.Q+"%")
	}
	return where, args, nil
}

func (g *PgContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, contractFindQuery+" WHERE c.id = $1 AND c.tenant_id = $2", id, tenantID)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contract.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query contract")
	}
	return c, nil
}

func (g *PgContractRepository) GetPaginated(ctx context.Context, params *contract.FindParams) ([]*contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	where, args, err := g.buildFilters(ctx, params)
	if err != nil {
		return nil, err
	}

	orderBy, err := params.SortBy.ToSQL(g.fieldMap)
	if err != nil {
		return nil, err
	}
	if orderBy == "" {
		orderBy = "ORDER BY c.created_at DESC"
	}

	query := repo.Join(
		contractFindQuery,
		"WHERE "+strings.Join(where, " AND "),
		orderBy,
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query contracts")
	}
	defer rows.Close()
	return scanContracts(rows)
}

func (g *PgContractRepository) Count(ctx context.Context, params *contract.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args, err := g.buildFilters(ctx, params)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(
		ctx,
		repo.Join(contractCountQuery, "WHERE "+strings.Join(where, " AND ")),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count contracts")
	}
	return count, nil
}

func (g *PgContractRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, contractExistsQuery, tenantID, number).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe contract number")
	}
	return true, nil
}

func (g *PgContractRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, contractCountBySupplierQuery, tenantID, supplierID).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count contracts by supplier")
	}
	return count, nil
}

func (g *PgContractRepository) ByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		contractFindQuery,
		"WHERE c.tenant_id = $1 AND c.event_id = $2",
		"ORDER BY c.created_at DESC",
		repo.FormatLimitOffset(limit, 0),
	)
	rows, err := tx.Query(ctx, query, tenantID, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query contracts by event")
	}
	defer rows.Close()
	return scanContracts(rows)
}

func (g *PgContractRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return 0, 0, err
	}

	var total, active int64
	if err := tx.QueryRow(ctx, contractCountByEventQuery, tenantID, eventID).Scan(&total, &active); err != nil {
		return 0, 0, errors.Wrap(err, "failed to count contracts by event")
	}
	return total, active, nil
}

func (g *PgContractRepository) Create(ctx context.Context, c *contract.Contract) (*contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		contractInsertQuery,
		c.ID,
		c.TenantID,
		c.ContractNumber,
		c.Name,
		c.Type,
		c.SupplierID,
		c.EventID,
		c.ValidFrom,
		c.ValidTo,
		c.Currency,
		c.TotalCost,
		c.CommissionRate,
		string(c.Status),
		c.PaymentTerms,
		c.CancellationPolicy,
		c.Terms,
		c.Files,
		c.Notes,
		c.OwnerID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert contract")
	}
	return c, nil
}

func (g *PgContractRepository) Update(ctx context.Context, c *contract.Contract) (*contract.Contract, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(
		ctx,
		contractUpdateQuery,
		c.ID,
		tenantID,
		c.Name,
		c.Type,
		c.SupplierID,
		c.EventID,
		c.ValidFrom,
		c.ValidTo,
		c.Currency,
		c.TotalCost,
		c.CommissionRate,
		string(c.Status),
		c.PaymentTerms,
		c.CancellationPolicy,
		c.Terms,
		c.Files,
		c.Notes,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contract.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update contract")
	}
	return c, nil
}

func (g *PgContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, contractDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete contract")
	}
	if tag.RowsAffected() == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func scanContract(row pgx.Row) (*contract.Contract, error) {
	var c contract.Contract
	var status string
	if err := row.Scan(
		&c.ID,
		&c.TenantID,
		&c.ContractNumber,
		&c.Name,
		&c.Type,
		&c.SupplierID,
		&c.EventID,
		&c.ValidFrom,
		&c.ValidTo,
		&c.Currency,
		&c.TotalCost,
		&c.CommissionRate,
		&status,
		&c.PaymentTerms,
		&c.CancellationPolicy,
		&c.Terms,
		&c.Files,
		&c.Notes,
		&c.OwnerID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = contract.Status(status)
	return &c, nil
}

func scanContracts(rows pgx.Rows) ([]*contract.Contract, error) {
	var out []*contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan contract")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
