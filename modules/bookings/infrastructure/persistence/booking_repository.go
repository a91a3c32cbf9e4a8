package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/bookings/domain/entities/booking"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	bookingItemSelectQuery = `
		SELECT
			bi.id,
			bi.tenant_id,
			bi.booking_id,
			bi.product_id,
			bi.product_option_id,
			bi.contract_id,
			bi.service_date_from,
			bi.service_date_to,
			bi.quantity,
			bi.total_price,
			bi.total_price_base,
			bi.currency,
			bi.status,
			bi.created_at
		FROM booking_items bi`

	bookingSelectQuery = `
		SELECT id, tenant_id, reference, customer_name, status, created_at
		FROM bookings
		WHERE tenant_id = $1 AND id = ANY($2)`
)

type PgBookingRepository struct{}

func NewBookingRepository() booking.Repository {
	return &PgBookingRepository{}
}

func (r *PgBookingRepository) RecentItemsByContract(ctx context.Context, contractID uuid.UUID, limit int) ([]*booking.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		bookingItemSelectQuery,
		"WHERE bi.tenant_id = $1 AND bi.contract_id = $2",
		"ORDER BY bi.created_at DESC",
		repo.FormatLimitOffset(limit, 0),
	)
	rows, err := tx.Query(ctx, query, tenantID, contractID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query booking items by contract")
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *PgBookingRepository) ItemsByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*booking.Item, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(
		bookingItemSelectQuery,
		"WHERE bi.tenant_id = $1 AND bi.product_id = ANY($2)",
		"ORDER BY bi.created_at DESC",
	)
	rows, err := tx.Query(ctx, query, tenantID, productIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query booking items by products")
	}
	defer rows.Close()
	return scanItems(rows)
}

func (r *PgBookingRepository) BookingsByIDs(ctx context.Context, ids []uuid.UUID) ([]*booking.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, bookingSelectQuery, tenantID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query bookings by ids")
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		var b booking.Booking
		if err := rows.Scan(
			&b.ID,
			&b.TenantID,
			&b.Reference,
			&b.CustomerName,
			&b.Status,
			&b.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan booking")
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanItems(rows pgx.Rows) ([]*booking.Item, error) {
	var out []*booking.Item
	for rows.Next() {
		var item booking.Item
		if err := rows.Scan(
			&item.ID,
			&item.TenantID,
			&item.BookingID,
			&item.ProductID,
			&item.ProductOptionID,
			&item.ContractID,
			&item.ServiceDateFrom,
			&item.ServiceDateTo,
			&item.Quantity,
			&item.TotalPrice,
			&item.TotalPriceBase,
			&item.Currency,
			&item.Status,
			&item.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan booking item")
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
