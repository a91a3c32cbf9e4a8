package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tourhub-uz/tourhub/modules/events/domain/aggregates/event"
	"github.com/tourhub-uz/tourhub/pkg/composables"
	"github.com/tourhub-uz/tourhub/pkg/repo"
)

const (
	eventFindQuery = `
		SELECT
			e.id,
			e.tenant_id,
			e.name,
			e.code,
			e.type,
			e.venue,
			e.city,
			e.country,
			e.date_from,
			e.date_to,
			e.status,
			e.description,
			e.image_url,
			e.created_at,
			e.updated_at
		FROM events e`

	eventCountQuery = `SELECT COUNT(e.id) FROM events e`

	eventCodeExistsQuery = `SELECT 1 FROM events e WHERE e.tenant_id = $1 AND e.code = $2`
	eventNameExistsQuery = `SELECT 1 FROM events e WHERE e.tenant_id = $1 AND e.name = $2`

	eventInsertQuery = `
		INSERT INTO events (
			id, tenant_id, name, code, type, venue, city, country,
			date_from, date_to, status, description, image_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	eventUpdateQuery = `
		UPDATE events
		SET name = $3, type = $4, venue = $5, city = $6, country = $7,
			date_from = $8, date_to = $9, status = $10, description = $11,
			image_url = $12, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING updated_at`

	eventDeleteQuery = `DELETE FROM events WHERE id = $1 AND tenant_id = $2`
)

type PgEventRepository struct {
	fieldMap map[event.Field]string
}

func NewEventRepository() event.Repository {
	return &PgEventRepository{
		fieldMap: map[event.Field]string{
			event.NameField:      "e.name",
			event.CodeField:      "e.code",
			event.TypeField:      "e.type",
			event.StatusField:    "e.status",
			event.CityField:      "e.city",
			event.CountryField:   "e.country",
			event.DateFromField:  "e.date_from",
			event.DateToField:    "e.date_to",
			event.CreatedAtField: "e.created_at",
			event.UpdatedAtField: "e.updated_at",
		},
	}
}

func (g *PgEventRepository) buildFilters(ctx context.Context, params *event.FindParams) ([]string, []interface{}, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get tenant from context")
	}

	where := []string{"e.tenant_id = $1"}
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
		where = append(where, fmt.Sprintf("(e.code ILIKE $%d OR e.name ILIKE $%d)", index, index))
		args = append(args, "%"+params.Q+"%")
	}
	return where, args, nil
}

func (g *PgEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, eventFindQuery+" WHERE e.id = $1 AND e.tenant_id = $2", id, tenantID)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query event")
	}
	return e, nil
}

func (g *PgEventRepository) GetPaginated(ctx context.Context, params *event.FindParams) ([]*event.Event, error) {
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
		orderBy = "ORDER BY e.date_from DESC"
	}

	query := repo.Join(
		eventFindQuery,
		"WHERE "+strings.Join(where, " AND "),
		orderBy,
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()

	var out []*event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (g *PgEventRepository) Count(ctx context.Context, params *event.FindParams) (int64, error) {
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
		repo.Join(eventCountQuery, "WHERE "+strings.Join(where, " AND ")),
		args...,
	).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count events")
	}
	return count, nil
}

func (g *PgEventRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return g.exists(ctx, eventCodeExistsQuery, code)
}

func (g *PgEventRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return g.exists(ctx, eventNameExistsQuery, name)
}

func (g *PgEventRepository) exists(ctx context.Context, query, value string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return false, err
	}

	var one int
	err = tx.QueryRow(ctx, query, tenantID, value).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to probe event")
	}
	return true, nil
}

func (g *PgEventRepository) Create(ctx context.Context, e *event.Event) (*event.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.TenantID = tenantID

	err = tx.QueryRow(
		ctx,
		eventInsertQuery,
		e.ID,
		e.TenantID,
		e.Name,
		e.Code,
		e.Type,
		e.Venue,
		e.City,
		e.Country,
		e.DateFrom,
		e.DateTo,
		string(e.Status),
		e.Description,
		e.ImageURL,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert event")
	}
	return e, nil
}

func (g *PgEventRepository) Update(ctx context.Context, e *event.Event) (*event.Event, error) {
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
		eventUpdateQuery,
		e.ID,
		tenantID,
		e.Name,
		e.Type,
		e.Venue,
		e.City,
		e.Country,
		e.DateFrom,
		e.DateTo,
		string(e.Status),
		e.Description,
		e.ImageURL,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, event.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to update event")
	}
	return e, nil
}

func (g *PgEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, eventDeleteQuery, id, tenantID)
	if err != nil {
		return errors.Wrap(err, "failed to delete event")
	}
	if tag.RowsAffected() == 0 {
		return event.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*event.Event, error) {
	var e event.Event
	var status string
	if err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.Name,
		&e.Code,
		&e.Type,
		&e.Venue,
		&e.City,
		&e.Country,
		&e.DateFrom,
		&e.DateTo,
		&status,
		&e.Description,
		&e.ImageURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Status = event.Status(status)
	return &e, nil
}
