// Package workorder implements the WorkOrder repository using PostgreSQL.
// Deleting a work order cascades to its items through the foreign key.
package workorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

const table = "work_orders"

var columns = []string{"id", "nt_number", "created_date", "created_time", "status", "created_at"}

type row struct {
	ID          uuid.UUID `db:"id"`
	Number      string    `db:"nt_number"`
	CreatedDate string    `db:"created_date"`
	CreatedTime string    `db:"created_time"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r row) toDomain() domain.WorkOrder {
	return domain.WorkOrder{
		ID:          r.ID,
		Number:      r.Number,
		CreatedDate: r.CreatedDate,
		CreatedTime: r.CreatedTime,
		Status:      domain.WorkOrderStatus(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

type refRow struct {
	ID     uuid.UUID `db:"id"`
	Number string    `db:"nt_number"`
}

// Repo provides work order persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new work order repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create inserts a work order. Numbers may repeat; domain.ErrAlreadyExists
// is returned only on an id collision.
func (r *Repo) Create(ctx context.Context, wo domain.WorkOrder) (*domain.WorkOrder, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(wo.ID, wo.Number, wo.CreatedDate, wo.CreatedTime, string(wo.Status), wo.CreatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert work order: %w", err)
	}

	var res row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &res, query, args...); err != nil {
		return nil, postgres.MapError(err, "work order", wo.Number)
	}

	created := res.toDomain()
	return &created, nil
}

// GetByID returns a work order by primary key.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get work order: %w", err)
	}

	var res row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &res, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("work order %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "work order", id)
	}

	wo := res.toDomain()
	return &wo, nil
}

// Delete removes a work order and, by cascade, its items.
// Returns domain.ErrNotFound if nothing was deleted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete work order: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "work order", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("work order %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListRefs returns the id and number of every work order.
func (r *Repo) ListRefs(ctx context.Context) ([]domain.WorkOrderRef, error) {
	query, args, err := postgres.Builder().
		Select("id", "nt_number").
		From(table).
		OrderBy("nt_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list work order refs: %w", err)
	}

	var rows []refRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list work order refs: %w", err)
	}

	refs := make([]domain.WorkOrderRef, len(rows))
	for i, rr := range rows {
		refs[i] = domain.WorkOrderRef{ID: rr.ID, Number: rr.Number}
	}
	return refs, nil
}
