// Package item implements the Item repository using PostgreSQL.
package item

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

const table = "items"

var columns = []string{
	"id", "nt_id", "item_number", "code", "description", "quantity", "batch",
	"status", "created_date", "created_time", "payment_time", "priority", "updated_at",
}

// row mirrors the items table.
type row struct {
	ID          uuid.UUID `db:"id"`
	NtID        uuid.UUID `db:"nt_id"`
	ItemNumber  int       `db:"item_number"`
	Code        string    `db:"code"`
	Description string    `db:"description"`
	Quantity    string    `db:"quantity"`
	Batch       *string   `db:"batch"`
	Status      string    `db:"status"`
	CreatedDate string    `db:"created_date"`
	CreatedTime string    `db:"created_time"`
	PaymentTime *string   `db:"payment_time"`
	Priority    bool      `db:"priority"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.Item {
	return domain.Item{
		ID:          r.ID,
		WorkOrderID: r.NtID,
		ItemNumber:  r.ItemNumber,
		Code:        r.Code,
		Description: r.Description,
		Quantity:    r.Quantity,
		Batch:       r.Batch,
		Status:      domain.ItemStatus(r.Status),
		CreatedDate: r.CreatedDate,
		CreatedTime: r.CreatedTime,
		PaymentTime: r.PaymentTime,
		Priority:    r.Priority,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toDomain(rows []row) []domain.Item {
	items := make([]domain.Item, len(rows))
	for i, r := range rows {
		items[i] = r.toDomain()
	}
	return items
}

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an item by primary key.
// Returns domain.ErrNotFound if the item does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}

	var res row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &res, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "item", id)
	}

	it := res.toDomain()
	return &it, nil
}

// ListOpen returns items still awaiting payment, oldest first.
func (r *Repo) ListOpen(ctx context.Context, limit int) ([]domain.Item, error) {
	return r.list(ctx, "list open items",
		sq.Eq{"status": string(domain.ItemStatusAwaitingPayment)},
		"updated_at ASC, item_number ASC", limit)
}

// ListCompleted returns the most recently updated completed items.
func (r *Repo) ListCompleted(ctx context.Context, limit int) ([]domain.Item, error) {
	statuses := make([]string, 0, 2)
	for _, s := range domain.CompletedItemStatuses() {
		statuses = append(statuses, string(s))
	}
	return r.list(ctx, "list completed items",
		sq.Eq{"status": statuses},
		"updated_at DESC, id ASC", limit)
}

// ListByWorkOrder returns the items of one work order by item number.
func (r *Repo) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Item, error) {
	return r.list(ctx, "list items by work order",
		sq.Eq{"nt_id": workOrderID},
		"item_number ASC", 0)
}

func (r *Repo) list(ctx context.Context, op string, where sq.Sqlizer, orderBy string, limit int) ([]domain.Item, error) {
	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		OrderBy(orderBy)
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toDomain(rows), nil
}

// CountByWorkOrder returns the number of items in a work order.
func (r *Repo) CountByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(sq.Eq{"nt_id": workOrderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count items: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "work order", workOrderID)
	}
	return n, nil
}

// MaxItemNumber returns the highest item number in a work order, or 0 when
// it has no items.
func (r *Repo) MaxItemNumber(ctx context.Context, workOrderID uuid.UUID) (int, error) {
	query, args, err := postgres.Builder().
		Select("COALESCE(MAX(item_number), 0)").
		From(table).
		Where(sq.Eq{"nt_id": workOrderID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build max item number: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "work order", workOrderID)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateBatch inserts items in a single statement and returns the stored
// rows in item number order.
func (r *Repo) CreateBatch(ctx context.Context, items []domain.Item) ([]domain.Item, error) {
	if len(items) == 0 {
		return []domain.Item{}, nil
	}

	b := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Suffix("RETURNING " + joinColumns())
	for _, it := range items {
		b = b.Values(
			it.ID, it.WorkOrderID, it.ItemNumber, it.Code, it.Description, it.Quantity, it.Batch,
			string(it.Status), it.CreatedDate, it.CreatedTime, it.PaymentTime, it.Priority, it.UpdatedAt,
		)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert items: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "work order", items[0].WorkOrderID)
	}

	created := toDomain(rows)
	slices.SortFunc(created, func(a, b domain.Item) int { return cmp.Compare(a.ItemNumber, b.ItemNumber) })
	return created, nil
}

// UpdateStatus sets the status and payment time of an item and bumps
// updated_at. Returns domain.ErrNotFound if the item does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus, paymentTime *string) (*domain.Item, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("status", string(status)).
		Set("payment_time", paymentTime).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update item status: %w", err)
	}

	var res row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &res, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "item", id)
	}

	it := res.toDomain()
	return &it, nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
