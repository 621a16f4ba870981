// Package setting implements the key/value settings store using PostgreSQL.
package setting

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/ntmanager-backend/internal/adapter/postgres"
)

const table = "settings"

type row struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Repo stores settings as text key/value pairs.
type Repo struct {
	db postgres.Querier
}

// New creates a new settings repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetAll returns every stored setting.
func (r *Repo) GetAll(ctx context.Context) (map[string]string, error) {
	query, args, err := postgres.Builder().
		Select("key", "value").
		From(table).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list settings: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	out := make(map[string]string, len(rows))
	for _, rr := range rows {
		out[rr.Key] = rr.Value
	}
	return out, nil
}

// Upsert inserts or replaces one setting.
func (r *Repo) Upsert(ctx context.Context, key, value string) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert setting: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "setting", key)
	}
	return nil
}
