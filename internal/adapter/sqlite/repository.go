package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/folio-org/mod-translations/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// Compile-time check: Repository implements domain.Store.
var (
	_ domain.Store[domain.Language]           = (*Repository[domain.Language])(nil)
	_ domain.Store[domain.LanguageTranslator] = (*Repository[domain.LanguageTranslator])(nil)
	_ domain.Store[domain.Translation]        = (*Repository[domain.Translation])(nil)
)

// Repository implements domain.Store over one JSON-document table in every
// tenant database.
type Repository[T any] struct {
	tenants *Tenants
	table   Table[T]
}

// NewRepository creates a repository for the given table.
func NewRepository[T any](tenants *Tenants, table Table[T]) *Repository[T] {
	return &Repository[T]{tenants: tenants, table: table}
}

func (r *Repository[T]) name() string {
	return r.table.Kind.Table
}

func (r *Repository[T]) List(ctx context.Context, tenant string, q domain.Query) (domain.Page[T], error) {
	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return domain.Page[T]{}, err
	}

	where, err := translate(q.Predicate)
	if err != nil {
		return domain.Page[T]{}, err
	}

	count := sq.Select("COUNT(*)").From(r.name())
	sel := sq.Select("jsonb").From(r.name()).
		OrderBy("rowid").
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset))
	if where != nil {
		count = count.Where(where)
		sel = sel.Where(where)
	}

	var total int
	query, args, err := count.ToSql()
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("building count: %w", err)
	}
	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return domain.Page[T]{}, fmt.Errorf("counting %s: %w", r.name(), err)
	}

	query, args, err = sel.ToSql()
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("building select: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Page[T]{}, fmt.Errorf("listing %s: %w", r.name(), err)
	}
	defer rows.Close()

	items := make([]T, 0, q.Limit)
	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return domain.Page[T]{}, err
		}
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[T]{}, fmt.Errorf("listing %s: %w", r.name(), err)
	}

	return domain.Page[T]{Items: items, TotalRecords: total}, nil
}

func (r *Repository[T]) Get(ctx context.Context, tenant, id string) (T, error) {
	var zero T

	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return zero, err
	}

	query, args, err := sq.Select("jsonb").From(r.name()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return zero, fmt.Errorf("building select: %w", err)
	}

	record, err := r.scanRecord(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.ErrRecordNotFound
	}
	return record, err
}

func (r *Repository[T]) Create(ctx context.Context, tenant string, record T) (string, error) {
	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", r.name(), err)
	}

	id := r.table.Kind.ID(record)
	now := time.Now().UTC().Format(timeFormat)

	columns := append([]string{"id"}, r.table.Columns...)
	columns = append(columns, "jsonb", "created_at", "updated_at")
	values := append([]any{id}, r.table.Values(record)...)
	values = append(values, string(doc), now, now)

	query, args, err := sq.Insert(r.name()).Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return "", fmt.Errorf("building insert: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("inserting %s: %w", r.name(), classify(err))
	}

	return id, nil
}

func (r *Repository[T]) Update(ctx context.Context, tenant, id string, record T) (int64, error) {
	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return 0, err
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("encoding %s: %w", r.name(), err)
	}

	update := sq.Update(r.name())
	for i, v := range r.table.Values(record) {
		update = update.Set(r.table.Columns[i], v)
	}
	query, args, err := update.
		Set("jsonb", string(doc)).
		Set("updated_at", time.Now().UTC().Format(timeFormat)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building update: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", r.name(), classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows, nil
}

func (r *Repository[T]) Delete(ctx context.Context, tenant, id string) (int64, error) {
	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return 0, err
	}

	query, args, err := sq.Delete(r.name()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting %s: %w", r.name(), classify(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return rows, nil
}

func (r *Repository[T]) DeleteAll(ctx context.Context, tenant string) error {
	db, err := r.tenants.DB(ctx, tenant)
	if err != nil {
		return err
	}

	query, args, err := sq.Delete(r.name()).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting all %s: %w", r.name(), classify(err))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord decodes the JSON document of a single row.
func (r *Repository[T]) scanRecord(row scanner) (T, error) {
	var record T
	var doc string

	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, err
		}
		return record, fmt.Errorf("scanning %s: %w", r.name(), err)
	}
	if err := json.Unmarshal([]byte(doc), &record); err != nil {
		return record, fmt.Errorf("decoding %s: %w", r.name(), err)
	}
	return record, nil
}
