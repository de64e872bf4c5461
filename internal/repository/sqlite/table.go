package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/msomdec/hbnb/internal/domain"
)

var dialect = goqu.Dialect("sqlite3")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// withTx runs fn in a new transaction when q is the pool, and directly on q
// when q is already a transaction.
func withTx(ctx context.Context, q querier, fn func(q querier) error) error {
	db, ok := q.(*sql.DB)
	if !ok {
		return fn(q)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// table is a domain.Repository over one SQL table. R is the pointer to the
// record type rows are scanned into before they are restored as T.
type table[T domain.Entity[T], R any] struct {
	q          querier
	name       string
	columns    []string
	attributes []string

	values  func(T) []any
	scan    func(scanner) (R, error)
	restore func(R) (T, error)

	// load fills child rows into freshly scanned records.
	load func(ctx context.Context, q querier, recs []R) error
	// save rewrites child rows after an insert or update.
	save func(ctx context.Context, q querier, entity T) error
	// remove deletes child rows of id before the row itself.
	remove func(ctx context.Context, q querier, id string) error
	// conflict maps a unique violation other than the primary key.
	conflict func(entity T) error
}

func (t *table[T, R]) bind(q querier) *table[T, R] {
	c := *t
	c.q = q
	return &c
}

func (t *table[T, R]) selectAll() *goqu.SelectDataset {
	cols := make([]any, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c
	}
	return dialect.From(t.name).Prepared(true).Select(cols...).Order(goqu.C("rowid").Asc())
}

func (t *table[T, R]) record(entity T) goqu.Record {
	rec := goqu.Record{}
	for i, v := range t.values(entity) {
		rec[t.columns[i]] = v
	}
	return rec
}

func (t *table[T, R]) Add(ctx context.Context, entity T) error {
	query, args, err := dialect.Insert(t.name).Prepared(true).Rows(t.record(entity)).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", t.name, err)
	}
	return withTx(ctx, t.q, func(q querier) error {
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return t.translate(err, entity, "insert")
		}
		if t.save != nil {
			return t.save(ctx, q, entity)
		}
		return nil
	})
}

func (t *table[T, R]) Get(ctx context.Context, id string) (T, error) {
	items, err := t.query(ctx, t.selectAll().Where(goqu.C("id").Eq(id)).Limit(1))
	if err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, &domain.NotFoundError{Collection: t.name, ID: id}
	}
	return items[0], nil
}

func (t *table[T, R]) GetByAttribute(ctx context.Context, field string, value any) (T, error) {
	var zero T
	if !slices.Contains(t.attributes, field) {
		return zero, &domain.ValidationError{Entity: t.name, Field: field, Reason: "is not a known attribute"}
	}
	notFound := &domain.NotFoundError{Collection: t.name, ID: fmt.Sprintf("%s=%v", field, value)}
	norm, ok := domain.NormalizeAttribute(value)
	if !ok {
		return zero, notFound
	}
	// SQLite affinity may widen the match (1 = true, '120' = 120); the
	// candidates are narrowed with the same comparison the memory store uses.
	items, err := t.query(ctx, t.selectAll().Where(goqu.C(field).Eq(norm)))
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if v, _ := item.Field(field); domain.AttributeEqual(v, value) {
			return item, nil
		}
	}
	return zero, notFound
}

func (t *table[T, R]) GetAll(ctx context.Context) ([]T, error) {
	return t.query(ctx, t.selectAll())
}

func (t *table[T, R]) Update(ctx context.Context, id string, patch domain.Patch[T]) (T, error) {
	var updated T
	err := withTx(ctx, t.q, func(q querier) error {
		current, err := t.bind(q).Get(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(current); err != nil {
			return err
		}

		rec := t.record(current)
		delete(rec, "id")
		query, args, err := dialect.Update(t.name).Prepared(true).
			Set(rec).Where(goqu.C("id").Eq(id)).ToSQL()
		if err != nil {
			return fmt.Errorf("build update %s: %w", t.name, err)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return t.translate(err, current, "update")
		}
		if t.save != nil {
			if err := t.save(ctx, q, current); err != nil {
				return err
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (t *table[T, R]) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := dialect.Delete(t.name).Prepared(true).Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete %s: %w", t.name, err)
	}
	var deleted bool
	err = withTx(ctx, t.q, func(q querier) error {
		if t.remove != nil {
			if err := t.remove(ctx, q, id); err != nil {
				return err
			}
		}
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete %s: %w", t.name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// query runs ds and restores every row. Rows are fully read and closed
// before child rows are loaded, since the pool has one connection.
func (t *table[T, R]) query(ctx context.Context, ds *goqu.SelectDataset) ([]T, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", t.name, err)
	}
	recs, err := t.scanAll(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if t.load != nil && len(recs) > 0 {
		if err := t.load(ctx, t.q, recs); err != nil {
			return nil, err
		}
	}

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := t.restore(rec)
		if err != nil {
			return nil, fmt.Errorf("restore %s row: %w", t.name, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (t *table[T, R]) scanAll(ctx context.Context, query string, args []any) ([]R, error) {
	rows, err := t.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	defer rows.Close()

	var recs []R
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (t *table[T, R]) translate(err error, entity T, op string) error {
	if isUniqueConstraintError(err) {
		if strings.Contains(err.Error(), t.name+".id") {
			return &domain.DuplicateIDError{Collection: t.name, ID: entity.ID()}
		}
		if t.conflict != nil {
			return t.conflict(entity)
		}
	}
	return fmt.Errorf("%s %s: %w", op, t.name, err)
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "unique constraint")
}
