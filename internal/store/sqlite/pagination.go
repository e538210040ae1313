package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

// scanner abstracts sql.Row and sql.Rows for the per-entity scan helpers.
type scanner interface{ Scan(dest ...any) error }

// querier abstracts *sql.DB and *sql.Tx for helpers that run on either.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryPage runs a count query and a windowed list query inside one
// transaction, so the total and the items come from the same snapshot.
// Both queries must share the same predicate and args; the list query
// must end with LIMIT ? OFFSET ?, which this helper supplies from the
// window. The optional enrich hook runs inside the same transaction so
// related rows come from the same snapshot too.
func queryPage[T any](
	ctx context.Context,
	s *Store,
	w store.Window,
	countQuery, listQuery string,
	args []any,
	scanFn func(scanner) (T, error),
	enrich func(context.Context, querier, []T) error,
) (*store.Page[T], error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, listQuery, append(args, w.Limit, w.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scanFn(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if enrich != nil {
		if err := enrich(ctx, tx, items); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return store.NewPage(total, w, items), nil
}

// liveClause returns the predicate fragment that hides soft-deleted
// rows, or nothing when the caller is allowed to see them.
func liveClause(includeDeleted bool) string {
	if includeDeleted {
		return ""
	}
	return " AND is_deleted = 0"
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
