package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// QueryResult is a row cursor that also owns the statement and connection it
// was read from.
type QueryResult struct {
	*sql.Rows

	stmt     *sql.Stmt
	conn     *sql.Conn
	cancel   func()
	provider *Provider
	closed   bool
}

// Close releases rows, statement and connection. It is safe to call more than once.
func (r *QueryResult) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	if err := r.Rows.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.stmt.Close(); err != nil {
		errs = append(errs, err)
	}
	r.provider.CloseConnection(r.conn)
	r.cancel()
	return errors.Join(errs...)
}

// Query builds q and runs it through ExecuteQuery.
func (p *Provider) Query(ctx context.Context, q squirrel.Sqlizer) (*QueryResult, error) {
	query, args, err := q.ToSql()
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to build query")
		return nil, fmt.Errorf("build query: %w", err)
	}
	return p.ExecuteQuery(ctx, query, args...)
}

// Exec builds q and runs it through ExecuteUpdate.
func (p *Provider) Exec(ctx context.Context, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		p.logger.Error().Err(err).Msg("Failed to build statement")
		return 0, fmt.Errorf("build statement: %w", err)
	}
	return p.ExecuteUpdate(ctx, query, args...)
}

// QueryOne runs q and scans the first row. It returns sql.ErrNoRows when the
// result is empty.
func (p *Provider) QueryOne(ctx context.Context, q squirrel.Sqlizer, scan func(Scanner) error) error {
	res, err := p.Query(ctx, q)
	if err != nil {
		return err
	}
	defer res.Close()

	if !res.Next() {
		if err := res.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrStatementFailed, err)
		}
		return sql.ErrNoRows
	}
	return scan(res)
}

// QueryAll runs q and calls scan for every row.
func (p *Provider) QueryAll(ctx context.Context, q squirrel.Sqlizer, scan func(Scanner) error) error {
	res, err := p.Query(ctx, q)
	if err != nil {
		return err
	}
	defer res.Close()

	for res.Next() {
		if err := scan(res); err != nil {
			return err
		}
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStatementFailed, err)
	}
	return nil
}

// Exists reports whether q returns at least one row.
func (p *Provider) Exists(ctx context.Context, q squirrel.SelectBuilder) (bool, error) {
	res, err := p.Query(ctx, q.Limit(1))
	if err != nil {
		return false, err
	}
	defer res.Close()

	found := res.Next()
	if err := res.Err(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStatementFailed, err)
	}
	return found, nil
}

// Count runs a SELECT COUNT(*) style query and returns the scalar.
func (p *Provider) Count(ctx context.Context, q squirrel.SelectBuilder) (int64, error) {
	var n int64
	err := p.QueryOne(ctx, q, func(s Scanner) error { return s.Scan(&n) })
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// ExecTx builds q and runs it inside tx.
func ExecTx(ctx context.Context, tx *sql.Tx, q squirrel.Sqlizer) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStatementFailed, err)
	}
	return res.RowsAffected()
}

// QueryRowTx builds q, runs it inside tx and scans the single row into dest.
// It returns sql.ErrNoRows when the result is empty.
func QueryRowTx(ctx context.Context, tx *sql.Tx, q squirrel.Sqlizer, dest ...interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrStatementFailed, err)
	}
	return nil
}
