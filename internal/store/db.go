package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Knetic/go-namedParameterQuery"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
)

type ltx struct {
	*sqlx.Tx
}

func (t ltx) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return nil, fmt.Errorf("already in transaction")
}

type txDB interface {
	Commit() error
	Rollback() error
}

func (ps *PGStore) DB() dependency.DB {
	return ps.db
}

// Tx starts a transaction and executes the function passing to it a
// Repository bound to that transaction. It automatically rolls the
// transaction back if the function returns an error. If the error has been
// caused by a serialization failure it calls the function again.
func (ps *PGStore) Tx(ctx context.Context, f func(context.Context, dependency.Repository) error) error {
	for {
		pst, err := ps.TxBegin(ctx)
		if err != nil {
			return err
		}
		err = f(ctx, pst)
		if err == nil {
			if err = pst.TxCommit(ctx); err == nil {
				return nil
			}
		}
		_ = pst.TxRollback(ctx)
		if ps.IsErrorRepeat(err) {
			continue
		}
		return err
	}
}

// InTx returns true if the object is in transaction.
func (ps *PGStore) InTx() bool {
	return ps.txDB != nil
}

func (ps *PGStore) TxBegin(ctx context.Context) (*PGStore, error) {
	tx, err := ps.db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, err
	}

	return &PGStore{
		db:   ltx{Tx: tx},
		txDB: tx,
		ts:   ps.Now(),
	}, nil
}

// Now returns current time for the store. It is frozen during transactions.
func (ps *PGStore) Now() time.Time {
	if ps.ts.IsZero() {
		return time.Now()
	}
	return ps.ts
}

func (ps *PGStore) TxCommit(ctx context.Context) error {
	if ps.txDB == nil {
		return fmt.Errorf("not in transaction")
	}
	err := ps.txDB.Commit()
	if err == nil {
		ps.db = nil
		ps.txDB = nil
	}
	return err
}

func (ps *PGStore) TxRollback(ctx context.Context) error {
	if ps.txDB == nil {
		return fmt.Errorf("not in transaction")
	}
	err := ps.txDB.Rollback()
	if err == nil {
		ps.db = nil
		ps.txDB = nil
	}
	return err
}

func (ps *PGStore) IsErrorRepeat(err error) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		if e.Code == "40001" {
			return true
		}
	}
	return false
}

func (ps *PGStore) IsErrUniqueViolation(err error) bool {
	var e *pq.Error
	if errors.As(err, &e) {
		if e.Code == "23505" {
			return true
		}
	}
	return false
}

// isInvalidTextRepresentation reports pq 22P02, raised when a malformed
// identifier is compared against a uuid column. Such a value can never match
// a stored id, so it maps to not found, matching the document backend.
func isInvalidTextRepresentation(err error) bool {
	var e *pq.Error
	return errors.As(err, &e) && e.Code == "22P02"
}

// rebindNamed resolves :name parameters, expands IN-lists and rebinds the
// placeholders to the $N form lib/pq expects.
func rebindNamed(query string, params map[string]any) (string, []any, error) {
	queryNamed := namedParameterQuery.NewNamedParameterQuery(query)
	queryNamed.SetValuesFromMap(params)
	q, args, err := sqlx.In(queryNamed.GetParsedQuery(), queryNamed.GetParsedParameters()...)
	if err != nil {
		return "", nil, fmt.Errorf("sqlx in: %w", err)
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), args, nil
}

func QueryListNamed[T any](
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) ([]T, error) {
	query, args, err := rebindNamed(query, params)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var target []T
	for rows.Next() {
		var t T
		if err := rows.StructScan(&t); err != nil {
			return nil, fmt.Errorf("struct scan: %w", err)
		}
		target = append(target, t)
	}
	return target, nil
}

// QueryNamedOne returns a single row mapped into T; sql.ErrNoRows is
// translated into apperr.ErrNotFound.
func QueryNamedOne[T any](ctx context.Context, conn dependency.DB, query string, params map[string]any) (T, error) {
	var target T
	query, args, err := rebindNamed(query, params)
	if err != nil {
		return target, err
	}

	row := conn.QueryRowxContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		if isInvalidTextRepresentation(err) {
			return target, apperr.ErrNotFound
		}
		return target, fmt.Errorf("query row: %w", err)
	}

	if err := row.StructScan(&target); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepresentation(err) {
			return target, apperr.ErrNotFound
		}
		return target, fmt.Errorf("struct scan: %w", err)
	}
	return target, nil
}

func QueryCountNamed(
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) (int, error) {
	query, args, err := rebindNamed(query, params)
	if err != nil {
		return 0, err
	}

	var count int
	if err := conn.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("query row scan: %w", err)
	}

	return count, nil
}

func ExecNamed(
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) error {
	_, err := ExecNamedRows(ctx, conn, query, params)
	return err
}

// ExecNamedRows executes the statement and returns the number of affected
// rows.
func ExecNamedRows(
	ctx context.Context,
	conn dependency.DB,
	query string,
	params map[string]any,
) (int, error) {
	query, args, err := rebindNamed(query, params)
	if err != nil {
		return 0, err
	}
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return 0, apperr.ErrNotFound
		}
		return 0, fmt.Errorf("exec context: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
