package data

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgerrcode"

	"github.com/medexjob/medexjob-api/internal/data/pgxutil"
)

const (
	sortDirAsc   = "ASC"
	sortDirDesc  = "DESC"
	defaultLimit = 50
	maxLimit     = 200
)

// queryOne runs q and collects exactly one row into T by column name.
func queryOne[T any](ctx context.Context, db *sql.DB, q string, args ...any) (*T, error) {
	var out T
	err := pgxutil.Conn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// queryAll runs q and collects every row into T by column name.
func queryAll[T any](ctx context.Context, db *sql.DB, q string, args ...any) ([]*T, error) {
	var rowsOut []T
	err := pgxutil.Conn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	if err != nil {
		return nil, err
	}
	res := make([]*T, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// execAffected runs a statement and returns the affected row count.
func execAffected(ctx context.Context, db *sql.DB, q string, args ...any) (int64, error) {
	var n int64
	err := pgxutil.Conn(ctx, db, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, q, args...)
		if err != nil {
			return err
		}
		n = ct.RowsAffected()
		return nil
	})
	return n, err
}

// queryScalar scans a single value.
func queryScalar[T any](ctx context.Context, db *sql.DB, q string, args ...any) (T, error) {
	var out T
	err := pgxutil.Conn(ctx, db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, q, args...).Scan(&out)
	})
	return out, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// isInvalidID reports a malformed uuid parameter, which callers treat as not found.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidID(err)
}

// pageBounds clamps limit and offset.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(offset, 0)
}

// validateSort returns a safe sort column from allowed and a direction, falling back to defaults.
func validateSort(sort, dir string, allowed map[string]string, defCol, defDir string) (string, string) {
	col := defCol
	if c, ok := allowed[strings.ToLower(strings.TrimSpace(sort))]; ok {
		col = c
	}
	d := defDir
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		d = sortDirAsc
	case "desc":
		d = sortDirDesc
	}
	return col, d
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

// setBuilder accumulates "col = $n" fragments for partial updates.
type setBuilder struct {
	parts []string
	args  []any
}

func (b *setBuilder) add(col string, v any) {
	b.args = append(b.args, v)
	b.parts = append(b.parts, col+" = $"+strconv.Itoa(len(b.args)))
}

func (b *setBuilder) addRaw(fragment string) {
	b.parts = append(b.parts, fragment)
}

func (b *setBuilder) empty() bool { return len(b.parts) == 0 }

// build returns "SET ..." and args with id appended as the last placeholder.
func (b *setBuilder) build(id string) (string, string, []any) {
	args := append(b.args, id)
	return strings.Join(b.parts, ", "), "$" + strconv.Itoa(len(args)), args
}

// nullIfBlank maps a set-but-blank optional text field to SQL NULL.
func nullIfBlank(v *string) any {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return strings.TrimSpace(*v)
}
