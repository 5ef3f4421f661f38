// Package database builds parameterized SELECT statements for list endpoints.
package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the comparison operator of a Condition.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "<>"
	GreaterThan        ConditionType = ">"
	GreaterThanOrEqual ConditionType = ">="
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	ILike              ConditionType = "ILIKE"
	// In matches any element of a slice value, rendered as = ANY($n).
	In ConditionType = "IN"

	raw ConditionType = "RAW"
)

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	Field  string
	Type   ConditionType
	Value  any
	sql    string
	params []any
}

// WhereCond compares a column against a single bound value.
func WhereCond(field string, op ConditionType, value any) Condition {
	return Condition{Field: field, Type: op, Value: value}
}

// WhereRawCond embeds a SQL fragment whose $1..$n placeholders refer to
// params. Placeholders are renumbered to fit the final statement; a
// placeholder may repeat and binds its parameter once.
func WhereRawCond(fragment string, params ...any) Condition {
	return Condition{Type: raw, sql: fragment, params: params}
}

// ListQueryOptions describes a list query. Build it with NewListQueryOptions.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	OrderBy    string
	OrderDir   string
	Limit      *int
	Offset     *int
}

// ListQueryOption configures ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions applies opts to a query over table.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	o := &ListQueryOptions{Table: table}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithColumns sets the selected columns. Empty selects *.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition appends one condition.
func WithCondition(c Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, c) }
}

// WithConditions replaces the condition list.
func WithConditions(cs ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = cs }
}

// WithOrderBy sets the sort column and direction ("asc" or "desc").
func WithOrderBy(column, dir string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = column
		o.OrderDir = dir
	}
}

// WithLimit bounds the row count. Negative values are ignored.
func WithLimit(n int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if n >= 0 {
			o.Limit = &n
		}
	}
}

// WithOffset skips rows. Negative values are ignored.
func WithOffset(n int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if n >= 0 {
			o.Offset = &n
		}
	}
}

// WithCountOnly selects COUNT(*) and drops ordering and paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// BuildListQuery renders the statement and its positional arguments.
// Identifiers are quoted; raw fragments are trusted as written.
func BuildListQuery(o *ListQueryOptions) (string, []any) {
	if o == nil {
		return "", nil
	}
	b := &stmt{}

	b.sql.WriteString("SELECT ")
	b.sql.WriteString(o.selectList())
	b.sql.WriteString(" FROM ")
	b.sql.WriteString(quote(o.Table))

	b.where(o.Conditions)
	if o.CountOnly {
		return b.sql.String(), b.args
	}

	if o.OrderBy != "" {
		b.sql.WriteString(" ORDER BY ")
		b.sql.WriteString(quote(o.OrderBy))
		if dir := strings.ToUpper(o.OrderDir); dir == "ASC" || dir == "DESC" {
			b.sql.WriteString(" " + dir)
		}
	}
	if o.Limit != nil {
		b.sql.WriteString(" LIMIT " + b.bind(*o.Limit))
	}
	if o.Offset != nil {
		b.sql.WriteString(" OFFSET " + b.bind(*o.Offset))
	}
	return b.sql.String(), b.args
}

func (o *ListQueryOptions) selectList() string {
	if o.CountOnly {
		return "COUNT(*)"
	}
	if len(o.Columns) == 0 {
		return "*"
	}
	cols := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		cols[i] = column(c)
	}
	return strings.Join(cols, ", ")
}

type stmt struct {
	sql  strings.Builder
	args []any
}

// bind appends v and returns its placeholder.
func (b *stmt) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *stmt) where(conds []Condition) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if p := b.predicate(c); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		b.sql.WriteString(" WHERE ")
		b.sql.WriteString(strings.Join(parts, " AND "))
	}
}

func (b *stmt) predicate(c Condition) string {
	switch c.Type {
	case raw:
		return b.renumber(c.sql, c.params)
	case In:
		if c.Field == "" {
			return ""
		}
		return fmt.Sprintf("%s = ANY(%s)", quote(c.Field), b.bind(c.Value))
	case Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, ILike:
		if c.Field == "" {
			return ""
		}
		return fmt.Sprintf("%s %s %s", quote(c.Field), c.Type, b.bind(c.Value))
	default:
		return ""
	}
}

var placeholderRE = regexp.MustCompile(`\$(\d+)`)

// renumber rewrites $k in fragment to the statement's next free positions.
// Out-of-range placeholders are left untouched.
func (b *stmt) renumber(fragment string, params []any) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	seen := make(map[int]string, len(params))
	return placeholderRE.ReplaceAllStringFunc(fragment, func(m string) string {
		k, err := strconv.Atoi(m[1:])
		if err != nil || k < 1 || k > len(params) {
			return m
		}
		if ph, ok := seen[k]; ok {
			return ph
		}
		seen[k] = b.bind(params[k-1])
		return seen[k]
	})
}

// column quotes "name", "table.name" and "name AS alias".
func column(spec string) string {
	name, alias, ok := strings.Cut(spec, " AS ")
	out := quote(strings.TrimSpace(name))
	if ok {
		out += " AS " + quote(strings.TrimSpace(alias))
	}
	return out
}

func quote(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}
