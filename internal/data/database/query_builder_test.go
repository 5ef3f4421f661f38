package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_SelectsAndQuotes(t *testing.T) {
	tests := []struct {
		name string
		opts *ListQueryOptions
		want string
	}{
		{
			name: "star",
			opts: NewListQueryOptions("jobs"),
			want: `SELECT * FROM "jobs"`,
		},
		{
			name: "plain columns",
			opts: NewListQueryOptions("jobs", WithColumns("id", "title")),
			want: `SELECT "id", "title" FROM "jobs"`,
		},
		{
			name: "qualified and aliased",
			opts: NewListQueryOptions("jobs", WithColumns("jobs.id", "employers.company_name AS company")),
			want: `SELECT "jobs"."id", "employers"."company_name" AS "company" FROM "jobs"`,
		},
		{
			name: "injection attempt stays an identifier",
			opts: NewListQueryOptions(`jobs"; DROP TABLE users; --`),
			want: `SELECT * FROM "jobs""; DROP TABLE users; --"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := BuildListQuery(tt.opts)
			assert.Equal(t, tt.want, query)
			assert.Empty(t, args)
		})
	}
}

func TestBuildListQuery_ConditionsAndPaging(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("job_listings",
		WithColumns("id"),
		WithCondition(WhereCond("status", Equal, "open")),
		WithCondition(WhereCond("location", ILike, "%pune%")),
		WithCondition(WhereCond("employment_type", In, []string{"locum", "contract"})),
		WithOrderBy("salary_max", "desc"),
		WithLimit(20),
		WithOffset(40),
	))

	assert.Equal(t,
		`SELECT "id" FROM "job_listings" WHERE "status" = $1 AND "location" ILIKE $2`+
			` AND "employment_type" = ANY($3) ORDER BY "salary_max" DESC LIMIT $4 OFFSET $5`,
		query)
	assert.Equal(t, []any{"open", "%pune%", []string{"locum", "contract"}, 20, 40}, args)
}

func TestBuildListQuery_RawConditionsAreRenumbered(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("job_listings",
		WithConditions(
			WhereCond("status", Equal, "open"),
			WhereRawCond(`(title ILIKE $1 OR description ILIKE $1)`, "%nurse%"),
			WhereRawCond(`(experience_min <= $1 AND (experience_max IS NULL OR experience_max >= $1))`, 3),
			WhereRawCond(`(deadline IS NULL OR deadline >= $1::date)`, "2026-03-01"),
		),
	))

	assert.Equal(t,
		`SELECT * FROM "job_listings" WHERE "status" = $1`+
			` AND (title ILIKE $2 OR description ILIKE $2)`+
			` AND (experience_min <= $3 AND (experience_max IS NULL OR experience_max >= $3))`+
			` AND (deadline IS NULL OR deadline >= $4::date)`,
		query)
	assert.Equal(t, []any{"open", "%nurse%", 3, "2026-03-01"}, args)
}

func TestBuildListQuery_RawConditionEdgeCases(t *testing.T) {
	t.Run("no params", func(t *testing.T) {
		query, args := BuildListQuery(NewListQueryOptions("users",
			WithCondition(WhereRawCond("is_active")),
		))
		assert.Equal(t, `SELECT * FROM "users" WHERE is_active`, query)
		assert.Empty(t, args)
	})

	t.Run("multiple params out of order", func(t *testing.T) {
		query, args := BuildListQuery(NewListQueryOptions("jobs",
			WithCondition(WhereCond("employer_id", Equal, "e1")),
			WithCondition(WhereRawCond(`salary_max BETWEEN $2 AND $1`, 90000, 30000)),
		))
		assert.Equal(t, `SELECT * FROM "jobs" WHERE "employer_id" = $1 AND salary_max BETWEEN $2 AND $3`, query)
		assert.Equal(t, []any{"e1", 30000, 90000}, args)
	})

	t.Run("out of range placeholder untouched", func(t *testing.T) {
		query, args := BuildListQuery(NewListQueryOptions("jobs",
			WithCondition(WhereRawCond(`views > $3`, 1)),
		))
		assert.Equal(t, `SELECT * FROM "jobs" WHERE views > $3`, query)
		assert.Empty(t, args)
	})

	t.Run("blank fragment skipped", func(t *testing.T) {
		query, _ := BuildListQuery(NewListQueryOptions("jobs", WithCondition(WhereRawCond("  "))))
		assert.Equal(t, `SELECT * FROM "jobs"`, query)
	})
}

func TestBuildListQuery_CountOnlyDropsPaging(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("applications",
		WithCountOnly(),
		WithColumns("id"),
		WithCondition(WhereCond("status", Equal, "pending")),
		WithOrderBy("created_at", "desc"),
		WithLimit(10),
	))

	assert.Equal(t, `SELECT COUNT(*) FROM "applications" WHERE "status" = $1`, query)
	assert.Equal(t, []any{"pending"}, args)
}

func TestBuildListQuery_PagingBounds(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("jobs", WithLimit(0), WithOffset(0)))
	assert.Equal(t, `SELECT * FROM "jobs" LIMIT $1 OFFSET $2`, query)
	assert.Equal(t, []any{0, 0}, args)

	query, args = BuildListQuery(NewListQueryOptions("jobs", WithLimit(-1), WithOffset(-5)))
	assert.Equal(t, `SELECT * FROM "jobs"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_InvalidInputs(t *testing.T) {
	query, args := BuildListQuery(nil)
	assert.Empty(t, query)
	assert.Nil(t, args)

	query, _ = BuildListQuery(NewListQueryOptions("jobs",
		WithCondition(WhereCond("", Equal, "x")),
		WithCondition(Condition{Field: "status", Type: "BOGUS", Value: 1}),
		WithOrderBy("created_at", "sideways"),
	))
	assert.Equal(t, `SELECT * FROM "jobs" ORDER BY "created_at"`, query)
}
