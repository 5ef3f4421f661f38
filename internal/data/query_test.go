package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name           string
		limit, offset  int
		wantL, wantOff int
	}{
		{"defaults", 0, 0, defaultLimit, 0},
		{"negative offset", 10, -5, 10, 0},
		{"capped", 10_000, 20, maxLimit, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := pageBounds(tt.limit, tt.offset)
			assert.Equal(t, tt.wantL, l)
			assert.Equal(t, tt.wantOff, o)
		})
	}
}

func TestValidateSort(t *testing.T) {
	allowed := map[string]string{"title": "title", "created_at": "created_at"}

	col, dir := validateSort("TITLE", "asc", allowed, "created_at", sortDirDesc)
	assert.Equal(t, "title", col)
	assert.Equal(t, sortDirAsc, dir)

	col, dir = validateSort("id; DROP TABLE jobs", "sideways", allowed, "created_at", sortDirDesc)
	assert.Equal(t, "created_at", col)
	assert.Equal(t, sortDirDesc, dir)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%nurse%", likePattern("  nurse "))
	assert.Equal(t, `%100\%\_off%`, likePattern("100%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestSetBuilder(t *testing.T) {
	var b setBuilder
	assert.True(t, b.empty())

	b.add("title", "Nurse")
	b.addRaw("updated_at = now()")
	b.add("openings", 3)

	set, idPH, args := b.build("job-1")
	assert.Equal(t, "title = $1, updated_at = now(), openings = $2", set)
	assert.Equal(t, "$3", idPH)
	assert.Equal(t, []any{"Nurse", 3, "job-1"}, args)
}

func TestNullIfBlank(t *testing.T) {
	blank := "   "
	v := " ICU "
	assert.Nil(t, nullIfBlank(nil))
	assert.Nil(t, nullIfBlank(&blank))
	assert.Equal(t, "ICU", nullIfBlank(&v))
}
