package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

func TestFilterClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.BookFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name: "no filters",
		},
		{
			name:      "title only",
			filter:    domain.BookFilter{Title: "dune"},
			wantWhere: `WHERE b.title ILIKE $1 ESCAPE '\'`,
			wantArgs:  []any{"%dune%"},
		},
		{
			name:      "all filters with wildcards escaped",
			filter:    domain.BookFilter{Title: "100%", City: "a_b", State: `x\y`},
			wantWhere: `WHERE b.title ILIKE $1 ESCAPE '\' AND b.city ILIKE $2 ESCAPE '\' AND b.state ILIKE $3 ESCAPE '\'`,
			wantArgs:  []any{`%100\%%`, `%a\_b%`, `%x\\y%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := filterClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
