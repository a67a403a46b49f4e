package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationBounds(t *testing.T) {
	tests := []struct {
		name   string
		page   Pagination
		limit  int
		offset int
	}{
		{"zero value defaults", Pagination{}, 50, 0},
		{"explicit page size", Pagination{Page: 1, PageSize: 20}, 20, 0},
		{"second page", Pagination{Page: 2, PageSize: 20}, 20, 20},
		{"page size capped", Pagination{Page: 1, PageSize: 1000}, 200, 0},
		{"negative values", Pagination{Page: -1, PageSize: -5}, 50, 0},
		{"page without size", Pagination{Page: 3}, 50, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.limit, tt.page.Limit())
			assert.Equal(t, tt.offset, tt.page.Offset())
		})
	}
}
