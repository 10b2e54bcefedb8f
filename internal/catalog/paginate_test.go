package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		page, limit string
		total       int64
		want        Page
	}{
		{"1", "10", 25, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 3}},
		{"3", "10", 25, Page{Number: 3, Skip: 20, Take: 10, TotalPages: 3}},
		{"", "", 25, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 3}},
		{"abc", "xyz", 5, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 1}},
		{"2", "5", 10, Page{Number: 2, Skip: 5, Take: 5, TotalPages: 2}},
		{"1", "10", 0, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 0}},
		{"1", "0", 30, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 3}},
		{"2.5", "20.7", 100, Page{Number: 2, Skip: 20, Take: 20, TotalPages: 5}},
		{"3abc", "10", 100, Page{Number: 3, Skip: 20, Take: 10, TotalPages: 10}},
		{" 2", "+5", 10, Page{Number: 2, Skip: 5, Take: 5, TotalPages: 2}},
		{"x3", "10px", 40, Page{Number: 1, Skip: 0, Take: 10, TotalPages: 4}},
	}

	for _, tt := range tests {
		got := Paginate(tt.page, tt.limit, tt.total)
		assert.Equal(t, tt.want, got, "Paginate(%q, %q, %d)", tt.page, tt.limit, tt.total)
	}
}

func TestPaginateBelowFirstPage(t *testing.T) {
	p := Paginate("0", "10", 25)
	assert.Equal(t, -10, p.Skip)
	assert.Equal(t, 0, p.Offset())

	p = Paginate("-2", "10", 25)
	assert.Equal(t, -30, p.Skip)
	assert.Equal(t, 0, p.Offset())
}
