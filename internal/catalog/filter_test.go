package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/katalog/internal/model"
)

func TestParseListQuerySentinels(t *testing.T) {
	q := ParseListQuery(url.Values{
		"category": {"all"},
		"color":    {"all"},
		"size":     {"all"},
		"sort":     {"price"},
	})

	assert.Nil(t, q.Category)
	assert.Nil(t, q.Color)
	require.NotNil(t, q.Size, "size has no sentinel")
	assert.Equal(t, "all", *q.Size)
}

func TestBuildFilterAllWithHalfRange(t *testing.T) {
	f := BuildFilter(ParseListQuery(url.Values{
		"category": {"all"},
		"minPrice": {"10"},
	}))

	assert.Nil(t, f.Category)
	assert.Nil(t, f.Price)
	assert.True(t, f.IsEmpty())
}

func TestBuildFilterCategoryAndRange(t *testing.T) {
	f := BuildFilter(ParseListQuery(url.Values{
		"category": {"X"},
		"minPrice": {"5"},
		"maxPrice": {"15"},
	}))

	require.NotNil(t, f.Category)
	require.NotNil(t, f.Price)

	tests := []struct {
		product model.Product
		want    bool
	}{
		{model.Product{Category: "X", Price: 5}, true},
		{model.Product{Category: "X", Price: 15}, true},
		{model.Product{Category: "X", Price: 10}, true},
		{model.Product{Category: "X", Price: 4.99}, false},
		{model.Product{Category: "X", Price: 15.01}, false},
		{model.Product{Category: "Y", Price: 10}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Matches(&tt.product), "%+v", tt.product)
	}
}

func TestBuildFilterUnparseableRangeDropped(t *testing.T) {
	f := BuildFilter(ListQuery{MinPrice: "5", MaxPrice: "lots"})
	assert.Nil(t, f.Price)

	f = BuildFilter(ListQuery{MinPrice: "", MaxPrice: "15"})
	assert.Nil(t, f.Price)
}

func TestBuildFilterLeadingNumberBounds(t *testing.T) {
	tests := []struct {
		min, max string
		want     PriceRange
	}{
		{"5abc", "15", PriceRange{Min: 5, Max: 15}},
		{" 2.5 ", "1e2USD", PriceRange{Min: 2.5, Max: 100}},
		{".5", "20.", PriceRange{Min: 0.5, Max: 20}},
		{"-3", "+7", PriceRange{Min: -3, Max: 7}},
	}
	for _, tt := range tests {
		f := BuildFilter(ListQuery{MinPrice: tt.min, MaxPrice: tt.max})
		require.NotNil(t, f.Price, "min %q max %q", tt.min, tt.max)
		assert.Equal(t, tt.want, *f.Price)
	}

	f := BuildFilter(ListQuery{MinPrice: "abc5", MaxPrice: "15"})
	assert.Nil(t, f.Price)
}

func TestBuildFilterSizeAndColor(t *testing.T) {
	f := BuildFilter(ParseListQuery(url.Values{
		"size":  {"50ml"},
		"color": {"red"},
	}))

	assert.True(t, f.Matches(&model.Product{Size: "50ml", Color: "red", Category: "anything"}))
	assert.False(t, f.Matches(&model.Product{Size: "100ml", Color: "red"}))
	assert.False(t, f.Matches(&model.Product{Size: "50ml", Color: "blue"}))
}
