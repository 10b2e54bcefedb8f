package catalog

import (
	"net/url"

	"github.com/erazemk/katalog/internal/model"
)

// AllSentinel is the query value that means "no constraint" for category and color.
const AllSentinel = "all"

// ListQuery holds the listing options after transport parsing.
// A nil pointer means the option places no constraint.
type ListQuery struct {
	Category *string
	Size     *string
	Color    *string
	MinPrice string
	MaxPrice string
	Page     string
	Limit    string
}

// ParseListQuery reads listing options from URL query values. The "all"
// sentinel for category and color is mapped to no constraint here, so nothing
// past the transport edge sees it. Unrecognised keys are ignored.
func ParseListQuery(values url.Values) ListQuery {
	return ListQuery{
		Category: optional(values.Get("category"), AllSentinel),
		Size:     optional(values.Get("size"), ""),
		Color:    optional(values.Get("color"), AllSentinel),
		MinPrice: values.Get("minPrice"),
		MaxPrice: values.Get("maxPrice"),
		Page:     values.Get("page"),
		Limit:    values.Get("limit"),
	}
}

func optional(v, sentinel string) *string {
	if v == "" || (sentinel != "" && v == sentinel) {
		return nil
	}
	return &v
}

// PriceRange is an inclusive price constraint.
type PriceRange struct {
	Min float64
	Max float64
}

// Filter is the normalised listing predicate. Nil fields are unconstrained;
// set fields are combined with AND.
type Filter struct {
	Category *string
	Size     *string
	Color    *string
	Price    *PriceRange
}

// BuildFilter translates list options into a predicate. It never fails: a
// price range is only added when both bounds are present and start with a
// number, and is silently dropped otherwise. Text after a leading number is
// ignored, so "5abc" bounds at 5.
func BuildFilter(q ListQuery) Filter {
	f := Filter{
		Category: q.Category,
		Size:     q.Size,
		Color:    q.Color,
	}
	if q.MinPrice != "" && q.MaxPrice != "" {
		lo, okLo := leadingFloatOf(q.MinPrice)
		hi, okHi := leadingFloatOf(q.MaxPrice)
		if okLo && okHi {
			f.Price = &PriceRange{Min: lo, Max: hi}
		}
	}
	return f
}

// IsEmpty reports whether the filter matches every product.
func (f Filter) IsEmpty() bool {
	return f.Category == nil && f.Size == nil && f.Color == nil && f.Price == nil
}

// Matches evaluates the filter against a single product.
func (f Filter) Matches(p *model.Product) bool {
	if f.Category != nil && p.Category != *f.Category {
		return false
	}
	if f.Size != nil && p.Size != *f.Size {
		return false
	}
	if f.Color != nil && p.Color != *f.Color {
		return false
	}
	if f.Price != nil && (p.Price < f.Price.Min || p.Price > f.Price.Max) {
		return false
	}
	return true
}
