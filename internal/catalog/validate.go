package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Input is a create or update payload as decoded at the transport edge.
// Price and OldPrice keep their raw text; nil means the field was absent.
type Input struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Description string
	Price       *string
	OldPrice    *string
	Images      []string
	Author      int64
}

// Fields is a validated payload. Name is the base name, not yet composed.
type Fields struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Description string
	Price       float64
	OldPrice    *float64
	Images      []string
	Author      int64
}

// Categories whose products must carry a size when created.
var sizeRequiredOnCreate = map[string]bool{
	"فازلين زيت الزيتون":     true,
	"بودرة مزيل رائحة العرق": true,
	"كريم مزيل رائحة العرق":  true,
}

// LegacySizeCategory is the only category whose size is enforced on update.
const LegacySizeCategory = "حناء بودر"

// SizeRequiredOnCreate reports whether creating a product in category needs a size.
func SizeRequiredOnCreate(category string) bool {
	return sizeRequiredOnCreate[category]
}

// SizeRequiredOnUpdate reports whether updating a product in category needs a size.
// This is deliberately a different rule from SizeRequiredOnCreate.
func SizeRequiredOnUpdate(category string) bool {
	return category == LegacySizeCategory
}

var (
	validate          = validator.New()
	descriptionPolicy = bluemonday.UGCPolicy()
)

type requirement struct {
	field string
	value any
	tag   string
}

// ValidateCreate checks a create payload and returns the normalised fields.
func ValidateCreate(in Input) (Fields, error) {
	return validateInput(in, true)
}

// ValidateUpdate checks an update payload. Images and author are optional.
func ValidateUpdate(in Input) (Fields, error) {
	return validateInput(in, false)
}

func validateInput(in Input, create bool) (Fields, error) {
	// Markup-only descriptions count as missing; the stored text is the
	// trimmed original.
	in.Description = strings.TrimSpace(in.Description)
	visible := strings.TrimSpace(descriptionPolicy.Sanitize(in.Description))

	reqs := []requirement{
		{"name", in.Name, "required"},
		{"category", in.Category, "required"},
		{"description", visible, "required"},
		{"price", rawText(in.Price), "required"},
	}
	if create {
		reqs = append(reqs,
			requirement{"image", in.Images, "required,min=1,dive,required"},
			requirement{"author", in.Author, "required"},
		)
	}
	for _, r := range reqs {
		if err := validate.Var(r.value, r.tag); err != nil {
			return Fields{}, &ValidationError{Kind: MissingField, Field: r.field}
		}
	}

	price, ok := ParseNumber(*in.Price)
	if !ok || price < 0 {
		return Fields{}, &ValidationError{Kind: InvalidNumber, Field: "price"}
	}

	var oldPrice *float64
	if raw := rawText(in.OldPrice); raw != "" {
		v, ok := ParseNumber(raw)
		if !ok || v < 0 {
			return Fields{}, &ValidationError{Kind: InvalidNumber, Field: "oldPrice"}
		}
		oldPrice = &v
	}

	sizeRequired := SizeRequiredOnUpdate
	if create {
		sizeRequired = SizeRequiredOnCreate
	}
	if sizeRequired(in.Category) && in.Size == "" {
		return Fields{}, &ValidationError{Kind: MissingSize, Field: "size"}
	}

	f := Fields{
		Name:        in.Name,
		Category:    in.Category,
		Size:        in.Size,
		Color:       in.Color,
		Description: in.Description,
		Price:       price,
		OldPrice:    oldPrice,
		Author:      in.Author,
	}
	if len(in.Images) > 0 {
		f.Images = append([]string(nil), in.Images...)
	}
	return f, nil
}

// ParseNumber parses a decimal number, ignoring surrounding whitespace.
// NaN and infinities are rejected.
func ParseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func rawText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
