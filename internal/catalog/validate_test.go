package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func validCreateInput() Input {
	return Input{
		Name:        "Rose Oil",
		Category:    "Oils",
		Description: "Cold-pressed rose oil",
		Price:       str("12.5"),
		Images:      []string{"https://cdn.example.com/rose.jpg"},
		Author:      1,
	}
}

func requireValidation(t *testing.T, err error, kind ValidationKind, field string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation), "expected ErrValidation, got %v", err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, kind, ve.Kind)
	assert.Equal(t, field, ve.Field)
}

func TestValidateCreateValid(t *testing.T) {
	f, err := ValidateCreate(validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, "Rose Oil", f.Name)
	assert.Equal(t, 12.5, f.Price)
	assert.Nil(t, f.OldPrice)
	assert.Equal(t, []string{"https://cdn.example.com/rose.jpg"}, f.Images)
	assert.Equal(t, int64(1), f.Author)
}

func TestValidateCreateMissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Input)
	}{
		{"name", func(in *Input) { in.Name = "" }},
		{"category", func(in *Input) { in.Category = "" }},
		{"description", func(in *Input) { in.Description = "" }},
		{"price", func(in *Input) { in.Price = nil }},
		{"price", func(in *Input) { in.Price = str("  ") }},
		{"image", func(in *Input) { in.Images = nil }},
		{"image", func(in *Input) { in.Images = []string{} }},
		{"image", func(in *Input) { in.Images = []string{""} }},
		{"author", func(in *Input) { in.Author = 0 }},
	}

	for _, tt := range tests {
		in := validCreateInput()
		tt.mutate(&in)
		_, err := ValidateCreate(in)
		requireValidation(t, err, MissingField, tt.field)
	}
}

func TestValidateUpdateDoesNotRequireImageOrAuthor(t *testing.T) {
	in := validCreateInput()
	in.Images = nil
	in.Author = 0

	f, err := ValidateUpdate(in)
	require.NoError(t, err)
	assert.Nil(t, f.Images)
	assert.Zero(t, f.Author)
}

func TestValidateInvalidNumbers(t *testing.T) {
	for _, raw := range []string{"-1", "abc", "NaN", "Inf", "12abc"} {
		in := validCreateInput()
		in.Price = str(raw)
		_, err := ValidateCreate(in)
		requireValidation(t, err, InvalidNumber, "price")
	}

	for _, raw := range []string{"-0.01", "cheap"} {
		in := validCreateInput()
		in.OldPrice = str(raw)
		_, err := ValidateUpdate(in)
		requireValidation(t, err, InvalidNumber, "oldPrice")
	}
}

func TestValidateZeroPriceAllowed(t *testing.T) {
	in := validCreateInput()
	in.Price = str("0")

	f, err := ValidateCreate(in)
	require.NoError(t, err)
	assert.Zero(t, f.Price)
}

func TestValidateOldPriceOmission(t *testing.T) {
	for _, raw := range []*string{nil, str(""), str("   ")} {
		in := validCreateInput()
		in.OldPrice = raw
		f, err := ValidateCreate(in)
		require.NoError(t, err)
		assert.Nil(t, f.OldPrice, "absent oldPrice must stay absent, not zero")
	}

	in := validCreateInput()
	in.OldPrice = str(" 20 ")
	f, err := ValidateCreate(in)
	require.NoError(t, err)
	require.NotNil(t, f.OldPrice)
	assert.Equal(t, 20.0, *f.OldPrice)
}

func TestSizePolicies(t *testing.T) {
	sized := "كريم مزيل رائحة العرق"

	assert.True(t, SizeRequiredOnCreate(sized))
	assert.False(t, SizeRequiredOnUpdate(sized))
	assert.True(t, SizeRequiredOnUpdate(LegacySizeCategory))
	assert.False(t, SizeRequiredOnCreate(LegacySizeCategory))
	assert.False(t, SizeRequiredOnCreate("Oils"))
}

func TestValidateSizeAsymmetry(t *testing.T) {
	in := validCreateInput()
	in.Category = "بودرة مزيل رائحة العرق"

	_, err := ValidateCreate(in)
	requireValidation(t, err, MissingSize, "size")

	_, err = ValidateUpdate(in)
	assert.NoError(t, err, "fixed-set categories are not size-checked on update")

	in.Category = LegacySizeCategory
	_, err = ValidateCreate(in)
	assert.NoError(t, err, "legacy category is not size-checked on create")

	_, err = ValidateUpdate(in)
	requireValidation(t, err, MissingSize, "size")

	in.Size = "250g"
	_, err = ValidateUpdate(in)
	assert.NoError(t, err)
}

func TestValidateMarkupOnlyDescription(t *testing.T) {
	in := validCreateInput()
	in.Description = "<script>alert(1)</script>"
	_, err := ValidateCreate(in)
	requireValidation(t, err, MissingField, "description")

	in.Description = "  <b></b>  "
	_, err = ValidateUpdate(in)
	requireValidation(t, err, MissingField, "description")
}

func TestValidateKeepsDescriptionText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Size < 50ml & "gentle" formula`, `Size < 50ml & "gentle" formula`},
		{"  Soft cream\n", "Soft cream"},
		{"<b>Bold</b> claim", "<b>Bold</b> claim"},
	}
	for _, tt := range tests {
		in := validCreateInput()
		in.Description = tt.in

		f, err := ValidateCreate(in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Description)

		f, err = ValidateUpdate(in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Description)
	}
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber(" 7.25 ")
	assert.True(t, ok)
	assert.Equal(t, 7.25, v)

	_, ok = ParseNumber("")
	assert.False(t, ok)
	_, ok = ParseNumber("Infinity")
	assert.False(t, ok)
}
