package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeName(t *testing.T) {
	tests := []struct {
		base, size, want string
	}{
		{"Rose Oil", "", "Rose Oil"},
		{"Rose Oil", "50ml", "Rose Oil - 50ml"},
		{"حناء", "100g", "حناء - 100g"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComposeName(tt.base, tt.size))
	}
}
