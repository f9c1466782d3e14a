package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMobile(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"13800000000", true},
		{"19912345678", true},
		{"12345678901", true},
		{"23800000000", false}, // must start with 1
		{"1380000000", false},  // too short
		{"138000000000", false},
		{"1380000000a", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidMobile(tt.phone), "phone %q", tt.phone)
	}
}
