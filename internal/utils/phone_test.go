package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"national us number", "(201) 555-0123", "US", "+12015550123"},
		{"already e164", "+12015550123", "US", "+12015550123"},
		{"lowercase region", "201 555 0123", "us", "+12015550123"},
		{"garbage kept", "call reception", "US", "call reception"},
		{"blank", "   ", "US", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, tt.region))
		})
	}
}
