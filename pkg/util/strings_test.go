package util

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
	}{
		{"nil uses default", nil, 30},
		{"float truncates", 45.9, 45},
		{"numeric string", " 60 ", 60},
		{"garbage string", "fast", 30},
		{"decimal string", "12.5", 30},
		{"json number", json.Number("120"), 120},
		{"bool", true, 30},
		{"huge float saturates", 1e300, math.MaxInt},
		{"huge negative float saturates", -1e300, math.MinInt},
		{"infinity uses default", math.Inf(1), 30},
		{"huge numeric string saturates", "99999999999999999999999", math.MaxInt},
		{"huge json number saturates", json.Number("1e300"), math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceInt(tt.in, 30))
		})
	}
}

func TestSplitNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitNonEmpty(" a \n\n b \n", "\n"))
	assert.Empty(t, SplitNonEmpty("   ", "\n"))
}
