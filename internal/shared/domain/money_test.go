package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"12,50", 1250},
		{"12.5", 1250},
		{" 3 ", 300},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseCents(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "abc", "-1", "NaN", "1,2,3"} {
		_, err := ParseCents(bad)
		assert.Error(t, err, bad)
	}
}
