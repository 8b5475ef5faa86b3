package currency

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "R$ 0,00"},
		{"0", "R$ 0,00"},
		{"5", "R$ 0,05"},
		{"50", "R$ 0,50"},
		{"150", "R$ 1,50"},
		{"1050", "R$ 10,50"},
		{"123456", "R$ 1.234,56"},
		{"123456789", "R$ 1.234.567,89"},
		{"abc123", "R$ 1,23"},
		{"R$ 10,50", "R$ 10,50"},
		{"007", "R$ 0,07"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInput(tt.in))
		})
	}
}

func TestFormatInput_Idempotent(t *testing.T) {
	for _, in := range []string{"", "150", "123456", "999999999"} {
		once := FormatInput(in)
		assert.Equal(t, once, FormatInput(once), "input %q", in)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"R$ 10,50", 10.5},
		{"10,50", 10.5},
		{"", 0},
		{"garbage", 0},
		{"R$ 0,00", 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	for _, cents := range []int{0, 1, 99, 100, 150, 123456, 100000000} {
		formatted := FormatInput(fmt.Sprintf("%d", cents))
		got := Parse(formatted)
		require.InDelta(t, float64(cents)/100, got, 1e-9, "cents=%d formatted=%q", cents, formatted)
	}
}
