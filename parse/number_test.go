package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain", "1210.00", 1210},
		{"thousands separators", "1,234.56", 1234.56},
		{"millions", "14,790,000", 14790000},
		{"surrounding whitespace", "  520.00 ", 520},
		{"empty", "", 0},
		{"whitespace only", "   ", 0},
		{"garbage", "n/a", 0},
		{"dash placeholder", "-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestSignedChange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain positive", "20.00", 20},
		{"explicit plus", "+20.00", 20},
		{"negative", "-15.5", -15.5},
		{"glyph prefix", "▼ -2.48", -2.48},
		{"currency prefix", "TZS +20.00", 20},
		{"last token wins", "1.5 then -3.25", -3.25},
		{"no digits", "unchanged", 0},
		{"empty", "", 0},
		{"bare fraction", ".5", 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignedChange(tt.in))
		})
	}
}
