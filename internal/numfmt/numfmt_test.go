package numfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2, "2"},
		{0.1, "0.1"},
		{1000, "1,000"},
		{500000000, "500,000,000"},
		{1234.5678, "1,234.5678"},
		{-2500.5, "-2,500.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, "1,234.57", Cents(1234.5678))
	assert.Equal(t, "0.1", Cents(0.1))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "1000000000", Plain(1e9))
	assert.Equal(t, "0.25", Plain(0.25))
}
