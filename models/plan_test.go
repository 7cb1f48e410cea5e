package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlan(t *testing.T) {
	plan, ok := FindPlan("Jumbo")
	require.True(t, ok)
	assert.Equal(t, "3,500", plan.Price)
	assert.Equal(t, "20 Mbps", plan.Speed)

	_, ok = FindPlan("Nonexistent")
	assert.False(t, ok)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "3,500", want: 3500},
		{in: "1,500", want: 1500},
		{in: "500", want: 500},
		{in: " 2,000 ", want: 2000},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "-100", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatReceiptNumber(t *testing.T) {
	assert.Equal(t, "REC-0001", FormatReceiptNumber(1))
	assert.Equal(t, "REC-0042", FormatReceiptNumber(42))
	assert.Equal(t, "REC-12345", FormatReceiptNumber(12345))
}
