package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0712345678", want: "+254712345678"},
		{in: "712345678", want: "+254712345678"},
		{in: "254712345678", want: "+254712345678"},
		{in: "+254712345678", want: "+254712345678"},
		{in: "0712 345 678", want: "+254712345678"},
		{in: "0712-345-678", want: "+254712345678"},
		{in: "(0712) 345678", want: "+254712345678"},
		{in: "", wantErr: true},
		{in: "07123", wantErr: true},
		{in: "phone", wantErr: true},
		{in: "07123456789012", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestSendUnconfigured(t *testing.T) {
	client := NewWhatsAppClient("", "")
	assert.False(t, client.Configured())

	err := client.Send(context.Background(), "0712345678", "hello")
	assert.Error(t, err)
}
