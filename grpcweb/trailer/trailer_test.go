package trailer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    metadata.MD
	}{
		{
			name:    "single header",
			payload: "grpc-status: 0\r\n",
			want:    metadata.Pairs("grpc-status", "0"),
		},
		{
			name:    "multiple headers",
			payload: "grpc-status: 5\r\ngrpc-message: not found\r\n",
			want:    metadata.Pairs("grpc-status", "5", "grpc-message", "not found"),
		},
		{
			name:    "skips empty lines",
			payload: "grpc-status: 0\r\n\r\n",
			want:    metadata.Pairs("grpc-status", "0"),
		},
		{
			name:    "skips lines with no colon",
			payload: "grpc-status: 0\r\nmalformed-line\r\n",
			want:    metadata.Pairs("grpc-status", "0"),
		},
		{
			name:    "case-insensitive keys",
			payload: "Grpc-Status: 0\r\n",
			want:    metadata.Pairs("grpc-status", "0"),
		},
		{
			name:    "trims whitespace",
			payload: "grpc-status  :   0   \r\n",
			want:    metadata.Pairs("grpc-status", "0"),
		},
		{
			name:    "repeated header appends",
			payload: "x-custom: a\r\nx-custom: b\r\n",
			want:    metadata.Pairs("x-custom", "a", "x-custom", "b"),
		},
		{
			name:    "empty payload",
			payload: "",
			want:    metadata.MD{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.payload))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.payload, diff)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
