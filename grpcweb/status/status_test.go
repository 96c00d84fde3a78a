package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestFromHTTPStatus(t *testing.T) {
	tests := []struct {
		httpStatus int
		want       Code
	}{
		{200, codes.OK},
		{400, codes.Internal},
		{401, codes.Unauthenticated},
		{403, codes.PermissionDenied},
		{404, codes.Unimplemented},
		{429, codes.Unavailable},
		{502, codes.Unavailable},
		{503, codes.Unavailable},
		{504, codes.Unavailable},
		{418, codes.Unknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromHTTPStatus(tt.httpStatus))
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(codes.OK))
	assert.True(t, Valid(codes.Code(16)))
	assert.False(t, Valid(codes.Code(17)))
	assert.False(t, Valid(codes.Code(999)))
}
