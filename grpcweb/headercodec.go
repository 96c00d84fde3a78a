package grpcweb

import (
	"encoding/base64"
	"strings"
)

// percentDecodeMessage reverses the percent-encoding gRPC uses for
// grpc-message header values. Unlike URL query encoding, grpc-message never
// treats '+' as a space, so this does not delegate to net/url.
func percentDecodeMessage(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+2 >= len(s) {
			b.WriteByte(s[i])
			continue
		}

		hi, ok1 := hexVal(s[i+1])
		lo, ok2 := hexVal(s[i+2])
		if !ok1 || !ok2 {
			b.WriteByte(s[i])
			continue
		}

		b.WriteByte(hi<<4 | lo)
		i += 2
	}

	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// decodeStatusDetailsBin decodes a grpc-status-details-bin header value. The
// wire value may use either standard or URL-safe base64, with or without
// padding, so all four variants are tried in turn.
func decodeStatusDetailsBin(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
