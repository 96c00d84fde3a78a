// Package trailer parses a gRPC-Web TRAILER frame payload — CRLF-separated
// "name: value" text — into a case-insensitive, multi-valued header map.
package trailer

import (
	"strings"

	"google.golang.org/grpc/metadata"
)

const crlf = "\r\n"

// Parse interprets payload as ASCII text, splits it on CRLF, and appends
// each well-formed "name: value" line into a metadata.MD. Empty lines, lines
// with no ':' and lines with an empty name before the first ':' are skipped; names
// and values are trimmed of ASCII whitespace before being appended.
func Parse(payload []byte) metadata.MD {
	md := metadata.MD{}

	for _, line := range strings.Split(string(payload), crlf) {
		if line == "" {
			continue
		}

		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}

		name := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		if name == "" {
			continue
		}

		md.Append(name, value)
	}

	return md
}
