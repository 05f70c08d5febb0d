package util

import (
	"errors"
	"strings"
)

// ErrUnsafeName reports a download name that cannot be made safe.
var ErrUnsafeName = errors.New("unsafe download name")

// SanitizeDownloadName normalizes a server-derived filename before it is
// written to disk. Path separators become underscores, control characters
// are dropped, and traversal patterns are rejected outright rather than
// repaired.
func SanitizeDownloadName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrUnsafeName
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '/' || r == '\\':
			b.WriteRune('_')
		case r < 0x20 || r == 0x7f:
			// drop
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" || s == "." {
		return "", ErrUnsafeName
	}
	return s, nil
}
