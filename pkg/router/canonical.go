package router

import (
	"errors"
	"net/url"
	"strings"
)

// Path canonicalization errors.
var (
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-splat segment")
)

// CanonicalizePath normalizes a URL path before matching:
//   - drops the query string and fragment
//   - adds a leading slash and removes a trailing one (except for "/")
//   - collapses repeated slashes (/blog//post → /blog/post)
//   - removes "." segments and resolves ".." segments
//
// Backslashes, NUL bytes, malformed percent-escapes and ".." above the root
// are rejected. Percent-escapes are kept; see decodeSegments.
func CanonicalizePath(input string) (string, error) {
	p, _, _ := strings.Cut(input, "#")
	p, _, _ = strings.Cut(p, "?")

	if strings.Contains(p, "\\") {
		return "", ErrBackslashInPath
	}
	if strings.Contains(p, "\x00") || strings.Contains(strings.ToUpper(p), "%00") {
		return "", ErrNullByteInPath
	}
	if strings.Contains(p, "%") {
		if err := validatePercentEscapes(p); err != nil {
			return "", err
		}
	}

	var result []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(result) == 0 {
				return "", ErrPathEscapesRoot
			}
			result = result[:len(result)-1]
		default:
			result = append(result, seg)
		}
	}

	return "/" + strings.Join(result, "/"), nil
}

// validatePercentEscapes checks that every '%' starts a %XX hex escape.
func validatePercentEscapes(p string) error {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHexDigit(p[i+1]) || !isHexDigit(p[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodeSegments splits a canonical path and unescapes each segment. A
// decoded segment may contain "/"; only a splat may accept it.
func decodeSegments(canonical string) ([]string, error) {
	raw := splitPath(canonical)
	out := make([]string, len(raw))
	for i, seg := range raw {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		out[i] = decoded
	}
	return out, nil
}
