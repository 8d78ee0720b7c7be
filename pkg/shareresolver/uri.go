package shareresolver

import (
	"net/url"
	"path"
	"strings"
)

// splitURI returns the lower-cased scheme and decoded path of raw. URIs that
// net/url rejects still yield their raw path text.
func splitURI(raw string) (string, string) {
	if u, err := url.Parse(raw); err == nil {
		return strings.ToLower(u.Scheme), u.Path
	}

	scheme, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return "", raw
	}
	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[i:]
		} else {
			rest = ""
		}
	}
	return strings.ToLower(scheme), rest
}

// ParseContentURI splits a content://<authority>/<path> URI. The returned
// path is cleaned and has no leading slash.
func ParseContentURI(raw string) (authority, objectPath string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", ErrInvalidContentURI
	}
	if !strings.EqualFold(u.Scheme, SchemeContent) || u.Host == "" {
		return "", "", ErrInvalidContentURI
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if cleaned == "" {
		return "", "", ErrInvalidContentURI
	}
	return u.Host, cleaned, nil
}
