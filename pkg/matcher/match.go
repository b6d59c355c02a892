// Package matcher compares request paths against route templates.
//
// A template is a slash separated list of segments. Segments starting with ':'
// bind the corresponding request segment to a named parameter; every other
// segment must match byte for byte. Empty segments are ignored on both sides, so
// leading, trailing and doubled slashes never affect a match.
package matcher

import (
	"net/url"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Match reports whether requestPath fits template and returns the bound parameters.
// Parameter values are percent-decoded; '+' is kept literally, and so is a '%' that
// does not start a valid escape. The returned Params are non-nil on success,
// possibly empty.
func Match(requestPath, template string) (httprouter.Params, bool) {
	reqParts := Segments(requestPath)
	routeParts := Segments(template)

	if len(reqParts) != len(routeParts) {
		return nil, false
	}

	params := make(httprouter.Params, 0, len(routeParts))

	for i, routePart := range routeParts {
		reqPart := reqParts[i]

		if name, ok := strings.CutPrefix(routePart, ":"); ok {
			params = bind(params, name, unescape(reqPart))
		} else if reqPart != routePart {
			return nil, false
		}
	}

	return params, true
}

// Segments splits p on '/' and drops empty segments.
func Segments(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}

// unescape percent-decodes s, leaving malformed escapes as they are.
func unescape(s string) string {
	if v, err := url.PathUnescape(s); err == nil {
		return v
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

// bind sets name to value, replacing an earlier binding of the same name.
func bind(params httprouter.Params, name, value string) httprouter.Params {
	for i := range params {
		if params[i].Key == name {
			params[i].Value = value
			return params
		}
	}
	return append(params, httprouter.Param{Key: name, Value: value})
}

// ToMap copies params into a plain map.
func ToMap(params httprouter.Params) map[string]string {
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Key] = p.Value
	}
	return m
}
