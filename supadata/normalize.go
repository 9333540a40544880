package supadata

import (
	"regexp"
	"sort"
	"strings"
)

var (
	firstCap = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	allCap   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ToSnakeCase converts a camelCase or PascalCase key to snake_case.
// Acronym runs stay together: "HTTPResponseCode" becomes "http_response_code".
func ToSnakeCase(s string) string {
	s = firstCap.ReplaceAllString(s, "${1}_${2}")
	s = allCap.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// NormalizeKeys rewrites every map key in v to snake_case, recursing through
// nested maps and slices. Scalars are returned unchanged.
//
// When two keys collide after conversion, a key that was already in snake
// form wins; otherwise the lexically last original key wins.
func NormalizeKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(t))
		canonical := make(map[string]bool, len(t))
		for _, k := range keys {
			nk := ToSnakeCase(k)
			if canonical[nk] {
				continue
			}
			out[nk] = NormalizeKeys(t[k])
			if nk == k {
				canonical[nk] = true
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = NormalizeKeys(item)
		}
		return out
	default:
		return v
	}
}
