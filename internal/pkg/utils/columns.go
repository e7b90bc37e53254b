package utils

import (
	"encoding/json"
	"strings"
)

// JSONColumn encodes v the way the json serializer stores list and map
// columns. Map-based gorm updates skip serializers, so callers use this
// for those writes.
func JSONColumn(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}

// DistinctTrimmed trims each value and drops blanks and repeats, keeping
// first-seen order.
func DistinctTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
