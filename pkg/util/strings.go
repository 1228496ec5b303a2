package util

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// CoerceInt converts a loosely typed JSON value to int. Numbers are
// truncated and saturate at the int range, numeric strings are parsed;
// anything else yields def.
func CoerceInt(v interface{}, def int) int {
	switch n := v.(type) {
	case nil:
		return def
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		switch {
		case math.IsNaN(n), math.IsInf(n, 0):
			return def
		case n >= math.MaxInt:
			return math.MaxInt
		case n <= math.MinInt:
			return math.MinInt
		}
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return CoerceInt(f, def)
		}
		return def
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return i
		}
		return def
	default:
		return def
	}
}

// SplitNonEmpty splits s on sep, trims each part and drops empty ones.
func SplitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }
