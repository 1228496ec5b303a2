package http

import (
	"strings"

	xutil "FundMonitor/pkg/util"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// IsTrue reports whether a query flag is "true", case-insensitively.
func IsTrue(s string) bool { return strings.EqualFold(strings.TrimSpace(s), "true") }
