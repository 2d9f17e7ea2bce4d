package handlers

import (
	"strconv"
	"strings"
)

// Callback payloads follow "<domain>:<command>:<arg1>:...". A literal
// "-" stands in for an absent or default argument, so positions never
// shift.
const ArgNone = "-"

// Callback joins parts into a payload string.
func Callback(parts ...string) string {
	return strings.Join(parts, ":")
}

// Arg returns positional argument i, or "-" when it is missing.
func Arg(args []string, i int) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return ArgNone
}

// ArgInt parses positional argument i as an int, with a fallback.
func ArgInt(args []string, i, fallback int) int {
	raw := Arg(args, i)
	if raw == ArgNone {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// pageBounds converts a zero-based page into a query offset and clamps
// it to the available pages.
func pageBounds(page, pageSize int, total int64) (offset, clampedPage, totalPages int) {
	totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}
	return page * pageSize, page, totalPages
}
