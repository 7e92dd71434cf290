package controllers

import (
	"strconv"
	"strings"
)

// parsePagination normalizes page/limit query values: page >= 1, limit
// defaults to 10 and is capped at 100.
func parsePagination(pageQ, limitQ string) (int, int) {
	page, limit := 1, 10
	if v := strings.TrimSpace(pageQ); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(limitQ); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
