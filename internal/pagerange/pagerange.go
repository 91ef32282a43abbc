// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagerange parses page-selection expressions like "1-5, 8, 10-12"
// into ordered page lists bounded by a document's page count.
package pagerange

import (
	"sort"
	"strconv"
	"strings"
)

// Parse expands expr against a document of n pages. An empty or blank
// expression selects every page. Tokens are comma-separated single pages or
// "start-end" ranges; malformed and fully out-of-range tokens are dropped
// rather than failing the parse, and ranges are clamped to [1, n] before
// expansion. The result is ascending and duplicate-free.
func Parse(expr string, n int) []int {
	if n <= 0 {
		return nil
	}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		pages := make([]int, n)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	seen := make(map[int]bool)
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		start, end, ok := parseToken(token)
		if !ok || start > end {
			continue
		}
		if start < 1 {
			start = 1
		}
		if end > n {
			end = n
		}
		for p := start; p <= end; p++ {
			seen[p] = true
		}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// parseToken reads a single token as either one page or a start-end range.
func parseToken(token string) (start, end int, ok bool) {
	if i := strings.IndexByte(token, '-'); i >= 0 {
		a, errA := strconv.Atoi(strings.TrimSpace(token[:i]))
		b, errB := strconv.Atoi(strings.TrimSpace(token[i+1:]))
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		return a, b, true
	}
	p, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return p, p, true
}
