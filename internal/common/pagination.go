package common

import (
	"net/http"
	"strconv"
	"strings"
)

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads the page and limit query parameters. Missing or
// non-positive values fall back to page 1 and defaultPerPage; a positive
// maxPerPage caps the limit.
func ParsePagination(r *http.Request, defaultPerPage, maxPerPage int) (page, perPage int) {
	q := r.URL.Query()
	page = AtoiDefault(q.Get("page"), 1)
	if page <= 0 {
		page = 1
	}
	perPage = AtoiDefault(q.Get("limit"), defaultPerPage)
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Window returns the [start, end) bounds of a 1-based page over total items.
// A non-positive page is page 1, a non-positive limit spans everything, and a
// page past the end yields an empty window without overflowing.
func Window(page, limit, total int) (start, end int) {
	if total <= 0 {
		return 0, 0
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = total
	}
	if page-1 > (total-1)/limit {
		return total, total
	}
	start = (page - 1) * limit
	end = total
	if total-start > limit {
		end = start + limit
	}
	return start, end
}

// AtoiDefault converts value to an integer, falling back to def when it is
// empty or not a number.
func AtoiDefault(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
