package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Pagination defaults and caps.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery carries the listing parameters accepted by the dashboard
// endpoints: equality filters, a search term, a relative date window,
// pagination and sorting.
type ListQuery struct {
	Page       int
	Limit      int
	Sort       string            // "-createdAt" style; leading '-' means DESC
	SearchTerm string            // matched case-insensitively against the search column
	Days       int               // restrict to the last N days of created_at; 0 means all
	Filters    map[string]string // query-param name -> requested value
}

// Meta is the pagination block returned alongside every listing.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func (q ListQuery) page() int {
	if q.Page < 1 {
		return DefaultPage
	}
	return q.Page
}

func (q ListQuery) limit() int {
	if q.Limit < 1 {
		return DefaultLimit
	}
	if q.Limit > MaxLimit {
		return MaxLimit
	}
	return q.Limit
}

func (q ListQuery) offset() int {
	return (q.page() - 1) * q.limit()
}

// ignoredFilterValue reports whether a filter value is a placeholder the
// frontend sends for "no constraint". Such values are ignored, never
// treated as equality constraints.
func ignoredFilterValue(v string) bool {
	switch v {
	case "", "all", "null", "undefined":
		return true
	}
	return false
}

// cleanFilters maps requested filters onto real columns, dropping unknown
// keys and placeholder values. The columns whitelist doubles as the
// query-param -> column translation.
func cleanFilters(filters map[string]string, columns map[string]string) map[string]string {
	out := make(map[string]string)
	for key, value := range filters {
		column, ok := columns[key]
		if !ok || ignoredFilterValue(value) {
			continue
		}
		out[column] = value
	}
	return out
}

// orderClause translates a "-createdAt" style sort into an ORDER BY
// expression, restricted to the whitelisted columns.
func orderClause(sort string, columns map[string]string, fallback string) string {
	if sort == "" {
		return fallback
	}
	direction := "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}
	column, ok := columns[sort]
	if !ok {
		return fallback
	}
	return column + " " + direction
}

// apply narrows db with the query's filters, search term and date window.
// Sorting and pagination are applied separately so the same conditions
// can drive the total count.
func (q ListQuery) apply(db *gorm.DB, searchColumn string, columns map[string]string) *gorm.DB {
	for column, value := range cleanFilters(q.Filters, columns) {
		db = db.Where(column+" = ?", value)
	}
	if q.SearchTerm != "" && searchColumn != "" {
		db = db.Where(searchColumn+" ILIKE ?", "%"+q.SearchTerm+"%")
	}
	if q.Days > 0 {
		since := time.Now().AddDate(0, 0, -q.Days)
		db = db.Where("created_at >= ?", since)
	}
	return db
}

func (q ListQuery) meta(total int64) Meta {
	limit := int64(q.limit())
	totalPages := total / limit
	if total%limit > 0 {
		totalPages++
	}
	return Meta{
		Page:       q.page(),
		Limit:      q.limit(),
		Total:      total,
		TotalPages: totalPages,
	}
}
