// Package handlers contains the fiber HTTP handlers. Handlers parse and
// validate requests, call services, and translate service errors to
// HTTP statuses.
package handlers

import (
	"strconv"

	"digiwallet/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// reservedQueryParams are consumed by paging and search and never
// forwarded as column filters.
var reservedQueryParams = map[string]struct{}{
	"page":       {},
	"limit":      {},
	"sort":       {},
	"searchTerm": {},
	"days":       {},
}

// parseListQuery reads paging, sorting, search, and filter parameters
// from the query string. Unknown parameters become candidate filters;
// the repository whitelists them against real columns.
func parseListQuery(c *fiber.Ctx) repositories.ListQuery {
	q := repositories.ListQuery{
		Page:       c.QueryInt("page", repositories.DefaultPage),
		Limit:      c.QueryInt("limit", repositories.DefaultLimit),
		Sort:       c.Query("sort"),
		SearchTerm: c.Query("searchTerm"),
	}
	if days, err := strconv.Atoi(c.Query("days")); err == nil && days > 0 {
		q.Days = days
	}

	filters := map[string]string{}
	for key, values := range c.Queries() {
		if _, reserved := reservedQueryParams[key]; reserved {
			continue
		}
		filters[key] = values
	}
	if len(filters) > 0 {
		q.Filters = filters
	}
	return q
}
