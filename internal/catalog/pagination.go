package catalog

import "github.com/chucuoi/flower-storefront/internal/models"

// NewPagination builds the pagination envelope. A page past the end is
// echoed back as-is with an empty result.
func NewPagination(page, limit, total int) models.Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
		Limit:         limit,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
	}
}
